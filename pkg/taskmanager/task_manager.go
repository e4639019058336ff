package taskmanager

import (
	"context"
	"errors"
	"sync"

	"github.com/tokamak-network/chainops-backend/internal/logger"
	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("task manager is stopped")
)

type Task func()

type TaskManager struct {
	tasks      chan Task
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// mu guards stopped and the close of tasks against concurrent sends.
	mu      sync.RWMutex
	stopped bool
}

func NewTaskManager(numWorkers int, bufferSize int) *TaskManager {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskManager{
		tasks:      make(chan Task, bufferSize),
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (tm *TaskManager) Start() {
	for i := 0; i < tm.numWorkers; i++ {
		tm.wg.Add(1)
		go func(workerID int) {
			defer tm.wg.Done()
			for task := range tm.tasks {
				tm.run(workerID, task)
			}
			logger.Debug("Worker exiting", zap.Int("worker", workerID))
		}(i)
	}
	logger.Info("Task manager started", zap.Int("workers", tm.numWorkers), zap.Int("buffer", cap(tm.tasks)))
}

// AddTask queues a task, waiting for buffer space until ctx is done.
func (tm *TaskManager) AddTask(ctx context.Context, task Task) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.stopped {
		return ErrStopped
	}

	select {
	case <-tm.ctx.Done():
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case tm.tasks <- task:
		return nil
	}
}

// Submit queues a task without waiting. It fails with ErrQueueFull when every
// worker is busy and the buffer is full.
func (tm *TaskManager) Submit(_ context.Context, task func()) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.stopped {
		return ErrStopped
	}

	select {
	case <-tm.ctx.Done():
		return ErrStopped
	case tm.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new tasks, runs everything already queued and waits for the
// workers to exit.
func (tm *TaskManager) Stop() {
	// unblocks AddTask callers waiting for buffer space
	tm.cancel()

	tm.mu.Lock()
	if tm.stopped {
		tm.mu.Unlock()
		tm.wg.Wait()
		return
	}
	tm.stopped = true
	close(tm.tasks)
	tm.mu.Unlock()

	tm.wg.Wait()
	logger.Info("All workers stopped")
}

func (tm *TaskManager) run(workerID int, task Task) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("Task panicked", zap.Int("worker", workerID), zap.Any("panic", recovered), zap.Stack("stack"))
		}
	}()
	task()
}
