package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLookbackHours = 24
	MaxLookbackHours     = 168

	activeRunsLimit  = 5
	topProjectsLimit = 3
	snapshotQueries  = 7
)

type SnapshotPolicy string

const (
	// SnapshotPolicyPartial returns whatever sub-queries succeeded and names
	// the rest in OperationsSnapshot.Degraded.
	SnapshotPolicyPartial SnapshotPolicy = "partial"
	// SnapshotPolicyStrict fails the whole snapshot on the first sub-query error.
	SnapshotPolicyStrict SnapshotPolicy = "strict"
)

type SnapshotRepository interface {
	CountDeployments(ctx context.Context, filter entities.DeploymentFilter) (int64, error)
	ListActiveDeployments(ctx context.Context, statuses []entities.DeploymentStatus, limit int) ([]*entities.DeploymentEntity, error)
	TopProjectsByDeploymentCount(ctx context.Context, limit int) ([]*entities.ProjectDeploymentCount, error)
	GetLatestDeployment(ctx context.Context) (*entities.DeploymentEntity, error)
}

type OperationsService struct {
	repo   SnapshotRepository
	policy SnapshotPolicy
	now    func() time.Time
}

func NewOperationsService(repo SnapshotRepository, policy SnapshotPolicy) *OperationsService {
	if policy != SnapshotPolicyStrict {
		policy = SnapshotPolicyPartial
	}
	return &OperationsService{repo: repo, policy: policy, now: time.Now}
}

// GetOperationsSnapshot computes the aggregate view over the last
// lookbackHours. The sub-queries run concurrently and may observe slightly
// different states of the store.
func (s *OperationsService) GetOperationsSnapshot(
	ctx context.Context,
	lookbackHours int,
) (*entities.OperationsSnapshot, error) {
	if lookbackHours == 0 {
		lookbackHours = DefaultLookbackHours
	}
	if lookbackHours < 1 || lookbackHours > MaxLookbackHours {
		return nil, fmt.Errorf("%w: hours must be between 1 and %d, got %d", entities.ErrInvalidArgument, MaxLookbackHours, lookbackHours)
	}

	now := s.now().UTC()
	since := now.Add(-time.Duration(lookbackHours) * time.Hour)
	windowFilter := entities.DeploymentFilter{StartedSince: &since}

	var (
		total, window, succeeded, failed int64
		activeRuns                       []*entities.DeploymentEntity
		latest                           *entities.DeploymentEntity
		topProjects                      []*entities.ProjectDeploymentCount

		mu       sync.Mutex
		errs     error
		degraded []string
	)

	collect := func(field string, err error) error {
		if err == nil {
			return nil
		}
		err = fmt.Errorf("%s: %w", field, err)
		if s.policy == SnapshotPolicyStrict {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		errs = multierr.Append(errs, err)
		degraded = append(degraded, field)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountDeployments(gctx, entities.DeploymentFilter{})
		total = n
		return collect(entities.SnapshotFieldTotalDeployments, err)
	})
	g.Go(func() error {
		n, err := s.repo.CountDeployments(gctx, windowFilter)
		window = n
		return collect(entities.SnapshotFieldWindowDeployments, err)
	})
	g.Go(func() error {
		filter := windowFilter
		filter.Statuses = []entities.DeploymentStatus{entities.DeploymentStatusSuccess}
		n, err := s.repo.CountDeployments(gctx, filter)
		succeeded = n
		return collect(entities.SnapshotFieldSuccessRate, err)
	})
	g.Go(func() error {
		filter := windowFilter
		filter.Statuses = []entities.DeploymentStatus{entities.DeploymentStatusFailed}
		n, err := s.repo.CountDeployments(gctx, filter)
		failed = n
		return collect(entities.SnapshotFieldFailedDeployments, err)
	})
	g.Go(func() error {
		runs, err := s.repo.ListActiveDeployments(gctx, entities.ActiveDeploymentStatuses, activeRunsLimit)
		activeRuns = runs
		return collect(entities.SnapshotFieldActiveRuns, err)
	})
	g.Go(func() error {
		deployment, err := s.repo.GetLatestDeployment(gctx)
		latest = deployment
		return collect(entities.SnapshotFieldLatestDeployment, err)
	})
	g.Go(func() error {
		projects, err := s.repo.TopProjectsByDeploymentCount(gctx, topProjectsLimit)
		topProjects = projects
		return collect(entities.SnapshotFieldTopProjects, err)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Operations snapshot failed", zap.Int("hours", lookbackHours), zap.Error(err))
		return nil, fmt.Errorf("failed to compute operations snapshot: %w", err)
	}
	if len(multierr.Errors(errs)) == snapshotQueries {
		logger.Error("Operations snapshot unavailable", zap.Int("hours", lookbackHours), zap.Error(errs))
		return nil, fmt.Errorf("failed to compute operations snapshot: %w", errs)
	}

	// the success rate needs both the window and the success count
	if containsField(degraded, entities.SnapshotFieldWindowDeployments) &&
		!containsField(degraded, entities.SnapshotFieldSuccessRate) {
		degraded = append(degraded, entities.SnapshotFieldSuccessRate)
	}
	sort.Strings(degraded)
	if errs != nil {
		logger.Warn("Operations snapshot degraded",
			zap.Int("hours", lookbackHours),
			zap.Strings("fields", degraded),
			zap.Error(errs))
	}

	snapshot := &entities.OperationsSnapshot{
		Window:      lookbackHours,
		Since:       since,
		GeneratedAt: now,
		Metrics: entities.SnapshotMetrics{
			TotalDeployments:  total,
			WindowDeployments: window,
			FailedDeployments: failed,
		},
		ActiveRuns:       activeRuns,
		LatestDeployment: latest,
		TopProjects:      topProjects,
		Degraded:         degraded,
	}
	if !containsField(degraded, entities.SnapshotFieldSuccessRate) {
		snapshot.Metrics.SuccessRate = SuccessRate(succeeded, window)
	}
	if snapshot.ActiveRuns == nil {
		snapshot.ActiveRuns = []*entities.DeploymentEntity{}
	}
	if snapshot.TopProjects == nil {
		snapshot.TopProjects = []*entities.ProjectDeploymentCount{}
	}
	return snapshot, nil
}

// SuccessRate is the rounded percentage of successful runs. An empty window
// has a rate of 0.
func SuccessRate(succeeded, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(succeeded) / float64(total) * 100))
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
