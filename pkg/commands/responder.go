package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/presenter"
)

// Handle identifies an acknowledged interaction until it is resolved.
type Handle string

// Responder is the two-step reply channel of the chat gateway. Ack must be
// fast: the gateway expires interactions that are not acknowledged promptly.
// Resolve delivers the final reply for a handle returned by Ack.
type Responder interface {
	Ack(ctx context.Context) (Handle, error)
	Resolve(ctx context.Context, handle Handle, reply presenter.Reply) error
}

var ErrNotAcknowledged = errors.New("interaction was not acknowledged")

type ReplyStatus string

const (
	ReplyStatusPending  ReplyStatus = "pending"
	ReplyStatusResolved ReplyStatus = "resolved"
)

type ReplyRecord struct {
	Handle         Handle           `json:"handle"`
	InteractionID  string           `json:"interactionId"`
	Status         ReplyStatus      `json:"status"`
	Reply          *presenter.Reply `json:"reply,omitempty"`
	AcknowledgedAt time.Time        `json:"acknowledgedAt"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty"`
}

// ReplyStore keeps acknowledgments and final replies for polling clients.
// Get returns nil, nil for unknown or expired handles.
type ReplyStore interface {
	Save(ctx context.Context, record *ReplyRecord) error
	Get(ctx context.Context, handle Handle) (*ReplyRecord, error)
}

// StoreResponder answers one interaction through a ReplyStore.
type StoreResponder struct {
	store         ReplyStore
	interactionID string
	now           func() time.Time

	mu             sync.Mutex
	handle         Handle
	acknowledgedAt time.Time
	err            error
}

func NewStoreResponder(store ReplyStore, interactionID string) *StoreResponder {
	return &StoreResponder{store: store, interactionID: interactionID, now: time.Now}
}

func (s *StoreResponder) Ack(ctx context.Context) (Handle, error) {
	record := &ReplyRecord{
		Handle:         Handle(uuid.NewString()),
		InteractionID:  s.interactionID,
		Status:         ReplyStatusPending,
		AcknowledgedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, record); err != nil {
		err = fmt.Errorf("failed to save acknowledgment: %w", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return "", err
	}

	s.mu.Lock()
	s.handle = record.Handle
	s.acknowledgedAt = record.AcknowledgedAt
	s.mu.Unlock()
	return record.Handle, nil
}

func (s *StoreResponder) Resolve(ctx context.Context, handle Handle, reply presenter.Reply) error {
	s.mu.Lock()
	acknowledgedAt := s.acknowledgedAt
	acked := s.handle != "" && s.handle == handle
	s.mu.Unlock()
	if !acked {
		return ErrNotAcknowledged
	}

	resolvedAt := s.now().UTC()
	record := &ReplyRecord{
		Handle:         handle,
		InteractionID:  s.interactionID,
		Status:         ReplyStatusResolved,
		Reply:          &reply,
		AcknowledgedAt: acknowledgedAt,
		ResolvedAt:     &resolvedAt,
	}
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save reply: %w", err)
	}
	return nil
}

// Handle reports the acknowledgment handle, if Ack succeeded.
func (s *StoreResponder) Handle() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle, s.handle != ""
}

// Err is the acknowledgment failure, if any.
func (s *StoreResponder) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
