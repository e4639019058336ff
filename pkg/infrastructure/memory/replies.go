package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tokamak-network/chainops-backend/pkg/commands"
)

type replyEntry struct {
	record    commands.ReplyRecord
	expiresAt time.Time
}

// ReplyStore keeps interaction replies in process. Records expire ttl after
// their last save; a zero ttl keeps them forever.
type ReplyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[commands.Handle]replyEntry
}

func NewReplyStore(ttl time.Duration) *ReplyStore {
	return &ReplyStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[commands.Handle]replyEntry),
	}
}

func (s *ReplyStore) Save(_ context.Context, record *commands.ReplyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)

	entry := replyEntry{record: *record}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.entries[record.Handle] = entry
	return nil
}

func (s *ReplyStore) Get(_ context.Context, handle commands.Handle) (*commands.ReplyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[handle]
	if !ok {
		return nil, nil
	}
	if s.expired(entry, s.now()) {
		delete(s.entries, handle)
		return nil, nil
	}
	record := entry.record
	return &record, nil
}

func (s *ReplyStore) evictExpired(now time.Time) {
	for handle, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, handle)
		}
	}
}

func (s *ReplyStore) expired(entry replyEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}
