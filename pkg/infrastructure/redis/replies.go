package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
)

const replyKeyPrefix = "chainops:reply:"

// ReplyStore keeps interaction replies as JSON values that expire ttl after
// their last save.
type ReplyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewReplyStore(client goredis.Cmdable, ttl time.Duration) *ReplyStore {
	return &ReplyStore{client: client, ttl: ttl}
}

func (s *ReplyStore) Save(ctx context.Context, record *commands.ReplyRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	if err := s.client.Set(ctx, replyKey(record.Handle), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reply: %w", err)
	}
	return nil
}

func (s *ReplyStore) Get(ctx context.Context, handle commands.Handle) (*commands.ReplyRecord, error) {
	payload, err := s.client.Get(ctx, replyKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load reply: %w", err)
	}

	var record commands.ReplyRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return &record, nil
}

func replyKey(handle commands.Handle) string {
	return replyKeyPrefix + string(handle)
}
