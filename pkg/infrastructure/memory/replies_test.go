package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
	"github.com/tokamak-network/chainops-backend/pkg/presenter"
)

func TestReplyStoreSaveAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewReplyStore(time.Minute)

	pending := &commands.ReplyRecord{Handle: "h1", Status: commands.ReplyStatusPending, AcknowledgedAt: baseTime}
	require.NoError(t, store.Save(ctx, pending))

	got, err := store.Get(ctx, "h1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, commands.ReplyStatusPending, got.Status)
	assert.Nil(t, got.Reply)

	reply := presenter.Pong()
	require.NoError(t, store.Save(ctx, &commands.ReplyRecord{Handle: "h1", Status: commands.ReplyStatusResolved, Reply: &reply}))

	got, err = store.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, commands.ReplyStatusResolved, got.Status)
	assert.Equal(t, reply.Content, got.Reply.Content)
}

func TestReplyStoreExpiresRecords(t *testing.T) {
	ctx := context.Background()
	store := NewReplyStore(time.Minute)
	now := baseTime
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &commands.ReplyRecord{Handle: "h1", Status: commands.ReplyStatusPending}))

	now = now.Add(59 * time.Second)
	got, err := store.Get(ctx, "h1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(time.Second)
	got, err = store.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplyStoreUnknownHandle(t *testing.T) {
	got, err := NewReplyStore(0).Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
