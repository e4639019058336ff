package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/memory"
	"github.com/tokamak-network/chainops-backend/pkg/presenter"
	"github.com/tokamak-network/chainops-backend/pkg/services"
	"go.uber.org/zap"
)

var inline = commands.ExecutorFunc(func(_ context.Context, task func()) error {
	task()
	return nil
})

type fixture struct {
	registry    *commands.Registry
	replies     *memory.ReplyStore
	deployments *services.DeploymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewRepository()
	deployments := services.NewDeploymentService(repo, repo)
	operations := services.NewOperationsService(repo, services.SnapshotPolicyPartial)

	registry := commands.NewRegistry(zap.NewNop(), inline)
	require.NoError(t, registry.Register(commands.DefaultDefinitions(deployments, operations)...))
	return &fixture{
		registry:    registry,
		replies:     memory.NewReplyStore(time.Minute),
		deployments: deployments,
	}
}

// dispatch runs one interaction and returns its stored final reply.
func (f *fixture) dispatch(t *testing.T, interaction commands.Interaction) *presenter.Reply {
	t.Helper()
	ctx := context.Background()
	responder := commands.NewStoreResponder(f.replies, interaction.ID)

	f.registry.Dispatch(ctx, interaction, responder)

	handle, ok := responder.Handle()
	if !ok {
		return nil
	}
	record, err := f.replies.Get(ctx, handle)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, commands.ReplyStatusResolved, record.Status)
	return record.Reply
}

func TestPingCommand(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{ID: "1", Command: "ping"})
	require.NotNil(t, reply)
	assert.Equal(t, presenter.Pong(), *reply)
}

func TestRecentForUnknownProjectIsEmptyList(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{
		ID:         "1",
		Command:    "deployments",
		SubCommand: "recent",
		Options:    map[string]interface{}{"limit": 5, "project": "unknown-slug"},
	})
	require.NotNil(t, reply)
	assert.Equal(t, "No deployments found for project `unknown-slug`.", reply.Content)
}

func TestDetailsForMissingDeploymentIsNotFoundReply(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{
		ID:         "1",
		Command:    "deployments",
		SubCommand: "details",
		Options:    map[string]interface{}{"id": "missing"},
	})
	require.NotNil(t, reply)
	assert.Equal(t, presenter.DeploymentNotFound("missing"), *reply)
}

func TestDetailsRendersDeployment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.deployments.CreateProject(ctx, "Bridge", "bridge")
	require.NoError(t, err)
	deployment, err := f.deployments.CreateDeployment(ctx, services.CreateDeploymentInput{
		ProjectSlug: "bridge",
		CommitHash:  "c0ffee1234",
		Initiator:   "alice",
	})
	require.NoError(t, err)
	_, err = f.deployments.RecordEvent(ctx, services.RecordEventInput{
		DeploymentID: deployment.ID.String(),
		Source:       "ci",
		Message:      "build queued",
	})
	require.NoError(t, err)

	reply := f.dispatch(t, commands.Interaction{
		ID:         "1",
		Command:    "deployments",
		SubCommand: "details",
		Options:    map[string]interface{}{"id": deployment.ID.String()},
	})
	require.NotNil(t, reply)
	require.Len(t, reply.Embeds, 1)
	assert.Contains(t, reply.Embeds[0].Title, deployment.ID.String())
	assert.Equal(t, presenter.ColorPending, reply.Embeds[0].Color)
}

func TestStatusRejectsOutOfRangeHours(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{
		ID:      "1",
		Command: "status",
		Options: map[string]interface{}{"hours": 200},
	})
	require.NotNil(t, reply)
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "at most 168")
}

func TestStatusOnEmptyRepository(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{ID: "1", Command: "status"})
	require.NotNil(t, reply)
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "Last 24h", reply.Embeds[0].Fields[1].Name)
	assert.Empty(t, reply.Embeds[0].Description)
}

func TestUnknownCommandStoresNothing(t *testing.T) {
	f := newFixture(t)

	reply := f.dispatch(t, commands.Interaction{ID: "1", Command: "deploy"})
	assert.Nil(t, reply)
}

func TestStoreResponderRejectsForeignHandle(t *testing.T) {
	responder := commands.NewStoreResponder(memory.NewReplyStore(0), "1")

	err := responder.Resolve(context.Background(), "never-acked", presenter.Pong())
	assert.ErrorIs(t, err, commands.ErrNotAcknowledged)
	_, ok := responder.Handle()
	assert.False(t, ok)
	assert.NoError(t, responder.Err())
}

func TestRecentListsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.deployments.CreateProject(ctx, "Bridge", "bridge")
	require.NoError(t, err)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		startedAt := base.Add(time.Duration(i) * time.Minute)
		_, err := f.deployments.CreateDeployment(ctx, services.CreateDeploymentInput{
			ProjectSlug: "bridge",
			CommitHash:  "abc" + string(rune('0'+i)),
			Initiator:   "alice",
			StartedAt:   &startedAt,
		})
		require.NoError(t, err)
	}

	reply := f.dispatch(t, commands.Interaction{
		ID:         "1",
		Command:    "deployments",
		SubCommand: "recent",
		Options:    map[string]interface{}{"limit": "2"},
	})
	require.NotNil(t, reply)
	require.Len(t, reply.Embeds, 1)
	assert.Contains(t, reply.Embeds[0].Description, "`abc2`")
	assert.Contains(t, reply.Embeds[0].Description, "`abc1`")
	assert.NotContains(t, reply.Embeds[0].Description, "`abc0`")
	assert.Equal(t, presenter.StatusColor(entities.DeploymentStatusPending), reply.Embeds[0].Color)
}
