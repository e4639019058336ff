package presenter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
)

var startedAt = time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)

func fieldValue(t *testing.T, embed Embed, name string) string {
	t.Helper()
	for _, field := range embed.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	require.Failf(t, "field not found", "embed has no field %q", name)
	return ""
}

func TestPongIsEphemeral(t *testing.T) {
	reply := Pong()
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "ChainOps orchestrator online")
}

func TestSnapshotShowsDegradedFieldsAsUnavailable(t *testing.T) {
	snapshot := &entities.OperationsSnapshot{
		Window:      24,
		GeneratedAt: startedAt,
		Metrics: entities.SnapshotMetrics{
			TotalDeployments:  42,
			WindowDeployments: 0,
			SuccessRate:       0,
		},
		ActiveRuns:  []*entities.DeploymentEntity{},
		TopProjects: []*entities.ProjectDeploymentCount{},
		Degraded:    []string{entities.SnapshotFieldFailedDeployments, entities.SnapshotFieldSuccessRate},
	}

	reply := Snapshot(snapshot)
	require.Len(t, reply.Embeds, 1)
	embed := reply.Embeds[0]

	assert.Equal(t, "42 all time", fieldValue(t, embed, "Deployments"))
	assert.Equal(t, "unavailable", fieldValue(t, embed, "Success rate"))
	assert.Equal(t, "unavailable", fieldValue(t, embed, "Failed"))
	assert.Equal(t, "None yet", fieldValue(t, embed, "Latest deployment"))
	assert.Equal(t, ColorPending, embed.Color)
	assert.Contains(t, embed.Description, "successRate")
}

func TestSnapshotEmptyWindowIsNotZeroPercent(t *testing.T) {
	reply := Snapshot(&entities.OperationsSnapshot{Window: 6, GeneratedAt: startedAt})
	embed := reply.Embeds[0]

	assert.Equal(t, "n/a (no runs)", fieldValue(t, embed, "Success rate"))
	assert.Equal(t, "0 started", fieldValue(t, embed, "Last 6h"))
	assert.Equal(t, ColorSuccess, embed.Color)
}

func TestSnapshotListsActiveRunsAndTopProjects(t *testing.T) {
	pipeline := "release"
	snapshot := &entities.OperationsSnapshot{
		Window:      24,
		GeneratedAt: startedAt,
		Metrics:     entities.SnapshotMetrics{TotalDeployments: 3, WindowDeployments: 3, SuccessRate: 67, FailedDeployments: 1},
		ActiveRuns: []*entities.DeploymentEntity{{
			ID:           uuid.New(),
			ProjectName:  "Bridge",
			PipelineName: &pipeline,
			Status:       entities.DeploymentStatusRunning,
			CommitHash:   "0123456789abcdef",
			StartedAt:    startedAt,
		}},
		TopProjects: []*entities.ProjectDeploymentCount{
			{Project: entities.ProjectEntity{Name: "Bridge"}, Deployments: 2},
			{Project: entities.ProjectEntity{Name: "Explorer"}, Deployments: 1},
		},
	}

	embed := Snapshot(snapshot).Embeds[0]
	assert.Equal(t, "67%", fieldValue(t, embed, "Success rate"))
	assert.Equal(t, "🔄 Bridge `0123456` since 2025-06-02 11:00 UTC (release)", fieldValue(t, embed, "Active runs"))
	assert.Equal(t, "1. Bridge (2)\n2. Explorer (1)", fieldValue(t, embed, "Top projects"))
	assert.Equal(t, ColorFailure, embed.Color)
}

func TestRecentDeploymentsEmpty(t *testing.T) {
	assert.Equal(t, "No deployments found.", RecentDeployments(nil, "").Content)
	assert.Equal(t, "No deployments found for project `bridge`.", RecentDeployments([]*entities.DeploymentEntity{}, "bridge").Content)
}

func TestRecentDeploymentsRendersEachRun(t *testing.T) {
	deployments := []*entities.DeploymentEntity{
		{ID: uuid.New(), ProjectName: "Bridge", Status: entities.DeploymentStatusSuccess, CommitHash: "abc", Initiator: "alice", StartedAt: startedAt},
		{ID: uuid.New(), ProjectName: "Bridge", Status: entities.DeploymentStatusFailed, CommitHash: "def", Initiator: "bob", StartedAt: startedAt.Add(-time.Hour)},
	}

	reply := RecentDeployments(deployments, "bridge")
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "🚀 Recent deployments for bridge", reply.Embeds[0].Title)
	assert.Contains(t, reply.Embeds[0].Description, "✅ **Bridge** `abc` by alice")
	assert.Contains(t, reply.Embeds[0].Description, deployments[1].ID.String())
	assert.Equal(t, ColorSuccess, reply.Embeds[0].Color)
}

func TestDeploymentDetailShowsLastFiveEvents(t *testing.T) {
	completedAt := startedAt.Add(90 * time.Second)
	detail := &entities.DeploymentDetail{
		DeploymentEntity: entities.DeploymentEntity{
			ID:          uuid.New(),
			ProjectName: "Bridge",
			Status:      entities.DeploymentStatusSuccess,
			CommitHash:  "c0ffee1234",
			Initiator:   "alice",
			StartedAt:   startedAt,
			CompletedAt: &completedAt,
		},
	}
	for i := 0; i < 8; i++ {
		detail.Events = append(detail.Events, &entities.DeploymentEventEntity{
			Level:      entities.EventLevelInfo,
			Source:     "ci",
			Message:    fmt.Sprintf("step %d", i),
			OccurredAt: startedAt.Add(time.Duration(i) * time.Second),
		})
	}

	embed := DeploymentDetail(detail).Embeds[0]
	timeline := fieldValue(t, embed, "Timeline (last 5 of 8)")
	assert.NotContains(t, timeline, "step 2")
	assert.Contains(t, timeline, "step 3")
	assert.Contains(t, timeline, "step 7")
	assert.Equal(t, "n/a", fieldValue(t, embed, "Pipeline"))
	assert.Equal(t, "1m30s", fieldValue(t, embed, "Duration"))
	assert.Equal(t, "`c0ffee1`", fieldValue(t, embed, "Commit"))
	assert.Equal(t, ColorSuccess, embed.Color)
}

func TestDeploymentDetailWithoutEvents(t *testing.T) {
	detail := &entities.DeploymentDetail{
		DeploymentEntity: entities.DeploymentEntity{ID: uuid.New(), Status: entities.DeploymentStatusPending, StartedAt: startedAt},
	}

	embed := DeploymentDetail(detail).Embeds[0]
	assert.Equal(t, "No events recorded.", fieldValue(t, embed, "Timeline (last 0 of 0)"))
	assert.Equal(t, ColorPending, embed.Color)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, DeploymentNotFound("missing"), FromError(entities.ErrDeploymentNotFound, "missing"))

	rejection := FromError(fmt.Errorf("%w: limit too large", entities.ErrInvalidArgument), "")
	assert.Contains(t, rejection.Content, "limit too large")

	assert.Equal(t, Failure(), FromError(errors.New("connection refused"), ""))
}

func TestStatusMapping(t *testing.T) {
	statuses := []entities.DeploymentStatus{
		entities.DeploymentStatusPending,
		entities.DeploymentStatusRunning,
		entities.DeploymentStatusSuccess,
		entities.DeploymentStatusFailed,
		entities.DeploymentStatusRejected,
		entities.DeploymentStatusCancelled,
	}
	for _, status := range statuses {
		assert.NotEqual(t, "❔", StatusEmoji(status), status)
	}
	assert.Equal(t, ColorNeutral, StatusColor(entities.DeploymentStatusCancelled))
	assert.Equal(t, "❔", StatusEmoji("UNKNOWN"))
}
