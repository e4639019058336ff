package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
)

var baseTime = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

func seedProject(t *testing.T, repo *Repository, slug string) *entities.ProjectEntity {
	t.Helper()
	project := &entities.ProjectEntity{ID: uuid.New(), Name: "Project " + slug, Slug: slug}
	require.NoError(t, repo.CreateProject(context.Background(), project))
	return project
}

func seedDeployment(t *testing.T, repo *Repository, project *entities.ProjectEntity, startedAt time.Time) *entities.DeploymentEntity {
	t.Helper()
	deployment := &entities.DeploymentEntity{
		ID:         uuid.New(),
		ProjectID:  project.ID,
		Status:     entities.DeploymentStatusPending,
		CommitHash: "abc1234",
		Initiator:  "ci-bot",
		StartedAt:  startedAt,
	}
	require.NoError(t, repo.CreateDeployment(context.Background(), deployment))
	return deployment
}

func TestCreateProjectRejectsDuplicateSlug(t *testing.T) {
	repo := NewRepository()
	seedProject(t, repo, "bridge")

	err := repo.CreateProject(context.Background(), &entities.ProjectEntity{Name: "Other", Slug: "bridge"})
	assert.ErrorIs(t, err, entities.ErrDuplicateSlug)
}

func TestListDeploymentsOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	bridge := seedProject(t, repo, "bridge")
	explorer := seedProject(t, repo, "explorer")

	oldest := seedDeployment(t, repo, bridge, baseTime.Add(-3*time.Hour))
	middle := seedDeployment(t, repo, explorer, baseTime.Add(-2*time.Hour))
	newest := seedDeployment(t, repo, bridge, baseTime.Add(-time.Hour))

	all, err := repo.ListDeployments(ctx, entities.DeploymentFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Project bridge", all[0].ProjectName)

	limited, err := repo.ListDeployments(ctx, entities.DeploymentFilter{}, 2)
	require.NoError(t, err)
	assert.Equal(t, all[:2], limited)

	bySlug, err := repo.ListDeployments(ctx, entities.DeploymentFilter{ProjectSlug: "bridge"}, 10)
	require.NoError(t, err)
	require.Len(t, bySlug, 2)
	assert.Equal(t, newest.ID, bySlug[0].ID)

	unknown, err := repo.ListDeployments(ctx, entities.DeploymentFilter{ProjectSlug: "unknown-slug"}, 10)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	since := baseTime.Add(-2 * time.Hour)
	count, err := repo.CountDeployments(ctx, entities.DeploymentFilter{StartedSince: &since})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpdateDeploymentStatusEnforcesLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	project := seedProject(t, repo, "bridge")
	deployment := seedDeployment(t, repo, project, baseTime)

	running, err := repo.UpdateDeploymentStatus(ctx, deployment.ID.String(), entities.DeploymentStatusRunning, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, running.CompletedAt)

	completedAt := baseTime.Add(5 * time.Minute)
	done, err := repo.UpdateDeploymentStatus(ctx, deployment.ID.String(), entities.DeploymentStatusSuccess, completedAt)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(completedAt))
	assert.True(t, done.HasConsistentCompletion())

	_, err = repo.UpdateDeploymentStatus(ctx, deployment.ID.String(), entities.DeploymentStatusRunning, baseTime)
	assert.ErrorIs(t, err, entities.ErrInvalidTransition)

	_, err = repo.UpdateDeploymentStatus(ctx, uuid.NewString(), entities.DeploymentStatusRunning, baseTime)
	assert.ErrorIs(t, err, entities.ErrDeploymentNotFound)
}

func TestCreateDeploymentRejectsInconsistentCompletion(t *testing.T) {
	repo := NewRepository()
	project := seedProject(t, repo, "bridge")
	completedAt := baseTime

	err := repo.CreateDeployment(context.Background(), &entities.DeploymentEntity{
		ProjectID:   project.ID,
		Status:      entities.DeploymentStatusRunning,
		CommitHash:  "abc",
		Initiator:   "ci",
		StartedAt:   baseTime,
		CompletedAt: &completedAt,
	})
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestCreateDeploymentWithUnknownPipelineLeavesEntityUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	bridge := seedProject(t, repo, "bridge")

	pipelineID := uuid.New()
	deployment := &entities.DeploymentEntity{
		ProjectID:  bridge.ID,
		PipelineID: &pipelineID,
		CommitHash: "abc1234",
		Initiator:  "ci-bot",
		StartedAt:  baseTime,
	}
	before := *deployment

	err := repo.CreateDeployment(ctx, deployment)
	assert.ErrorIs(t, err, entities.ErrPipelineNotFound)
	assert.Equal(t, before, *deployment)

	count, err := repo.CountDeployments(ctx, entities.DeploymentFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetDeploymentByIDOrdersTimeline(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	project := seedProject(t, repo, "bridge")
	deployment := seedDeployment(t, repo, project, baseTime)

	first := &entities.DeploymentEventEntity{DeploymentID: deployment.ID, Source: "ci", Message: "late", OccurredAt: baseTime.Add(2 * time.Minute)}
	second := &entities.DeploymentEventEntity{DeploymentID: deployment.ID, Source: "ci", Message: "tie-a", OccurredAt: baseTime}
	third := &entities.DeploymentEventEntity{DeploymentID: deployment.ID, Source: "ci", Message: "tie-b", OccurredAt: baseTime}
	for _, event := range []*entities.DeploymentEventEntity{first, second, third} {
		require.NoError(t, repo.CreateEvent(ctx, event))
	}

	detail, err := repo.GetDeploymentByID(ctx, deployment.ID.String())
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Events, 3)
	assert.Equal(t, "tie-a", detail.Events[0].Message)
	assert.Equal(t, "tie-b", detail.Events[1].Message)
	assert.Equal(t, "late", detail.Events[2].Message)
	assert.Equal(t, entities.EventLevelInfo, detail.Events[0].Level)
	assert.Equal(t, "bridge", detail.Project.Slug)
}

func TestMissingRecordsAreNotErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	detail, err := repo.GetDeploymentByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, detail)

	detail, err = repo.GetDeploymentByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, detail)

	latest, err := repo.GetLatestDeployment(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	err = repo.CreateEvent(ctx, &entities.DeploymentEventEntity{DeploymentID: uuid.New(), Source: "ci", Message: "x"})
	assert.ErrorIs(t, err, entities.ErrDeploymentNotFound)
}

func TestTopProjectsByDeploymentCount(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	busy := seedProject(t, repo, "busy")
	quiet := seedProject(t, repo, "quiet")
	idle := seedProject(t, repo, "idle")
	seedProject(t, repo, "unused")

	for i := 0; i < 3; i++ {
		seedDeployment(t, repo, busy, baseTime.Add(time.Duration(i)*time.Minute))
	}
	seedDeployment(t, repo, quiet, baseTime)
	seedDeployment(t, repo, idle, baseTime)

	top, err := repo.TopProjectsByDeploymentCount(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "busy", top[0].Project.Slug)
	assert.Equal(t, int64(3), top[0].Deployments)
	assert.Equal(t, int64(1), top[1].Deployments)
	assert.Equal(t, int64(1), top[2].Deployments)
	assert.Less(t, top[1].Project.ID.String(), top[2].Project.ID.String())

	again, err := repo.TopProjectsByDeploymentCount(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, top, again)
}

func TestConcurrentEventAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	project := seedProject(t, repo, "bridge")
	deployment := seedDeployment(t, repo, project, baseTime)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.CreateEvent(ctx, &entities.DeploymentEventEntity{
				DeploymentID: deployment.ID,
				Source:       "worker",
				Message:      "tick",
				OccurredAt:   baseTime,
			})
			_, _ = repo.CountDeployments(ctx, entities.DeploymentFilter{})
		}()
	}
	wg.Wait()

	detail, err := repo.GetDeploymentByID(ctx, deployment.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.Events, 50)
	for i := 1; i < len(detail.Events); i++ {
		assert.Less(t, detail.Events[i-1].Sequence, detail.Events[i].Sequence)
	}
}
