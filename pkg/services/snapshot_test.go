package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/memory"
)

var errUpstream = errors.New("connection reset by peer")

// flakyRepo fails the flagged sub-queries and delegates the rest.
type flakyRepo struct {
	SnapshotRepository
	failCounts bool
	failActive bool
	failLatest bool
	failTop    bool
}

func (r *flakyRepo) CountDeployments(ctx context.Context, filter entities.DeploymentFilter) (int64, error) {
	if r.failCounts {
		return 0, errUpstream
	}
	return r.SnapshotRepository.CountDeployments(ctx, filter)
}

func (r *flakyRepo) ListActiveDeployments(ctx context.Context, statuses []entities.DeploymentStatus, limit int) ([]*entities.DeploymentEntity, error) {
	if r.failActive {
		return nil, errUpstream
	}
	return r.SnapshotRepository.ListActiveDeployments(ctx, statuses, limit)
}

func (r *flakyRepo) GetLatestDeployment(ctx context.Context) (*entities.DeploymentEntity, error) {
	if r.failLatest {
		return nil, errUpstream
	}
	return r.SnapshotRepository.GetLatestDeployment(ctx)
}

func (r *flakyRepo) TopProjectsByDeploymentCount(ctx context.Context, limit int) ([]*entities.ProjectDeploymentCount, error) {
	if r.failTop {
		return nil, errUpstream
	}
	return r.SnapshotRepository.TopProjectsByDeploymentCount(ctx, limit)
}

func newTestOperationsService(repo SnapshotRepository, policy SnapshotPolicy) *OperationsService {
	svc := NewOperationsService(repo, policy)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func finish(t *testing.T, svc *DeploymentService, deployments []*entities.DeploymentEntity, status entities.DeploymentStatus) {
	t.Helper()
	for _, deployment := range deployments {
		_, err := svc.TransitionDeployment(context.Background(), deployment.ID.String(), entities.DeploymentStatusRunning, nil)
		require.NoError(t, err)
		_, err = svc.TransitionDeployment(context.Background(), deployment.ID.String(), status, nil)
		require.NoError(t, err)
	}
}

func TestSnapshotSuccessRateWithinWindow(t *testing.T) {
	deploymentSvc, repo := newTestDeploymentService(t)
	deployments := seedDeployments(t, deploymentSvc, "bridge", 10, fixedNow.Add(-50*time.Minute))
	finish(t, deploymentSvc, deployments[:3], entities.DeploymentStatusFailed)
	finish(t, deploymentSvc, deployments[3:], entities.DeploymentStatusSuccess)

	snapshot, err := newTestOperationsService(repo, SnapshotPolicyPartial).GetOperationsSnapshot(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 24, snapshot.Window)
	assert.Equal(t, int64(10), snapshot.Metrics.TotalDeployments)
	assert.Equal(t, int64(10), snapshot.Metrics.WindowDeployments)
	assert.Equal(t, 70, snapshot.Metrics.SuccessRate)
	assert.Equal(t, int64(3), snapshot.Metrics.FailedDeployments)
	assert.Empty(t, snapshot.ActiveRuns)
	require.NotNil(t, snapshot.LatestDeployment)
	assert.Equal(t, deployments[9].ID, snapshot.LatestDeployment.ID)
	require.Len(t, snapshot.TopProjects, 1)
	assert.Equal(t, int64(10), snapshot.TopProjects[0].Deployments)
	assert.Empty(t, snapshot.Degraded)
}

func TestSnapshotEmptyRepository(t *testing.T) {
	snapshot, err := newTestOperationsService(memory.NewRepository(), SnapshotPolicyPartial).GetOperationsSnapshot(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, int64(0), snapshot.Metrics.TotalDeployments)
	assert.Equal(t, int64(0), snapshot.Metrics.WindowDeployments)
	assert.Equal(t, 0, snapshot.Metrics.SuccessRate)
	assert.Equal(t, int64(0), snapshot.Metrics.FailedDeployments)
	assert.NotNil(t, snapshot.ActiveRuns)
	assert.Empty(t, snapshot.ActiveRuns)
	assert.Nil(t, snapshot.LatestDeployment)
	assert.NotNil(t, snapshot.TopProjects)
	assert.Empty(t, snapshot.TopProjects)
}

func TestSnapshotWindowExcludesOlderDeployments(t *testing.T) {
	deploymentSvc, repo := newTestDeploymentService(t)
	old := seedDeployments(t, deploymentSvc, "bridge", 2, fixedNow.Add(-48*time.Hour))
	recent := seedDeployments(t, deploymentSvc, "bridge", 2, fixedNow.Add(-2*time.Hour))
	finish(t, deploymentSvc, old, entities.DeploymentStatusFailed)
	finish(t, deploymentSvc, recent[:1], entities.DeploymentStatusSuccess)

	snapshot, err := newTestOperationsService(repo, SnapshotPolicyPartial).GetOperationsSnapshot(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultLookbackHours, snapshot.Window)
	assert.True(t, snapshot.Since.Equal(fixedNow.Add(-24*time.Hour)))
	assert.Equal(t, int64(4), snapshot.Metrics.TotalDeployments)
	assert.Equal(t, int64(2), snapshot.Metrics.WindowDeployments)
	assert.Equal(t, int64(0), snapshot.Metrics.FailedDeployments)
	assert.Equal(t, 50, snapshot.Metrics.SuccessRate)
	require.Len(t, snapshot.ActiveRuns, 1)
	assert.Equal(t, recent[1].ID, snapshot.ActiveRuns[0].ID)
}

func TestSnapshotActiveRunsLimitAndOrder(t *testing.T) {
	deploymentSvc, repo := newTestDeploymentService(t)
	deployments := seedDeployments(t, deploymentSvc, "bridge", 7, fixedNow.Add(-time.Hour))
	for _, deployment := range deployments[:4] {
		_, err := deploymentSvc.TransitionDeployment(context.Background(), deployment.ID.String(), entities.DeploymentStatusRunning, nil)
		require.NoError(t, err)
	}

	snapshot, err := newTestOperationsService(repo, SnapshotPolicyPartial).GetOperationsSnapshot(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, snapshot.ActiveRuns, 5)
	for i := 1; i < len(snapshot.ActiveRuns); i++ {
		assert.True(t, snapshot.ActiveRuns[i-1].StartedAt.After(snapshot.ActiveRuns[i].StartedAt))
	}
	assert.Equal(t, deployments[6].ID, snapshot.ActiveRuns[0].ID)
	assert.Equal(t, "Project bridge", snapshot.ActiveRuns[0].ProjectName)
}

func TestSnapshotRejectsOutOfRangeWindow(t *testing.T) {
	svc := newTestOperationsService(memory.NewRepository(), SnapshotPolicyPartial)

	_, err := svc.GetOperationsSnapshot(context.Background(), 169)
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = svc.GetOperationsSnapshot(context.Background(), -3)
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestSnapshotPartialPolicyDegrades(t *testing.T) {
	deploymentSvc, repo := newTestDeploymentService(t)
	seedDeployments(t, deploymentSvc, "bridge", 3, fixedNow.Add(-time.Hour))

	svc := newTestOperationsService(&flakyRepo{SnapshotRepository: repo, failCounts: true}, SnapshotPolicyPartial)
	snapshot, err := svc.GetOperationsSnapshot(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, []string{
		entities.SnapshotFieldFailedDeployments,
		entities.SnapshotFieldSuccessRate,
		entities.SnapshotFieldTotalDeployments,
		entities.SnapshotFieldWindowDeployments,
	}, snapshot.Degraded)
	assert.True(t, snapshot.IsDegraded(entities.SnapshotFieldSuccessRate))
	assert.Len(t, snapshot.ActiveRuns, 3)
	assert.NotNil(t, snapshot.LatestDeployment)
	assert.Len(t, snapshot.TopProjects, 1)
}

func TestSnapshotPartialPolicyFailsWhenEverythingFails(t *testing.T) {
	repo := &flakyRepo{SnapshotRepository: memory.NewRepository(), failCounts: true, failActive: true, failLatest: true, failTop: true}

	_, err := newTestOperationsService(repo, SnapshotPolicyPartial).GetOperationsSnapshot(context.Background(), 24)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUpstream)
}

func TestSnapshotStrictPolicyFailsOnAnyError(t *testing.T) {
	repo := &flakyRepo{SnapshotRepository: memory.NewRepository(), failTop: true}

	_, err := newTestOperationsService(repo, SnapshotPolicyStrict).GetOperationsSnapshot(context.Background(), 24)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUpstream)
	assert.Contains(t, err.Error(), entities.SnapshotFieldTopProjects)
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0, SuccessRate(0, 0))
	assert.Equal(t, 0, SuccessRate(0, 5))
	assert.Equal(t, 100, SuccessRate(4, 4))
	assert.Equal(t, 67, SuccessRate(2, 3))
	assert.Equal(t, 33, SuccessRate(1, 3))
	assert.Equal(t, 50, SuccessRate(1, 2))
}
