package commands

import (
	"context"
	"errors"

	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/presenter"
)

type DeploymentQuerier interface {
	FindRecent(ctx context.Context, limit int, projectSlug string) ([]*entities.DeploymentEntity, error)
	FindOne(ctx context.Context, id string) (*entities.DeploymentDetail, error)
}

type SnapshotProvider interface {
	GetOperationsSnapshot(ctx context.Context, lookbackHours int) (*entities.OperationsSnapshot, error)
}

// DefaultDefinitions returns the built-in command surface.
func DefaultDefinitions(deployments DeploymentQuerier, snapshots SnapshotProvider) []Definition {
	return []Definition{
		{
			Name:        "ping",
			Description: "Check if the ChainOps orchestrator is alive",
			Handler: func(context.Context, Invocation) (presenter.Reply, error) {
				return presenter.Pong(), nil
			},
		},
		{
			Name:        "status",
			Description: "Show the operations snapshot for a recent window",
			Options: []Option{
				IntegerOption("hours", "Lookback window in hours", 1, 168, 24),
			},
			Handler: func(ctx context.Context, invocation Invocation) (presenter.Reply, error) {
				snapshot, err := snapshots.GetOperationsSnapshot(ctx, invocation.Options.Int("hours"))
				if err != nil {
					return presenter.Reply{}, err
				}
				return presenter.Snapshot(snapshot), nil
			},
		},
		{
			Name:        "deployments",
			Description: "Inspect deployments",
			SubCommands: []Definition{
				{
					Name:        "recent",
					Description: "List the most recent deployments",
					Options: []Option{
						IntegerOption("limit", "How many deployments to show", 1, 20, 5),
						StringOption("project", "Only show deployments of this project slug", false),
					},
					Handler: func(ctx context.Context, invocation Invocation) (presenter.Reply, error) {
						project := invocation.Options.String("project")
						recent, err := deployments.FindRecent(ctx, invocation.Options.Int("limit"), project)
						if err != nil {
							return presenter.Reply{}, err
						}
						return presenter.RecentDeployments(recent, project), nil
					},
				},
				{
					Name:        "details",
					Description: "Show one deployment with its latest events",
					Options: []Option{
						StringOption("id", "Deployment id", true),
					},
					Handler: func(ctx context.Context, invocation Invocation) (presenter.Reply, error) {
						id := invocation.Options.String("id")
						detail, err := deployments.FindOne(ctx, id)
						if errors.Is(err, entities.ErrDeploymentNotFound) {
							return presenter.FromError(err, id), nil
						}
						if err != nil {
							return presenter.Reply{}, err
						}
						return presenter.DeploymentDetail(detail), nil
					},
				},
			},
		},
	}
}
