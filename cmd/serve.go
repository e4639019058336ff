package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/chainops-backend/docs"
	"github.com/tokamak-network/chainops-backend/internal/config"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/api/routes"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/chain"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/connection"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/repositories"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/redis"
	"github.com/tokamak-network/chainops-backend/pkg/services"
	"github.com/tokamak-network/chainops-backend/pkg/taskmanager"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the command dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Environment)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// @title           ChainOps Backend
// @version         1.0
// @description     ChainOps deployment tracker API

// @host      localhost:${PORT}
// @BasePath  /api/v1
func serve(ctx context.Context, cfg *config.Config) error {
	postgresDB, err := connection.Init(cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := connection.Migrate(ctx, postgresDB); err != nil {
		return err
	}

	redisClient, err := redis.Init(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	chainClient, err := chain.Dial(ctx, cfg.ChainRPCURL)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	deploymentRepo := repositories.NewDeploymentPostgresRepository(postgresDB)
	projectRepo := repositories.NewProjectPostgresRepository(postgresDB)
	deploymentService := services.NewDeploymentService(deploymentRepo, projectRepo)
	operationsService := services.NewOperationsService(deploymentRepo, services.SnapshotPolicy(cfg.SnapshotPolicy))

	taskManager := taskmanager.NewTaskManager(cfg.CommandWorkers, cfg.CommandQueueSize)
	taskManager.Start()
	defer taskManager.Stop()

	registry := commands.NewRegistry(logger.L(), taskManager)
	if err := registry.Register(commands.DefaultDefinitions(deploymentService, operationsService)...); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	gin.SetMode(ginMode(cfg))

	// programmatically set swagger info
	docs.SwaggerInfo.Title = "ChainOps Backend"
	docs.SwaggerInfo.Description = "ChainOps deployment tracker API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http"}
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Port)
	docs.SwaggerInfo.BasePath = "/api/v1"

	server := servers.NewServer(
		deploymentService,
		operationsService,
		registry,
		redis.NewReplyStore(redisClient, cfg.ReplyTTL),
	)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"*"}
	server.Use(cors.New(corsConfig))

	server.AddHealthCheck("postgres", func(ctx context.Context) error {
		return connection.Ping(ctx, postgresDB)
	})
	server.AddHealthCheck("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	server.AddHealthCheck("chain", chainClient.Ping)

	routes.SetupRoutes(server)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(cfg.Port)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func ginMode(cfg *config.Config) string {
	if cfg.IsProduction() {
		return gin.ReleaseMode
	}
	if cfg.Environment == config.EnvironmentTest {
		return gin.TestMode
	}
	return gin.DebugMode
}
