package servers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
	"github.com/tokamak-network/chainops-backend/pkg/services"
	"go.uber.org/zap"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	Router       *gin.Engine
	Deployments  *services.DeploymentService
	Operations   *services.OperationsService
	Registry     *commands.Registry
	Replies      commands.ReplyStore
	HealthChecks map[string]HealthCheck

	mu         sync.Mutex
	httpServer *http.Server
	shutdown   bool
}

func NewServer(
	deployments *services.DeploymentService,
	operations *services.OperationsService,
	registry *commands.Registry,
	replies commands.ReplyStore,
) *Server {
	app := gin.Default()

	return &Server{
		Router:       app,
		Deployments:  deployments,
		Operations:   operations,
		Registry:     registry,
		Replies:      replies,
		HealthChecks: make(map[string]HealthCheck),
	}
}

func (s *Server) Use(middleware gin.HandlerFunc) {
	s.Router.Use(middleware)
}

func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.HealthChecks[name] = check
}

// Start serves HTTP until Shutdown is called. It returns at once when
// Shutdown already ran.
func (s *Server) Start(port string) error {
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = httpServer
	s.mu.Unlock()

	logger.Info("HTTP server listening", zap.String("port", port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}
