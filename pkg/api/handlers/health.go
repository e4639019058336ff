package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 3 * time.Second

type HealthHandler struct {
	Checks map[string]servers.HealthCheck
}

// GetHealth godoc
// @Summary      Service health
// @Description  Pings postgres, redis and the chain RPC
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.Checks))
		failed  []string
	)
	g := new(errgroup.Group)
	for name, check := range h.Checks {
		g.Go(func() error {
			err := check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[name] = err.Error()
				failed = append(failed, name)
				return nil
			}
			results[name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		logger.Warn("Health check failed", zap.Strings("checks", failed))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": results})
}

func NewHealthHandler(server *servers.Server) *HealthHandler {
	return &HealthHandler{Checks: server.HealthChecks}
}
