package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/chainops-backend/pkg/api/dtos"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/services"
)

const (
	defaultHTTPRecentLimit = 10
)

type DeploymentHandler struct {
	DeploymentService *services.DeploymentService
	OperationsService *services.OperationsService
}

// GetRecent godoc
// @Summary      Recent deployments
// @Tags         deployments
// @Produce      json
// @Param        limit    query  int     false  "Number of deployments (1-20)"  default(10)
// @Param        project  query  string  false  "Project slug"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /deployments/recent [get]
func (h *DeploymentHandler) GetRecent(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultHTTPRecentLimit, 1, services.MaxRecentLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deployments, err := h.DeploymentService.FindRecent(c.Request.Context(), limit, c.Query("project"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deployments": deployments})
}

// GetSnapshot godoc
// @Summary      Operations snapshot
// @Tags         deployments
// @Produce      json
// @Param        hours  query  int  false  "Lookback window in hours (1-168)"  default(24)
// @Success      200  {object}  entities.OperationsSnapshot
// @Failure      400  {object}  map[string]interface{}
// @Router       /deployments/snapshot [get]
func (h *DeploymentHandler) GetSnapshot(c *gin.Context) {
	hours, err := intQuery(c, "hours", services.DefaultLookbackHours, 1, services.MaxLookbackHours)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.OperationsService.GetOperationsSnapshot(c.Request.Context(), hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetByID godoc
// @Summary      Deployment detail with its event timeline
// @Tags         deployments
// @Produce      json
// @Param        id  path  string  true  "Deployment id"
// @Success      200  {object}  entities.DeploymentDetail
// @Failure      404  {object}  map[string]interface{}
// @Router       /deployments/{id} [get]
func (h *DeploymentHandler) GetByID(c *gin.Context) {
	detail, err := h.DeploymentService.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deployment": detail})
}

// Create godoc
// @Summary      Register a deployment run
// @Tags         deployments
// @Accept       json
// @Produce      json
// @Param        request  body  dtos.CreateDeploymentRequest  true  "Deployment"
// @Success      201  {object}  entities.DeploymentEntity
// @Router       /deployments [post]
func (h *DeploymentHandler) Create(c *gin.Context) {
	var request dtos.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deployment, err := h.DeploymentService.CreateDeployment(c.Request.Context(), request.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deployment": deployment})
}

// UpdateStatus godoc
// @Summary      Move a deployment along its lifecycle
// @Tags         deployments
// @Accept       json
// @Produce      json
// @Param        id       path  string                              true  "Deployment id"
// @Param        request  body  dtos.UpdateDeploymentStatusRequest  true  "New status"
// @Success      200  {object}  entities.DeploymentEntity
// @Failure      409  {object}  map[string]interface{}
// @Router       /deployments/{id}/status [patch]
func (h *DeploymentHandler) UpdateStatus(c *gin.Context) {
	var request dtos.UpdateDeploymentStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := entities.ParseDeploymentStatus(request.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deployment, err := h.DeploymentService.TransitionDeployment(c.Request.Context(), c.Param("id"), status, request.At)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deployment": deployment})
}

// RecordEvent godoc
// @Summary      Append an event to a deployment timeline
// @Tags         deployments
// @Accept       json
// @Produce      json
// @Param        id       path  string                   true  "Deployment id"
// @Param        request  body  dtos.RecordEventRequest  true  "Event"
// @Success      201  {object}  entities.DeploymentEventEntity
// @Failure      404  {object}  map[string]interface{}
// @Router       /deployments/{id}/events [post]
func (h *DeploymentHandler) RecordEvent(c *gin.Context) {
	var request dtos.RecordEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.DeploymentService.RecordEvent(c.Request.Context(), request.ToInput(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func NewDeploymentHandler(server *servers.Server) *DeploymentHandler {
	return &DeploymentHandler{
		DeploymentService: server.Deployments,
		OperationsService: server.Operations,
	}
}

func intQuery(c *gin.Context, key string, def, min, max int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return value, nil
}
