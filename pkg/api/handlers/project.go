package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/chainops-backend/pkg/api/dtos"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"
	"github.com/tokamak-network/chainops-backend/pkg/services"
)

type ProjectHandler struct {
	DeploymentService *services.DeploymentService
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request  body  dtos.CreateProjectRequest  true  "Project"
// @Success      201  {object}  entities.ProjectEntity
// @Failure      409  {object}  map[string]interface{}
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var request dtos.CreateProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.DeploymentService.CreateProject(c.Request.Context(), request.Name, request.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// CreatePipeline godoc
// @Summary      Create a pipeline in a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        slug     path  string                      true  "Project slug"
// @Param        request  body  dtos.CreatePipelineRequest  true  "Pipeline"
// @Success      201  {object}  entities.PipelineEntity
// @Failure      404  {object}  map[string]interface{}
// @Router       /projects/{slug}/pipelines [post]
func (h *ProjectHandler) CreatePipeline(c *gin.Context) {
	var request dtos.CreatePipelineRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := h.DeploymentService.CreatePipeline(c.Request.Context(), c.Param("slug"), request.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pipeline": pipeline})
}

func NewProjectHandler(server *servers.Server) *ProjectHandler {
	return &ProjectHandler{DeploymentService: server.Deployments}
}
