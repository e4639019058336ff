package routes

import (
	"github.com/gin-gonic/gin"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tokamak-network/chainops-backend/pkg/api/handlers"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"

	swaggerFiles "github.com/swaggo/files"
)

func SetupRoutes(server *servers.Server) {
	apiV1 := server.Router.Group("/api/v1")
	setupV1Routes(apiV1, server)

	server.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func setupV1Routes(router *gin.RouterGroup, server *servers.Server) {
	// Health routes
	setupHealthRoutes(router.Group("/health"), server)

	setupDeploymentRoutes(router.Group("/deployments"), server)
	setupProjectRoutes(router.Group("/projects"), server)
	setupInteractionRoutes(router, server)
}

func setupHealthRoutes(router *gin.RouterGroup, server *servers.Server) {
	handler := handlers.NewHealthHandler(server)
	router.GET("", handler.GetHealth)
}

func setupDeploymentRoutes(router *gin.RouterGroup, server *servers.Server) {
	handler := handlers.NewDeploymentHandler(server)
	router.GET("/recent", handler.GetRecent)
	router.GET("/snapshot", handler.GetSnapshot)
	router.GET("/:id", handler.GetByID)
	router.POST("", handler.Create)
	router.PATCH("/:id/status", handler.UpdateStatus)
	router.POST("/:id/events", handler.RecordEvent)
}

func setupProjectRoutes(router *gin.RouterGroup, server *servers.Server) {
	handler := handlers.NewProjectHandler(server)
	router.POST("", handler.Create)
	router.POST("/:slug/pipelines", handler.CreatePipeline)
}

func setupInteractionRoutes(router *gin.RouterGroup, server *servers.Server) {
	handler := handlers.NewInteractionHandler(server)
	router.GET("/commands", handler.ListCommands)
	router.POST("/interactions", handler.Create)
	router.GET("/interactions/:handle", handler.GetReply)
}
