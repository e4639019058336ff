package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/api/dtos"
	"github.com/tokamak-network/chainops-backend/pkg/api/servers"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
	"go.uber.org/zap"
)

type InteractionHandler struct {
	Registry *commands.Registry
	Replies  commands.ReplyStore
}

// ListCommands godoc
// @Summary      Published command definitions
// @Tags         interactions
// @Produce      json
// @Success      200  {array}  commands.CommandSchema
// @Router       /commands [get]
func (h *InteractionHandler) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Definitions())
}

// Create godoc
// @Summary      Dispatch a chat command
// @Description  Returns as soon as the command is acknowledged. Poll the handle for the reply.
// @Tags         interactions
// @Accept       json
// @Produce      json
// @Param        request  body  dtos.InteractionRequest  true  "Interaction"
// @Success      202  {object}  dtos.InteractionResponse
// @Success      204
// @Failure      503  {object}  map[string]interface{}
// @Router       /interactions [post]
func (h *InteractionHandler) Create(c *gin.Context) {
	var request dtos.InteractionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interaction := request.ToInteraction()
	responder := commands.NewStoreResponder(h.Replies, interaction.ID)
	h.Registry.Dispatch(c.Request.Context(), interaction, responder)

	if err := responder.Err(); err != nil {
		logger.Error("Interaction not acknowledged", zap.String("interactionId", interaction.ID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "interaction could not be acknowledged"})
		return
	}
	handle, ok := responder.Handle()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusAccepted, dtos.InteractionResponse{Handle: handle})
}

// GetReply godoc
// @Summary      Reply of an acknowledged interaction
// @Tags         interactions
// @Produce      json
// @Param        handle  path  string  true  "Acknowledgment handle"
// @Success      200  {object}  commands.ReplyRecord
// @Success      202  {object}  commands.ReplyRecord
// @Failure      404  {object}  map[string]interface{}
// @Router       /interactions/{handle} [get]
func (h *InteractionHandler) GetReply(c *gin.Context) {
	record, err := h.Replies.Get(c.Request.Context(), commands.Handle(c.Param("handle")))
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "interaction not found"})
		return
	}
	if record.Status == commands.ReplyStatusPending {
		c.JSON(http.StatusAccepted, record)
		return
	}
	c.JSON(http.StatusOK, record)
}

func NewInteractionHandler(server *servers.Server) *InteractionHandler {
	return &InteractionHandler{
		Registry: server.Registry,
		Replies:  server.Replies,
	}
}
