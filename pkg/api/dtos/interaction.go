package dtos

import (
	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
)

type InteractionRequest struct {
	ID         string                 `json:"id"`
	Command    string                 `json:"command"    binding:"required"`
	SubCommand string                 `json:"subcommand"`
	Options    map[string]interface{} `json:"options"`
	User       string                 `json:"user"`
}

// ToInteraction converts the request, assigning an id when the caller did
// not send one.
func (request *InteractionRequest) ToInteraction() commands.Interaction {
	id := request.ID
	if id == "" {
		id = uuid.NewString()
	}
	return commands.Interaction{
		ID:         id,
		Command:    request.Command,
		SubCommand: request.SubCommand,
		Options:    request.Options,
		User:       request.User,
	}
}

type InteractionResponse struct {
	Handle commands.Handle `json:"handle"`
}
