package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/chainops-backend/pkg/commands"
)

// newCommandsCmd prints the published command definitions. The handlers are
// never invoked, so no backing store is needed.
func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the chat command definitions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := commands.NewRegistry(nil, nil)
			if err := registry.Register(commands.DefaultDefinitions(nil, nil)...); err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(registry.Definitions())
		},
	}
}
