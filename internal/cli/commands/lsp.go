package commands

import (
	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It provides
document formatting, range formatting and a "Sort Tailwind classes" source
action. The project root and configuration are determined by the client's
initialization request (rootUri parameter).`,
		Example: `  # Start LSP server (usually called by an editor)
  rawreorder lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	server.SetVersion(version)
	return server.Run(cmd.Context())
}
