package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates over stdio and provides read-only tools for statistics,
streaks, goals, achievements and session history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; status goes to stderr
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio, press Ctrl+C to stop")

		ctx, stop := setupSignalHandler()
		defer stop()

		server := mcp.NewServer(app.stats)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
