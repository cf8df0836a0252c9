package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docsearch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document search and upload tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		pipeline, store, err := buildPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		count, err := pipeline.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting documents: %w", err)
		}
		fmt.Fprintf(os.Stderr, "docsearch MCP server started on stdio (mode=%s, documents=%d)\n", cfg.Mode, count)

		srv := mcpserver.NewServer(pipeline)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
