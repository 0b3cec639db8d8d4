package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/constants"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/mcp"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve mvca tools over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
mvca_generate, mvca_vote, mvca_inspect and mvca_list tools backed by the
configured community store. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    constants.AppName,
				Version: version,
				Backend: store.Backend(env.cfg.Storage.Backend),
				DataDir: env.dataDir,
				Logger:  env.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			env.logger.Info("mcp server starting", "data_dir", env.dataDir, "backend", env.cfg.Storage.Backend)
			return server.Run(cmd.Context())
		},
	}
}
