package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/config"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default mvca.yaml and create the data directory",
		Long: `Initialize an mvca project.

This command writes the default batch configuration to mvca.yaml (or the
--config path) and creates the .mvca/ data directory that holds stored
communities, run logs and results.

Examples:
  mvca init                 # Initialize in the current directory
  mvca init --root ./study  # Initialize another directory
  mvca init --force         # Overwrite an existing mvca.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			force, _ := cmd.Flags().GetBool("force")
			jsonOut, _ := cmd.Flags().GetBool("json")

			dataDir, err := store.EnsureDataDir(root)
			if err != nil {
				return err
			}

			path := configPath(cmd)
			status := "created"
			if _, err := os.Stat(path); err == nil && !force {
				status = "exists"
			} else {
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return fmt.Errorf("failed to create config directory: %w", err)
				}
				if err := config.Default().WriteFile(path); err != nil {
					return err
				}
			}

			if jsonOut {
				return printJSON(cmd, map[string]string{
					"status":        "initialized",
					"config":        path,
					"config_status": status,
					"data_dir":      dataDir,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized %s/ in %s\n", store.DataDirName, root)
			if status == "exists" {
				fmt.Fprintf(out, "Kept existing config %s (use --force to overwrite)\n", path)
			} else {
				fmt.Fprintf(out, "Wrote default config to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return cmd
}
