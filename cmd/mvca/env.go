package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/config"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/logging"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// cmdEnv bundles what most subcommands need: the effective configuration,
// the data directory and an operational logger on stderr.
type cmdEnv struct {
	cfg     *config.Config
	dataDir string
	logger  *slog.Logger
	jsonOut bool
}

// configPath resolves --config, falling back to <root>/mvca.yaml.
func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	root, _ := cmd.Flags().GetString("root")
	return filepath.Join(root, config.FileName)
}

func loadEnv(cmd *cobra.Command) (*cmdEnv, error) {
	root, _ := cmd.Flags().GetString("root")
	jsonOut, _ := cmd.Flags().GetBool("json")

	explicit, _ := cmd.Flags().GetString("config")
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	cfg, err := config.LoadPath(configPath(cmd))
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	dataDir := cfg.Storage.Path
	if dataDir == "" {
		dataDir = store.DataPath(root)
	}

	return &cmdEnv{
		cfg:     cfg,
		dataDir: dataDir,
		logger:  logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		jsonOut: jsonOut,
	}, nil
}

func (e *cmdEnv) openStore() (store.CommunityStore, error) {
	st, err := store.Open(store.Backend(e.cfg.Storage.Backend), e.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open community store: %w", err)
	}
	return st, nil
}

// resolve interprets path relative to the data directory.
func (e *cmdEnv) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.dataDir, path)
}

// seedFlag returns the --seed value, or nil when the flag was not given.
func seedFlag(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	seed, _ := cmd.Flags().GetUint64("seed")
	return &seed
}

func sourceFor(seed *uint64) rng.Source {
	return rng.New(rng.SeedOrRandom(seed))
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
