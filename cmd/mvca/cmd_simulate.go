package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/logging"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/metrics"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/simulation"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a batch of randomly parameterized communities",
		Long: `Run the batch described by the simulation section of mvca.yaml.

Each community draws its competences, homophily and number of elites from
the configured ranges, is generated and stored, and gets one CSV row with
its estimated collective accuracy. A README.csv describing the batch is
written next to the results.

Examples:
  mvca simulate
  mvca simulate --communities 10 --trials 1000 --seed 1
  mvca simulate --output study/results.csv --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			sim := &env.cfg.Simulation
			if cmd.Flags().Changed("communities") {
				sim.NumberOfCommunities, _ = cmd.Flags().GetInt("communities")
			}
			if cmd.Flags().Changed("trials") {
				sim.NumberOfVotingSimulations, _ = cmd.Flags().GetInt("trials")
			}
			if seed := seedFlag(cmd); seed != nil {
				sim.Seed = seed
			}
			if cmd.Flags().Changed("output") {
				sim.Output, _ = cmd.Flags().GetString("output")
			}
			if err := env.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			name, _ := cmd.Flags().GetString("name")
			scenario, err := simulation.ScenarioFromConfig(name, *sim)
			if err != nil {
				return err
			}

			st, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runLog := logging.NewRunLogger(env.dataDir, env.cfg.Logging.Level)
			defer runLog.Close()
			registry := metrics.NewRegistry()

			outPath := env.resolve(sim.Output)
			f, err := createOutput(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := simulation.NewCSVResultWriter(f)
			if err != nil {
				return err
			}

			runner := simulation.NewRunner(st,
				simulation.WithLogger(env.logger),
				simulation.WithRunLogger(runLog),
				simulation.WithMetrics(registry),
				simulation.WithReadme(filepath.Dir(outPath)))

			ctx, cancel := signalContext()
			defer cancel()

			summary, err := runner.Run(ctx, scenario, w)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", outPath, err)
			}
			if err := registry.WriteTextfile(env.cfg.Metrics.Textfile); err != nil {
				return err
			}

			return printSummary(cmd, env, summary, outPath)
		},
	}

	cmd.Flags().String("name", "simulation", "Batch name recorded in README.csv")
	cmd.Flags().Int("communities", 0, "Number of communities (overrides config)")
	cmd.Flags().Int("trials", 0, "Voting simulations per community (overrides config)")
	cmd.Flags().Uint64("seed", 0, "Random seed (overrides config; drawn when unset)")
	cmd.Flags().String("output", "", "Results CSV, relative to the data directory (overrides config)")

	return cmd
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [id]...",
		Short: "Re-estimate collective accuracy for stored communities",
		Long: `Run the voting simulation again on stored communities without
regenerating their networks. With no ids every stored community is
replayed in id order.

Examples:
  mvca replay
  mvca replay baseline other --trials 100000 --method clopper-pearson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			trials := env.cfg.Simulation.NumberOfVotingSimulations
			if cmd.Flags().Changed("trials") {
				trials, _ = cmd.Flags().GetInt("trials")
			}
			alpha := env.cfg.Simulation.Alpha
			if cmd.Flags().Changed("alpha") {
				alpha, _ = cmd.Flags().GetFloat64("alpha")
			}
			methodName := env.cfg.Simulation.IntervalMethod
			if cmd.Flags().Changed("method") {
				methodName, _ = cmd.Flags().GetString("method")
			}
			method, err := estimate.ParseMethod(methodName)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")

			st, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runLog := logging.NewRunLogger(env.dataDir, env.cfg.Logging.Level)
			defer runLog.Close()
			registry := metrics.NewRegistry()

			outPath := env.resolve(output)
			f, err := createOutput(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := simulation.NewCSVResultWriter(f)
			if err != nil {
				return err
			}

			runner := simulation.NewRunner(st,
				simulation.WithLogger(env.logger),
				simulation.WithRunLogger(runLog),
				simulation.WithMetrics(registry))

			ctx, cancel := signalContext()
			defer cancel()

			summary, err := runner.Replay(ctx, args, trials, alpha, method, seedFlag(cmd), w)
			if err != nil {
				return fmt.Errorf("replay failed: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", outPath, err)
			}
			if err := registry.WriteTextfile(env.cfg.Metrics.Textfile); err != nil {
				return err
			}

			return printSummary(cmd, env, summary, outPath)
		},
	}

	cmd.Flags().Int("trials", 0, "Voting simulations per community (default from config)")
	cmd.Flags().Float64("alpha", 0, "Significance level (default from config)")
	cmd.Flags().String("method", "", "Interval method (default from config)")
	cmd.Flags().Uint64("seed", 0, "Random seed (drawn when unset)")
	cmd.Flags().String("output", "replay.csv", "Results CSV, relative to the data directory")

	return cmd
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func printSummary(cmd *cobra.Command, env *cmdEnv, summary *simulation.Summary, outPath string) error {
	if env.jsonOut {
		return printJSON(cmd, map[string]interface{}{
			"summary": summary,
			"output":  outPath,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (seed %d)\n", summary.RunID, summary.Seed)
	fmt.Fprintf(out, "  Communities:   %d\n", summary.Communities)
	fmt.Fprintf(out, "  Mean accuracy: %.4f\n", summary.MeanAccuracy)
	if summary.DroppedEdges > 0 {
		fmt.Fprintf(out, "  Dropped edges: %d\n", summary.DroppedEdges)
	}
	fmt.Fprintf(out, "  Duration:      %s\n", summary.Duration)
	fmt.Fprintf(out, "  Results:       %s\n", outPath)
	return nil
}
