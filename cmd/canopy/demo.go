package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/canopy"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the patrol tree for a number of guards",
	Long: `Demo builds the patrol tree, starts one run per guard and ticks all
runs concurrently until every guard has reported in. Tick traces are written
to the selected store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		guards, _ := cmd.Flags().GetInt("guards")
		route, _ := cmd.Flags().GetInt("route")
		workers, _ := cmd.Flags().GetInt("workers")
		verbose, _ := cmd.Flags().GetBool("verbose")

		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		metrics := &canopy.BasicMetrics{}

		tree, err := patrolTree(
			canopy.WithLogger(logger),
			canopy.WithObserver(metrics),
			canopy.WithObserver(canopy.NewTraceObserver(store, canopy.WithTraceLogger(logger))),
		)
		if err != nil {
			return err
		}

		runner := canopy.NewRunner(tree)
		contexts := make(map[string]*guard, guards)
		for i := 0; i < guards; i++ {
			g := &guard{name: fmt.Sprintf("guard-%02d", i+1), route: route + i%3, intruder: i%4 == 3}
			id, err := runner.Start("", g)
			if err != nil {
				return err
			}
			contexts[id] = g
		}

		for round := 1; len(runner.Runs()) > 0; round++ {
			outcomes, err := runner.TickAll(cmd.Context(), workers)
			if err != nil {
				return err
			}
			for id, st := range outcomes {
				if st == canopy.StatusRunning {
					continue
				}
				g := contexts[id]
				fmt.Printf("round %d: %s finished with %s (run %s)\n", round, g.name, st, id)
				_ = runner.Discard(id)
			}
		}

		snap := metrics.Snapshot()
		fmt.Printf("ticks: %d started, %d succeeded, %d failed, %d suspended; avg %s\n",
			snap.TicksStarted, snap.TicksSucceeded, snap.TicksFailed, snap.TicksSuspended, snap.AvgTickDuration)
		return nil
	},
}

func init() {
	demoCmd.Flags().Int("guards", 4, "Number of concurrent runs")
	demoCmd.Flags().Int("route", 3, "Waypoints per route")
	demoCmd.Flags().Int("workers", 2, "Goroutines ticking runs")
	demoCmd.Flags().BoolP("verbose", "v", false, "Log every tick and node")
	rootCmd.AddCommand(demoCmd)
}
