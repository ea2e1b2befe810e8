package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs with recorded tick traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}
		for _, id := range runs {
			fmt.Println("- " + id)
		}
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events <run-id>",
	Short: "Print the tick trace of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		events, err := store.ListEvents(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		if len(events) == 0 {
			fmt.Printf("No events for run '%s'.\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TICK\tAT\tTYPE\tNODE\tSTATUS\tDETAIL")
		for _, ev := range events {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
				ev.Tick, ev.At.Format(time.RFC3339Nano), ev.Type, ev.Node, ev.Status, ev.Detail)
		}
		return w.Flush()
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Print the demo tree outline",
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := patrolTree()
		if err != nil {
			return err
		}
		fmt.Print(tree.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd, eventsCmd, outlineCmd)
}
