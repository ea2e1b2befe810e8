package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/canopy"
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Canopy runs resumable behavior trees",
	Long: `Canopy runs a demo behavior tree against many concurrent runs and
inspects the tick traces recorded in SQLite or Redis.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("sqlite", "", "SQLite database file for tick traces")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for tick traces (host:port)")
	rootCmd.PersistentFlags().String("prefix", "canopy:trace:", "Redis key prefix")
}

// openStore returns the trace store selected by the persistent flags and a
// function releasing it. Without flags traces stay in memory.
func openStore(cmd *cobra.Command) (canopy.TraceStore, func(), error) {
	path, _ := cmd.Flags().GetString("sqlite")
	addr, _ := cmd.Flags().GetString("redis")
	prefix, _ := cmd.Flags().GetString("prefix")

	switch {
	case path != "" && addr != "":
		return nil, nil, fmt.Errorf("--sqlite and --redis are mutually exclusive")
	case path != "":
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := canopy.NewSQLiteTraceStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite trace store: %w", err)
		}
		return store, func() { _ = db.Close() }, nil
	case addr != "":
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		store := canopy.NewRedisTraceStore(client, canopy.WithRedisPrefix(prefix))
		return store, func() { _ = client.Close() }, nil
	default:
		return canopy.NewInMemoryTraceStore(), func() {}, nil
	}
}
