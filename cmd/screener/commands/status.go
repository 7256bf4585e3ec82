package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsignal/screener/internal/storage"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health and recent screening runs",
	Long: `Checks database connectivity and prints the most recent
screening run records.

Example:
  go run ./cmd/screener status
  go run ./cmd/screener status --limit 50`,
	RunE: runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of recent runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Screener Status ===")

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	health, err := deps.DB.HealthCheck(cmd.Context())
	if err != nil {
		fmt.Printf("\n❌ Database: %s\n", err)
	} else {
		fmt.Printf("\n✅ Database: healthy (ping %v, %d/%d conns)\n",
			health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns)
	}

	if deps.Redis.Enabled() {
		fmt.Println("✅ Redis: enabled")
	} else {
		fmt.Println("ℹ️  Redis: disabled")
	}

	stats, err := storage.NewStatsRepository(deps.DB.Pool).Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	fmt.Println("\n📊 Dataset")
	fmt.Printf("%-15s %10d\n", "Snapshots:", stats.Snapshots)
	fmt.Printf("%-15s %10d\n", "Tickers:", stats.Tickers)
	if stats.LatestDate != nil {
		fmt.Printf("%-15s %10s\n", "Latest date:", stats.LatestDate.Format("2006-01-02"))
	}
	fmt.Printf("%-15s %10d\n", "Price points:", stats.PricePoints)
	fmt.Printf("%-15s %10d\n", "Alerts:", stats.Alerts)

	runs, err := deps.Runs.GetRecent(cmd.Context(), statusLimit)
	if err != nil {
		return fmt.Errorf("get recent runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("\nNo screening runs recorded yet")
		return nil
	}

	fmt.Printf("\n%-12s %-14s %8s %6s %10s %10s\n",
		"Date", "Strategy", "Scanned", "Found", "Suppressed", "Duration")
	for _, run := range runs {
		fmt.Printf("%-12s %-14s %8d %6d %10d %10s\n",
			run.Date.Format("2006-01-02"), run.Strategy,
			run.TickersScanned, run.OpportunitiesFound, run.Suppressed, run.Duration)
	}

	return nil
}
