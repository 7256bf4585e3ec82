package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run a full screening pass",
	Long: `Screens the snapshot universe for one evaluation date.

Every ticker with a snapshot on the date is evaluated against all four
strategies. Emitted opportunities are recorded as alerts (so repeat
signals are suppressed within each strategy's window) and exported as
per-strategy JSON files.

Example:
  go run ./cmd/screener screen
  go run ./cmd/screener screen --date 2026-08-28
  go run ./cmd/screener screen --dry-run`,
	RunE: runScreen,
}

var (
	screenDate   string
	screenDryRun bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenDate, "date", "", "evaluation date (YYYY-MM-DD, default: today)")
	screenCmd.Flags().BoolVar(&screenDryRun, "dry-run", false, "skip alert recording and JSON export")
}

func runScreen(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Opportunity Screener ===")

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if screenDate != "" {
		parsed, err := time.Parse("2006-01-02", screenDate)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	fmt.Printf("\n📅 Date: %s\n", date.Format("2006-01-02"))
	fmt.Printf("🔧 Thresholds: %s (hash %.12s)\n\n", deps.Config.Screening.ThresholdsPath, deps.ConfigHash)

	started := time.Now()
	result, err := deps.Orchestrator.Screen(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}

	printScreenResult(result)

	if screenDryRun {
		fmt.Println("\nℹ️  Dry run: alerts and exports skipped")
		return nil
	}

	for _, opp := range result.Opportunities() {
		if err := deps.Alerts.Save(cmd.Context(), contracts.NewAlertRecord(opp)); err != nil {
			deps.Logger.WithError(err).WithField("ticker", opp.Ticker).Warn("Failed to record alert")
		}
	}

	paths, err := deps.Exporter.Write(result)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, p := range paths {
		fmt.Printf("📄 Wrote %s\n", p)
	}

	fmt.Printf("\n✅ Screening completed in %.2fs\n", time.Since(started).Seconds())
	return nil
}

func printScreenResult(result *screening.Result) {
	fmt.Printf("Scanned %d tickers, %d opportunities (%d suppressed as repeats)\n",
		result.TickersScanned, result.Count(), result.Suppressed)

	for _, strat := range contracts.AllStrategies {
		opps := result.ByStrategy[strat]
		if len(opps) == 0 {
			continue
		}

		fmt.Printf("\n── %s (%d) ──\n", strat, len(opps))
		for _, opp := range opps {
			fmt.Printf("  %-12s %10.2f  %s\n", opp.Ticker, opp.Price, opp.Rationale)
		}
	}
}
