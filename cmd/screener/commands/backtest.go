package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsignal/screener/internal/backtest"
	"github.com/finsignal/screener/internal/contracts"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay past screening signals",
	Long: `Replays a historical screening pass and measures how its
opportunities performed over a holding period.

The entry date is the nearest snapshot date with sufficient universe
coverage to "today minus months-back". Each emitted opportunity is
closed at the last available price on or before entry plus the holding
period.

Example:
  go run ./cmd/screener backtest
  go run ./cmd/screener backtest --months-back 12 --holding-days 60`,
	RunE: runBacktest,
}

var (
	backtestMonthsBack  int
	backtestHoldingDays int
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVar(&backtestMonthsBack, "months-back", 0, "how far back to enter (months, default from thresholds)")
	backtestCmd.Flags().IntVar(&backtestHoldingDays, "holding-days", 0, "holding period in days (default from thresholds)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Backtest Simulator ===")

	if backtestMonthsBack < 0 || backtestHoldingDays < 0 {
		return fmt.Errorf("months-back and holding-days must not be negative")
	}

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.Simulator.Run(cmd.Context(), backtest.Params{
		MonthsBack:        backtestMonthsBack,
		HoldingPeriodDays: backtestHoldingDays,
	})
	if err != nil {
		if errors.Is(err, contracts.ErrNoQualifyingDate) {
			fmt.Println("\n❌ No snapshot date with sufficient coverage near the requested entry point")
		}
		return fmt.Errorf("backtest failed: %w", err)
	}

	printBacktestResult(result)
	return nil
}

func printBacktestResult(result *contracts.BacktestResult) {
	fmt.Printf("\n📅 Entry: %s  Exit target: %s\n",
		result.EntryDate.Format("2006-01-02"), result.ExitTarget.Format("2006-01-02"))

	if len(result.Trades) == 0 {
		fmt.Println("\nNo opportunities at the entry date. Nothing to replay.")
		return
	}

	fmt.Printf("\n%-14s %6s %5s %5s %9s %9s %9s %9s\n",
		"Strategy", "Count", "Wins", "Loss", "Mean%", "Median%", "Best%", "Worst%")
	for _, strat := range contracts.AllStrategies {
		s, ok := result.Summaries[strat]
		if !ok {
			continue
		}
		fmt.Printf("%-14s %6d %5d %5d %9.2f %9.2f %9.2f %9.2f\n",
			s.Strategy, s.Count, s.Wins, s.Losses,
			s.MeanReturn, s.MedianReturn, s.BestReturn, s.WorstReturn)
	}

	fmt.Printf("\n✅ Replayed %d trades\n", len(result.Trades))
}
