package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a scoring scan now",
	Long: `Fetch bars, compute indicators and persist ranked results.

Without --list every configured list is scanned.

Example:
  go run ./cmd/swingrank scan
  go run ./cmd/swingrank scan --list leading_stocks --top 20`,
	RunE: runScan,
}

var (
	scanList string
	scanTop  int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanList, "list", "", "scan a single list")
	scanCmd.Flags().IntVar(&scanTop, "top", 10, "number of results to print")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	if scanList == "" {
		return a.runner.RunAll(ctx)
	}

	batch, err := a.runner.RunList(ctx, scanList)
	if err != nil {
		return fmt.Errorf("scan %s: %w", scanList, err)
	}

	fmt.Printf("\n%s vs %s (1M %+.2f%%, 3M %+.2f%%)\n\n",
		scanList, batch.Benchmark.Ticker, batch.Benchmark.Return1M, batch.Benchmark.Return3M)
	fmt.Printf("%-4s %-8s %-8s %-8s %-8s %-8s %-8s\n",
		"#", "TICKER", "FINAL", "RS", "TREND", "PULLBK", "VOLA")

	for _, res := range batch.Top(scanTop) {
		if res.Error != "" {
			fmt.Printf("%-4d %-8s %-8s (%s)\n", res.Rank, res.Ticker, "-", res.Error)
			continue
		}
		fmt.Printf("%-4d %-8s %-8.2f %-8.2f %-8.2f %-8.2f %-8.2f\n",
			res.Rank, res.Ticker, res.FinalScore,
			res.RSScore, res.TrendScore, res.PullbackScore, res.VolatilityScore)
	}

	return nil
}
