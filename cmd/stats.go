package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/testops/report-insights/internal/display"
	"github.com/testops/report-insights/internal/metadata"
	"github.com/testops/report-insights/internal/stats"
)

var (
	statsProject    string
	statsPeriod     int
	statsReportsDir string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pass-rate statistics for a project",
	Long: `Compute and print the trend window statistics for a project's test
reports. Read-only: no generation request is made and nothing is written.

Example:
  report-insights stats --project billing --period 14`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStats(); err != nil {
			fmt.Fprintf(os.Stderr, "report-insights: %v\n", err)
			os.Exit(1)
		}
	},
}

func runStats() error {
	loader := metadata.NewLoader(afero.NewOsFs(), statsReportsDir, logger)
	records, err := loader.LoadAll(statsProject)
	if err != nil {
		return err
	}

	summary, err := stats.Compute(records, statsPeriod, time.Now())
	if err != nil {
		return err
	}

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	fmt.Println(display.RenderStats(statsProject, summary, isTTY))
	return nil
}

func init() {
	statsCmd.Flags().StringVar(&statsProject, "project", "", "Project identifier (required)")
	statsCmd.Flags().IntVar(&statsPeriod, "period", stats.DefaultPeriodDays, "Trend window in days")
	statsCmd.Flags().StringVar(&statsReportsDir, "reports-dir", "reports", "Root directory containing report metadata")
	_ = statsCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(statsCmd)
}
