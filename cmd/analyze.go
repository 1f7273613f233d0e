package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/testops/report-insights/internal/analyze"
	"github.com/testops/report-insights/internal/llm"
	"github.com/testops/report-insights/internal/metadata"
	"github.com/testops/report-insights/internal/prompt"
	"github.com/testops/report-insights/internal/report"
	"github.com/testops/report-insights/internal/stats"
)

var (
	analyzeProject    string
	analyzeType       string
	analyzeTimestamp  string
	analyzePeriod     int
	analyzeReportsDir string
	analyzeOutputDir  string
	analyzeTemplates  string
	analyzeModel      string
	analyzeTimeout    time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate an AI analysis for a project's test reports",
	Long: `Generate a natural-language analysis of test-run reports.

Single mode analyzes one run against its predecessor and writes
latest-analysis.md plus insights.json. Trend mode aggregates pass-rate
statistics over a window of days and writes trend-analysis.md.

The ` + llm.APIKeyEnv + ` environment variable must hold the generation
endpoint credential.

Examples:
  report-insights analyze --project billing --type single --timestamp 20260310-142501
  report-insights analyze --project billing --type trend --period 14`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyze(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "report-insights: %v\n", err)
			os.Exit(1)
		}
	},
}

func runAnalyze(cmd *cobra.Command) error {
	// Validate the cheap inputs before touching templates or credentials.
	if analyzeType != analyze.TypeSingle && analyzeType != analyze.TypeTrend {
		return fmt.Errorf("unknown analysis type %q (expected %s or %s)", analyzeType, analyze.TypeSingle, analyze.TypeTrend)
	}
	if analyzeType == analyze.TypeSingle && analyzeTimestamp == "" {
		return fmt.Errorf("--timestamp is required when --type=%s", analyze.TypeSingle)
	}

	fs := afero.NewOsFs()

	templates, err := loadTemplates(fs)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(llm.WithModel(analyzeModel), llm.WithTimeout(analyzeTimeout))
	if err != nil {
		return err
	}

	pipeline := &analyze.Pipeline{
		Loader:    metadata.NewLoader(fs, analyzeReportsDir, logger),
		Templates: templates,
		Generator: client,
		Writer:    report.NewWriter(fs, analyzeOutputDir),
		Log:       logger,
	}

	return pipeline.Run(cmd.Context(), analyze.Options{
		Project:    analyzeProject,
		Type:       analyzeType,
		Timestamp:  analyzeTimestamp,
		PeriodDays: analyzePeriod,
	})
}

func loadTemplates(fs afero.Fs) (*prompt.Templates, error) {
	if analyzeTemplates != "" {
		return prompt.LoadTemplates(fs, analyzeTemplates)
	}
	return prompt.DefaultTemplates()
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeProject, "project", "", "Project identifier (required)")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "Analysis type: single or trend (required)")
	analyzeCmd.Flags().StringVar(&analyzeTimestamp, "timestamp", "", "Run timestamp (YYYYMMDD-HHMMSS), required for --type=single")
	analyzeCmd.Flags().IntVar(&analyzePeriod, "period", stats.DefaultPeriodDays, "Trend window in days (--type=trend)")
	analyzeCmd.Flags().StringVar(&analyzeReportsDir, "reports-dir", "reports", "Root directory containing report metadata")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "analysis", "Root directory for generated analysis files")
	analyzeCmd.Flags().StringVar(&analyzeTemplates, "templates", "", "YAML file overriding the built-in prompt templates")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Generation model name")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "Request timeout for the generation endpoint")
	_ = analyzeCmd.MarkFlagRequired("project")
	_ = analyzeCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(analyzeCmd)
}
