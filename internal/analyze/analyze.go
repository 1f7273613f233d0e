// Package analyze wires the loader, statistics, prompt templates, generation
// client and report writer into the two analysis pipelines.
package analyze

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/testops/report-insights/internal/metadata"
	"github.com/testops/report-insights/internal/prompt"
	"github.com/testops/report-insights/internal/report"
	"github.com/testops/report-insights/internal/stats"
)

// Analysis types selectable on the command line.
const (
	TypeSingle = "single"
	TypeTrend  = "trend"
)

// Generator produces analysis text from a system instruction and a user
// prompt. *llm.Client implements it; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Options select what to analyze.
type Options struct {
	Project    string
	Type       string
	Timestamp  string // required for TypeSingle
	PeriodDays int    // TypeTrend window, 0 means the default
}

// Pipeline holds the collaborators for one invocation.
type Pipeline struct {
	Loader    *metadata.Loader
	Templates *prompt.Templates
	Generator Generator
	Writer    *report.Writer
	Log       *zap.Logger
	Now       func() time.Time // defaults to time.Now
}

// Run executes one analysis invocation: load, aggregate (trend only),
// render, generate, write.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	switch opts.Type {
	case TypeSingle:
		return p.runSingle(ctx, opts)
	case TypeTrend:
		return p.runTrend(ctx, opts)
	default:
		return fmt.Errorf("unknown analysis type %q (expected %s or %s)", opts.Type, TypeSingle, TypeTrend)
	}
}

func (p *Pipeline) runSingle(ctx context.Context, opts Options) error {
	if opts.Timestamp == "" {
		return fmt.Errorf("timestamp is required for single analysis")
	}

	rec, err := p.Loader.Load(opts.Project, opts.Timestamp)
	if err != nil {
		return err
	}
	prev, err := p.Loader.Previous(opts.Project, opts.Timestamp)
	if err != nil {
		return err
	}

	// First-ever run compares against a zero baseline, so the delta
	// equals the current pass rate.
	var baseline float64
	if prev != nil {
		baseline = prev.PassRate
	}
	delta := rec.PassRate - baseline

	failedTests := prompt.NA
	if len(rec.FailedTests) > 0 {
		failedTests = strings.Join(rec.FailedTests, "\n")
	}

	values := map[string]string{
		"project":         rec.Project,
		"timestamp":       rec.Timestamp,
		"branch":          prompt.OrNA(rec.Branch),
		"run_number":      strconv.Itoa(rec.RunNumber),
		"status":          prompt.OrNA(rec.Status),
		"total_tests":     strconv.Itoa(rec.TotalTests),
		"passed":          strconv.Itoa(rec.Passed),
		"failed":          strconv.Itoa(rec.Failed),
		"pass_rate":       prompt.Percent(rec.PassRate),
		"pass_rate_delta": prompt.Delta(delta),
		"failed_tests":    failedTests,
	}

	p.log().Debug("requesting single-run analysis",
		zap.String("project", opts.Project),
		zap.String("timestamp", opts.Timestamp),
		zap.Float64("delta", delta))

	text, err := p.Generator.Generate(ctx,
		prompt.Render(p.Templates.Single.System, values),
		prompt.Render(p.Templates.Single.User, values))
	if err != nil {
		return err
	}

	return p.Writer.WriteSingle(*rec, delta, text)
}

func (p *Pipeline) runTrend(ctx context.Context, opts Options) error {
	records, err := p.Loader.LoadAll(opts.Project)
	if err != nil {
		return err
	}

	summary, err := stats.Compute(records, opts.PeriodDays, p.now())
	if err != nil {
		return err
	}

	values := map[string]string{
		"project":      opts.Project,
		"period_days":  strconv.Itoa(summary.PeriodDays),
		"report_count": strconv.Itoa(len(summary.Records)),
		"mean_rate":    prompt.Percent(summary.Mean),
		"median_rate":  prompt.Percent(summary.Median),
		"std_dev":      prompt.Percent(summary.StdDev),
		"max_rate":     prompt.Percent(summary.Max.Rate),
		"max_date":     summary.Max.Record.DateString(),
		"min_rate":     prompt.Percent(summary.Min.Rate),
		"min_date":     summary.Min.Record.DateString(),
		"history":      summary.History(),
	}

	p.log().Debug("requesting trend analysis",
		zap.String("project", opts.Project),
		zap.Int("period_days", summary.PeriodDays),
		zap.Int("reports", len(summary.Records)))

	text, err := p.Generator.Generate(ctx,
		prompt.Render(p.Templates.Trend.System, values),
		prompt.Render(p.Templates.Trend.User, values))
	if err != nil {
		return err
	}

	return p.Writer.WriteTrend(opts.Project, summary, text)
}

func (p *Pipeline) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
