// Package report persists generated analysis artifacts under a per-project
// output directory. Files are overwritten wholesale on each run; no history
// is kept for the latest-analysis artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/testops/report-insights/internal/metadata"
	"github.com/testops/report-insights/internal/prompt"
	"github.com/testops/report-insights/internal/stats"
)

const (
	latestAnalysisFile = "latest-analysis.md"
	insightsFile       = "insights.json"
	trendAnalysisFile  = "trend-analysis.md"

	timeLayout = "2006-01-02 15:04:05"
)

// Writer writes analysis artifacts to {root}/{project}/.
type Writer struct {
	fs   afero.Fs
	root string
	now  func() time.Time
	id   func() string
}

// NewWriter creates a Writer rooted at the given output directory.
func NewWriter(fs afero.Fs, root string) *Writer {
	return &Writer{
		fs:   fs,
		root: root,
		now:  time.Now,
		id:   uuid.NewString,
	}
}

// Insights is the structured summary written alongside the single-run
// analysis document.
type Insights struct {
	ID            string          `json:"id"`
	Project       string          `json:"project"`
	Summary       string          `json:"summary"`
	Metadata      metadata.Record `json:"metadata"`
	PassRateDelta float64         `json:"pass_rate_delta"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// WriteSingle writes latest-analysis.md and insights.json for one run.
func (w *Writer) WriteSingle(rec metadata.Record, delta float64, text string) error {
	dir, err := w.projectDir(rec.Project)
	if err != nil {
		return err
	}
	generated := w.now()

	var b strings.Builder
	fmt.Fprintf(&b, "# Test Run Analysis: %s\n\n", rec.Project)
	fmt.Fprintf(&b, "- Run: #%d (%s)\n", rec.RunNumber, rec.Timestamp)
	fmt.Fprintf(&b, "- Branch: %s\n", prompt.OrNA(rec.Branch))
	fmt.Fprintf(&b, "- Status: %s\n", prompt.OrNA(rec.Status))
	fmt.Fprintf(&b, "- Pass rate: %s%% (%s vs previous run)\n\n", prompt.Percent(rec.PassRate), prompt.Delta(delta))
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Generated at %s\n", generated.Format(timeLayout))

	if err := afero.WriteFile(w.fs, filepath.Join(dir, latestAnalysisFile), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}

	insights := Insights{
		ID:            w.id(),
		Project:       rec.Project,
		Summary:       firstLine(text),
		Metadata:      rec,
		PassRateDelta: delta,
		GeneratedAt:   generated,
	}
	data, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}
	data = append(data, '\n')
	if err := afero.WriteFile(w.fs, filepath.Join(dir, insightsFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write insights: %w", err)
	}
	return nil
}

// WriteTrend writes trend-analysis.md for the window.
func (w *Writer) WriteTrend(project string, s *stats.Summary, text string) error {
	dir, err := w.projectDir(project)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Trend Analysis: %s\n\n", project)
	fmt.Fprintf(&b, "- Period: last %d days (%d runs)\n", s.PeriodDays, len(s.Records))
	fmt.Fprintf(&b, "- Mean pass rate: %s%%\n", prompt.Percent(s.Mean))
	fmt.Fprintf(&b, "- Median pass rate: %s%%\n", prompt.Percent(s.Median))
	fmt.Fprintf(&b, "- Standard deviation: %s\n", prompt.Percent(s.StdDev))
	fmt.Fprintf(&b, "- Best run: %s%% on %s\n", prompt.Percent(s.Max.Rate), s.Max.Record.DateString())
	fmt.Fprintf(&b, "- Worst run: %s%% on %s\n\n", prompt.Percent(s.Min.Rate), s.Min.Record.DateString())
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Generated at %s\n", w.now().Format(timeLayout))

	if err := afero.WriteFile(w.fs, filepath.Join(dir, trendAnalysisFile), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write trend analysis: %w", err)
	}
	return nil
}

func (w *Writer) projectDir(project string) (string, error) {
	dir := filepath.Join(w.root, project)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
