// Package stats computes descriptive pass-rate statistics over a
// time-bounded window of test-run records.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/testops/report-insights/internal/metadata"
)

// ErrEmptyWindow is returned when no records fall inside the requested
// trend window.
var ErrEmptyWindow = errors.New("no reports in trend window")

// DefaultPeriodDays is the trend window length used when none is given.
const DefaultPeriodDays = 30

// Extreme pairs a pass rate with the first record in time order that
// produced it.
type Extreme struct {
	Rate   float64
	Record metadata.Record
}

// Summary holds statistics over one trend window.
type Summary struct {
	PeriodDays int
	Records    []metadata.Record // time-ordered records inside the window
	Mean       float64
	Median     float64
	StdDev     float64
	Max        Extreme
	Min        Extreme
}

// Compute filters records to the last periodDays days and computes pass-rate
// statistics over them. The cutoff comparison is at day granularity: a record
// dated exactly on the boundary day is included. periodDays <= 0 falls back
// to DefaultPeriodDays.
func Compute(records []metadata.Record, periodDays int, now time.Time) (*Summary, error) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}

	cutoff := day(now.Add(-time.Duration(periodDays) * 24 * time.Hour))

	window := make([]metadata.Record, 0, len(records))
	for _, rec := range records {
		d, err := rec.Date()
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			window = append(window, rec)
		}
	}
	if len(window) == 0 {
		return nil, fmt.Errorf("last %d days: %w", periodDays, ErrEmptyWindow)
	}

	rates := make([]float64, len(window))
	for i, rec := range window {
		rates[i] = rec.PassRate
	}

	s := &Summary{
		PeriodDays: periodDays,
		Records:    window,
		Mean:       mean(rates),
		Median:     median(rates),
	}
	s.StdDev = stdDev(rates, s.Mean)

	s.Max = Extreme{Rate: window[0].PassRate, Record: window[0]}
	s.Min = s.Max
	for _, rec := range window[1:] {
		if rec.PassRate > s.Max.Rate {
			s.Max = Extreme{Rate: rec.PassRate, Record: rec}
		}
		if rec.PassRate < s.Min.Rate {
			s.Min = Extreme{Rate: rec.PassRate, Record: rec}
		}
	}

	return s, nil
}

// History renders the window as one line per record, oldest first:
// "2026-02-10: 95.0% (19/20)".
func (s *Summary) History() string {
	lines := make([]string, len(s.Records))
	for i, rec := range s.Records {
		lines[i] = fmt.Sprintf("%s: %.1f%% (%d/%d)", rec.DateString(), rec.PassRate, rec.Passed, rec.TotalTests)
	}
	return strings.Join(lines, "\n")
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median takes index len/2 of the ascending sort. For even-length input that
// is the upper-middle element, not the averaged midpoint; existing reports
// were produced with this rule, so it is kept as-is.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// stdDev is the population standard deviation (sum of squared deviations
// divided by N, not N-1), matching the rule used by existing reports.
func stdDev(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// day truncates a time to midnight UTC of its calendar date.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
