// Package metadata reads test-run metadata records from a reports directory
// tree laid out as {root}/{project}/{timestamp}/metadata.json.
package metadata

import (
	"fmt"
	"time"
)

// Record is one test run's metadata, written by the producing project.
// Records are immutable: this tool only reads them.
type Record struct {
	Project     string   `json:"project"`
	Timestamp   string   `json:"timestamp"` // YYYYMMDD-HHMMSS
	RunNumber   int      `json:"run_number"`
	Branch      string   `json:"branch"`
	Status      string   `json:"status"`
	TotalTests  int      `json:"total_tests"`
	Passed      int      `json:"passed"`
	Failed      int      `json:"failed"`
	PassRate    float64  `json:"pass_rate"` // 0-100
	FailedTests []string `json:"failed_tests,omitempty"`
}

// Date parses the YYYYMMDD prefix of the record's timestamp. Time of day is
// ignored: trend window cutoffs compare at day granularity.
func (r Record) Date() (time.Time, error) {
	if len(r.Timestamp) < 8 {
		return time.Time{}, fmt.Errorf("timestamp %q too short", r.Timestamp)
	}
	return time.Parse("20060102", r.Timestamp[:8])
}

// DateString formats the record's run date as 2006-01-02, falling back to
// the raw timestamp when it does not parse.
func (r Record) DateString() string {
	d, err := r.Date()
	if err != nil {
		return r.Timestamp
	}
	return d.Format("2006-01-02")
}
