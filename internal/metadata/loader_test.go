package metadata

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, fs afero.Fs, root string, rec Record) {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(root, rec.Project, rec.Timestamp, "metadata.json")
	require.NoError(t, afero.WriteFile(fs, path, data, 0644))
}

func TestLoadAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs, "reports", nil)

	// Written out of order; LoadAll must sort ascending by timestamp.
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260215-120000", PassRate: 95.0})
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260210-080000", PassRate: 90.0})
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260212-090000", PassRate: 85.0})

	records, err := loader.LoadAll("api")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "20260210-080000", records[0].Timestamp)
	assert.Equal(t, "20260212-090000", records[1].Timestamp)
	assert.Equal(t, "20260215-120000", records[2].Timestamp)
}

func TestLoadAllSkipsCorruptMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs, "reports", nil)

	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260210-080000", PassRate: 90.0})
	require.NoError(t, afero.WriteFile(fs, "reports/api/20260211-080000/metadata.json", []byte("{not json"), 0644))
	// Run directory without a metadata.json at all.
	require.NoError(t, fs.MkdirAll("reports/api/20260212-080000", 0755))

	records, err := loader.LoadAll("api")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "20260210-080000", records[0].Timestamp)
}

func TestLoadAllMissingProject(t *testing.T) {
	loader := NewLoader(afero.NewMemMapFs(), "reports", nil)

	_, err := loader.LoadAll("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs, "reports", nil)
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260210-080000", PassRate: 90.0, Passed: 18, TotalTests: 20})

	rec, err := loader.Load("api", "20260210-080000")
	require.NoError(t, err)
	assert.Equal(t, 90.0, rec.PassRate)
	assert.Equal(t, 18, rec.Passed)

	_, err = loader.Load("api", "20260211-080000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptIsFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs, "reports", nil)
	require.NoError(t, afero.WriteFile(fs, "reports/api/20260210-080000/metadata.json", []byte("{not json"), 0644))

	_, err := loader.Load("api", "20260210-080000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPrevious(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs, "reports", nil)
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260210-080000", PassRate: 85.0})
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260212-080000", PassRate: 90.0})
	writeRecord(t, fs, "reports", Record{Project: "api", Timestamp: "20260214-080000", PassRate: 95.0})

	prev, err := loader.Previous("api", "20260212-080000")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "20260210-080000", prev.Timestamp)

	// First run has no predecessor.
	prev, err = loader.Previous("api", "20260210-080000")
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestRecordDate(t *testing.T) {
	rec := Record{Timestamp: "20260210-080000"}
	d, err := rec.Date()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", d.Format("2006-01-02"))
	assert.Equal(t, "2026-02-10", rec.DateString())

	bad := Record{Timestamp: "bogus"}
	_, err = bad.Date()
	assert.Error(t, err)
	assert.Equal(t, "bogus", bad.DateString())
}
