package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a project's report directory or a specific
// run's metadata file does not exist.
var ErrNotFound = errors.New("not found")

const metadataFile = "metadata.json"

// Loader enumerates and parses metadata records for a project.
type Loader struct {
	fs   afero.Fs
	root string
	log  *zap.Logger
}

// NewLoader creates a Loader rooted at the given reports directory.
func NewLoader(fs afero.Fs, root string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fs: fs, root: root, log: log}
}

// LoadAll returns every parseable record for a project, sorted ascending by
// timestamp. Run directories with a missing or malformed metadata.json are
// skipped, not fatal; each skip is logged.
func (l *Loader) LoadAll(project string) ([]Record, error) {
	dir := filepath.Join(l.root, project)
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("project reports %s: %w", dir, ErrNotFound)
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rec, err := l.read(filepath.Join(dir, e.Name(), metadataFile))
		if err != nil {
			l.log.Warn("skipping unreadable report",
				zap.String("project", project),
				zap.String("run", e.Name()),
				zap.Error(err))
			continue
		}
		if rec.Project == "" {
			rec.Project = project
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
	return records, nil
}

// Load returns the record for one specific run timestamp. A missing file is
// ErrNotFound; a file that exists but does not parse is a hard error too,
// since this run was explicitly requested.
func (l *Loader) Load(project, timestamp string) (*Record, error) {
	path := filepath.Join(l.root, project, timestamp, metadataFile)
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("metadata for %s/%s: %w", project, timestamp, ErrNotFound)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if rec.Project == "" {
		rec.Project = project
	}
	return &rec, nil
}

// Previous returns the record immediately preceding the given timestamp, or
// nil when the run is the first one recorded for the project.
func (l *Loader) Previous(project, timestamp string) (*Record, error) {
	records, err := l.LoadAll(project)
	if err != nil {
		return nil, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Timestamp < timestamp {
			return &records[i], nil
		}
	}
	return nil, nil
}

func (l *Loader) read(path string) (Record, error) {
	var rec Record
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, nil
}
