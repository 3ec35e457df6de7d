package migration

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"equipos-backend/internal/logger"
)

// Plan actions.
const (
	ActionSet     = "set"
	ActionUpdate  = "update"
	ActionSkip    = "skip"
	ActionPending = "pending"
)

// Entry is one planned or committed change.
type Entry struct {
	Collection string
	ID         string
	Action     string
	Values     map[string]string
}

// Plan is the outcome of a job run. In plan mode Writes and Batches stay
// empty; Entries always lists what the job decided.
type Plan struct {
	RunID   string
	Job     string
	Commit  bool
	Entries []Entry
	Writes  int
	Batches []int

	// PlanFile and ResultFile are the exported CSV paths, when written.
	PlanFile   string
	ResultFile string
}

func (p *Plan) add(e Entry) {
	p.Entries = append(p.Entries, e)
}

// Count returns the number of entries with the given action.
func (p *Plan) Count(action string) int {
	n := 0
	for _, e := range p.Entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

// PlanWriter exports plan entries. kind is "plan" or "result".
type PlanWriter interface {
	Write(kind, job string, entries []Entry) (string, error)
}

// CSVPlanWriter writes <kind>_<job>_<timestamp>.csv files under Dir.
type CSVPlanWriter struct {
	Dir string
	now func() time.Time
}

func NewCSVPlanWriter(dir string) *CSVPlanWriter {
	return &CSVPlanWriter{Dir: dir, now: time.Now}
}

func (w *CSVPlanWriter) Write(kind, job string, entries []Entry) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plan directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.csv", kind, job, w.now().Format("20060102_150405"))
	path := filepath.Join(w.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	keys := valueKeys(entries)
	cw := csv.NewWriter(f)
	header := append([]string{"collection", "id", "action"}, keys...)
	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, e := range entries {
		row := []string{e.Collection, e.ID, e.Action}
		for _, k := range keys {
			row = append(row, e.Values[k])
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("Plan exported", "kind", kind, "job", job, "entries", len(entries), "path", path)
	return path, nil
}

func valueKeys(entries []Entry) []string {
	seen := map[string]bool{}
	var keys []string
	for _, e := range entries {
		for k := range e.Values {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
