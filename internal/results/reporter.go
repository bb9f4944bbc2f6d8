package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/example/court-booker/internal/booking"
)

// Record is the per-day result document the dashboard consumes. One file per
// run date plus a "latest" alias of the same content.
type Record struct {
	Date      string          `json:"date"`      // target date, YYYY-MM-DD
	Timestamp string          `json:"timestamp"` // run start, RFC3339
	Results   map[string]bool `json:"results"`   // account label -> success
}

const latestAlias = "latest.json"

// Reporter writes run records into a directory.
type Reporter struct{ dir string }

func NewReporter(dir string) *Reporter { return &Reporter{dir: dir} }

// Write serializes the run as <date>.json and refreshes the latest alias.
// Returns the dated record's path.
func (r *Reporter) Write(result booking.RunResult) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "results dir")
	}

	rec := Record{
		Date:      result.Date.Format("2006-01-02"),
		Timestamp: result.StartedAt.Format(time.RFC3339),
		Results:   make(map[string]bool, len(result.Outcomes)),
	}
	for label, o := range result.Outcomes {
		rec.Results[label] = o.Success
	}

	jb, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	jb = append(jb, '\n')

	path := filepath.Join(r.dir, rec.Date+".json")
	if err := os.WriteFile(path, jb, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(r.dir, latestAlias), jb, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadLatest loads the latest-run alias.
func (r *Reporter) ReadLatest() (Record, error) {
	b, err := os.ReadFile(filepath.Join(r.dir, latestAlias))
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, errors.Wrap(err, "parse latest record")
	}
	return rec, nil
}
