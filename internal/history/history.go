package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DateLayout is the key format used in history files
const DateLayout = "2006-01-02"

var (
	// ErrCorruptData is returned by Load when a file exists but is not a JSON
	// object of strings.
	ErrCorruptData = errors.New("corrupt history data")

	// ErrWrite is returned by Save when the destination cannot be written.
	ErrWrite = errors.New("writing history")
)

// Record maps calendar dates to the text captured on that day
type Record map[string]string

// UpsertToday sets the entry for the calendar day of today, replacing any
// existing value for that day.
func (r Record) UpsertToday(today time.Time, text string) {
	r[today.Format(DateLayout)] = text
}

// Get returns the entry for the calendar day of t.
func (r Record) Get(t time.Time) (string, bool) {
	text, ok := r[t.Format(DateLayout)]
	return text, ok
}

// Dates returns the record's keys in ascending order
func (r Record) Dates() []string {
	dates := make([]string, 0, len(r))
	for d := range r {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Load reads a record from path. A missing file yields an empty record.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, path, err)
	}

	// "null" decodes without error but is not an object
	if record == nil {
		return nil, fmt.Errorf("%w: %s: top-level value is not an object", ErrCorruptData, path)
	}

	return record, nil
}

// Save writes record to path, replacing its previous contents. The data is
// written to a temporary file in the same directory and renamed into place.
func Save(record Record, path string) error {
	if record == nil {
		record = Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	data := buf.Bytes()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        // nolint:errcheck
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}

	return nil
}
