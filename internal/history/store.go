package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDataDir is returned by New when the data directory cannot be created
var ErrDataDir = errors.New("creating data directory")

// Store manages the history files inside a data directory
type Store struct {
	dataDir string
}

// New creates a new Store, creating dataDir if it doesn't exist
func New(dataDir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: getting home directory: %w", ErrDataDir, err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDataDir, dataDir, err)
	}

	return &Store{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Store) Dir() string {
	return s.dataDir
}

// Path returns the full path of a history file
func (s *Store) Path(file string) string {
	return filepath.Join(s.dataDir, file)
}

// Load loads the named history file
func (s *Store) Load(file string) (Record, error) {
	return Load(s.Path(file))
}

// Save saves record to the named history file
func (s *Store) Save(file string, record Record) error {
	return Save(record, s.Path(file))
}
