package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suitekeep/concert-updater/internal/concert"
)

// ErrMalformed is returned when the dataset file is not a valid dataset.
var ErrMalformed = errors.New("malformed dataset")

// Storage reads and writes the dataset file.
type Storage struct {
	path string
}

// New creates a Storage for the file at path.
func New(path string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &Storage{
		path: path,
	}, nil
}

// Path returns the dataset file location.
func (s *Storage) Path() string {
	return s.path
}

// Load reads the dataset. A missing file is an error: the job only ever
// extends an existing dataset.
func (s *Storage) Load() (*concert.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var ds concert.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	if err := validate(&ds); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	if ds.Concerts == nil {
		ds.Concerts = make([]concert.Concert, 0)
	}

	return &ds, nil
}

// validate checks the invariants a merge relies on.
func validate(ds *concert.Dataset) error {
	seen := make(map[int]bool, len(ds.Concerts))
	for i, c := range ds.Concerts {
		if seen[c.ID] {
			return fmt.Errorf("duplicate concert id %d at index %d", c.ID, i)
		}
		seen[c.ID] = true
	}
	return nil
}

// Encode renders the dataset as it is stored: two-space indentation, HTML
// characters left unescaped and a trailing newline.
func Encode(ds *concert.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Save replaces the dataset file with ds.
func (s *Storage) Save(ds *concert.Dataset) error {
	data, err := Encode(ds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}

	return nil
}
