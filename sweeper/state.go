package sweeper

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/branchtools/sweep/errors"
)

// Store persists scan results between the scan and purge runs as a JSON
// file keyed by repository.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the state file. A missing file is an empty state.
func (s *Store) Load() (map[string][]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string][]Record), nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeStateInvalid, "read state file").
			WithDetail("path", s.path)
	}

	state := make(map[string][]Record)
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStateInvalid, "parse state file").
			WithDetail("path", s.path)
	}
	return state, nil
}

// Get returns the stored records for a repository.
func (s *Store) Get(repository string) ([]Record, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}
	records, ok := state[repository]
	if !ok {
		return nil, errors.New(errors.ErrCodeStateNotFound, "no scan state for repository '"+repository+"'").
			WithDetail("repository", repository)
	}
	return records, nil
}

// Set replaces the stored records for a repository.
func (s *Store) Set(repository string, records []Record) error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	state[repository] = records
	return s.save(state)
}

// Delete drops a repository's records, typically after a purge consumed them.
func (s *Store) Delete(repository string) error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	delete(state, repository)
	return s.save(state)
}

func (s *Store) save(state map[string][]Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create state directory").
			WithDetail("dir", dir)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "marshal state")
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "write state file").
			WithDetail("path", s.path)
	}
	return nil
}
