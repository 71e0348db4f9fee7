// Package store persists validated profiles as JSON documents on disk.
package store

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/use-agent/gfgprofile/models"
)

// Store writes profiles to a fixed path with full-overwrite semantics: any
// pre-existing file is removed before the new document is written, so stale
// and fresh data never coexist.
type Store struct {
	path string
}

// New creates a Store targeting the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the output path.
func (s *Store) Path() string {
	return s.path
}

// Write removes any stale file at the output path and writes the profile as
// 2-space-indented JSON with non-ASCII characters preserved. It must only be
// called with a profile that already passed validation.
func (s *Store) Write(p *models.Profile) error {
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Remove(s.path); err != nil {
			return models.NewPipelineError(models.ErrCodeStore, "remove stale output file", err)
		}
		slog.Debug("removed stale output file", "path", s.path)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return models.NewPipelineError(models.ErrCodeStore, "create output file", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		f.Close()
		return models.NewPipelineError(models.ErrCodeStore, "encode profile", err)
	}

	if err := f.Close(); err != nil {
		return models.NewPipelineError(models.ErrCodeStore, "close output file", err)
	}

	slog.Info("saved profile", "path", s.path)
	return nil
}
