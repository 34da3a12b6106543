package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/storage"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Repository stores the master list as one JSON array on a billy filesystem.
// The array has the same shape the browser app kept in local storage, so
// exported backups can be dropped in as-is.
type Repository struct {
	fs   billy.Filesystem
	name string
}

// NewRepository creates a repository writing name inside fs.
func NewRepository(fs billy.Filesystem, name string) *Repository {
	if fs == nil {
		panic("file: filesystem must not be nil")
	}
	return &Repository{fs: fs, name: name}
}

// NewOSRepository creates a repository for a path on the local disk.
func NewOSRepository(path string) *Repository {
	return NewRepository(osfs.New(filepath.Dir(path)), filepath.Base(path))
}

// Load reads the array. A missing or empty file is an empty calendar.
// Undecodable content and invalid records wrap storage.ErrMalformed.
func (r *Repository) Load(ctx context.Context) ([]v1.Event, error) {
	data, err := util.ReadFile(r.fs, r.name)
	if errors.Is(err, os.ErrNotExist) {
		return []v1.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []v1.Event{}, nil
	}

	var events []v1.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", storage.ErrMalformed, r.name, err)
	}
	for i := range events {
		events[i].MasterID = ""
		if err := events[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d in %s: %v", storage.ErrMalformed, i, r.name, err)
		}
	}

	slog.Debug("[File] Loaded events", "file", r.name, "count", len(events))
	return events, nil
}

// Save writes the array to a temp file and renames it over the target.
func (r *Repository) Save(ctx context.Context, events []v1.Event) error {
	if events == nil {
		events = []v1.Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	dir := filepath.Dir(r.name)
	if dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp, err := r.fs.TempFile(dir, ".events-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := r.fs.Rename(tmpName, r.name); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", r.name, err)
	}

	slog.Debug("[File] Saved events", "file", r.name, "count", len(events))
	return nil
}

// Ping checks that the file is either readable metadata or absent.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.fs.Stat(r.name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", r.name, err)
	}
	return nil
}
