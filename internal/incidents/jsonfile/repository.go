// Package jsonfile provides a flat-file JSON implementation of the incidents repository.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/harsha499/incident-desk/internal/domain"
	"github.com/harsha499/incident-desk/internal/incidents"
	"github.com/harsha499/incident-desk/internal/pkg/metrics"
)

// Repository implements incidents.Repository backed by a single JSON document.
// Every mutation reads the whole collection, applies the change, and writes
// the whole collection back. Access within one process is serialized by a
// mutex; concurrent processes race and the last writer wins.
type Repository struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewRepository creates a repository storing incidents at path. The parent
// directory is created if missing, and an empty collection is written when
// no file exists yet.
func NewRepository(path string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	r := &Repository{path: path, logger: logger}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.save([]domain.Incident{}); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
	}

	return r, nil
}

// load reads the whole collection. A missing or corrupt file degrades to an
// empty collection rather than failing the caller.
func (r *Repository) load() []domain.Incident {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Warn("failed to read data file, treating collection as empty",
			"path", r.path, "error", err)
		return []domain.Incident{}
	}

	var collection []domain.Incident
	if err := json.Unmarshal(data, &collection); err != nil {
		r.logger.Warn("failed to parse data file, treating collection as empty",
			"path", r.path, "error", err)
		return []domain.Incident{}
	}
	return collection
}

// save writes the whole collection back. Write failure is fatal to the caller.
func (r *Repository) save(collection []domain.Incident) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal incidents: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	metrics.StorageWrites.Inc()
	metrics.StorageFileBytes.Set(float64(len(data)))
	return nil
}

// List returns all incidents in insertion order.
func (r *Repository) List(_ context.Context) ([]domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

// Get returns the incident with the given id.
func (r *Repository) Get(_ context.Context, id string) (*domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inc := range r.load() {
		if inc.ID == id {
			found := inc
			return &found, nil
		}
	}
	return nil, incidents.ErrIncidentNotFound
}

// Insert appends the incident to the collection.
func (r *Repository) Insert(_ context.Context, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := append(r.load(), *incident)
	return r.save(collection)
}

// Replace overwrites the stored incident with the given id.
func (r *Repository) Replace(_ context.Context, id string, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := r.load()
	for i, inc := range collection {
		if inc.ID == id {
			collection[i] = *incident
			return r.save(collection)
		}
	}
	return incidents.ErrIncidentNotFound
}

// Remove deletes the incident with the given id. It returns false if no
// incident existed.
func (r *Repository) Remove(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := r.load()
	filtered := make([]domain.Incident, 0, len(collection))
	for _, inc := range collection {
		if inc.ID != id {
			filtered = append(filtered, inc)
		}
	}

	if len(filtered) == len(collection) {
		return false, nil
	}

	if err := r.save(filtered); err != nil {
		return false, err
	}
	return true, nil
}
