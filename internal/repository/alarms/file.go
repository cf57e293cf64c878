package alarms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nudnik/nudnik/internal/config"
	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// Repository defines persistence operations for the alarm collection.
// The collection is always written as a whole; there are no partial writes.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Alarm, error)
	Save(ctx context.Context, alarms []*domain.Alarm) error
}

// collectionVersion is the schema version of the on-disk document.
const collectionVersion = 1

// document is the JSON envelope persisted on disk.
type document struct {
	// Version allows future schema migrations of the stored collection.
	Version int `json:"version"`
	// Alarms is the full alarm collection.
	Alarms []*domain.Alarm `json:"alarms"`
}

// ErrNotFound is returned when the alarms file does not exist yet.
var ErrNotFound = errors.New("alarm collection not found")

// errUnsupportedVersion is returned when the stored document has an unknown schema version.
var errUnsupportedVersion = errors.New("unsupported alarm collection version")

// FileRepository persists the alarm collection to a JSON file on disk.
// The whole collection is serialized as a single document on every save.
type FileRepository struct {
	// path is the filesystem location of the JSON alarms file.
	path string
	// mu protects concurrent access to the alarms file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the alarm collection from disk.
func (r *FileRepository) Load(_ context.Context) ([]*domain.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read alarms file: %w", err)
	}

	var doc document
	if err = json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode alarms file: %w", err)
	}

	if doc.Version != collectionVersion {
		return nil, fmt.Errorf("%w: %d", errUnsupportedVersion, doc.Version)
	}

	return doc.Alarms, nil
}

// Save writes the alarm collection to disk as a single JSON document.
func (r *FileRepository) Save(_ context.Context, alarms []*domain.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := document{
		Version: collectionVersion,
		Alarms:  alarms,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode alarms: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write alarms file: %w", err)
	}

	return nil
}
