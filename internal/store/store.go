// Package store persists annotations in SQLite.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Memory opens a private in-memory database
const Memory = ":memory:"

// SidecarSuffix is appended to local model paths to form the database path
const SidecarSuffix = ".gopin.db"

// Record is the persisted form of an annotation
type Record struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ModelKey  string    `gorm:"size:1024;index:idx_annotation_model"`
	X         float64
	Y         float64
	Z         float64
	Text      string    `gorm:"size:2000"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the gorm default
func (Record) TableName() string {
	return "annotations"
}

func toRecord(modelKey string, a annotation.Annotation) Record {
	return Record{
		ID:        a.ID.String(),
		ModelKey:  modelKey,
		X:         a.Anchor.X,
		Y:         a.Anchor.Y,
		Z:         a.Anchor.Z,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
	}
}

func (r Record) annotation() (annotation.Annotation, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return annotation.Annotation{}, fmt.Errorf("invalid annotation id %q: %w", r.ID, err)
	}
	return annotation.Annotation{
		ID:        id,
		Anchor:    geometry.NewVector3(r.X, r.Y, r.Z),
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}, nil
}

// DB is an open annotation database
type DB struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens or creates the database at path and migrates the schema
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	l := logging.For("store")
	l.Debug().Str("path", path).Msg("opened annotation store")
	return &DB{db: db, log: l}, nil
}

// Close releases the database
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save inserts or updates an annotation of a model
func (d *DB) Save(modelKey string, a annotation.Annotation) error {
	r := toRecord(modelKey, a)
	if err := d.db.Save(&r).Error; err != nil {
		return fmt.Errorf("failed to save annotation %s: %w", r.ID, err)
	}
	return nil
}

// Delete removes an annotation. Deleting an unknown id is not an error.
func (d *DB) Delete(id uuid.UUID) error {
	if err := d.db.Delete(&Record{}, "id = ?", id.String()).Error; err != nil {
		return fmt.Errorf("failed to delete annotation %s: %w", id, err)
	}
	return nil
}

// List returns the annotations of a model ordered by creation time
func (d *DB) List(modelKey string) ([]annotation.Annotation, error) {
	var records []Record
	err := d.db.
		Where("model_key = ?", modelKey).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}

	result := make([]annotation.Annotation, 0, len(records))
	for _, r := range records {
		a, err := r.annotation()
		if err != nil {
			d.log.Warn().Err(err).Msg("skipping corrupt record")
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

// ForModel binds the database to one model
func (d *DB) ForModel(modelKey string) *ModelStore {
	return &ModelStore{db: d, key: modelKey}
}

// ModelStore is the annotation store of one model
type ModelStore struct {
	db  *DB
	key string
}

var _ annotation.Store = (*ModelStore)(nil)

// Save persists a
func (s *ModelStore) Save(a annotation.Annotation) error {
	return s.db.Save(s.key, a)
}

// Delete removes the annotation with id
func (s *ModelStore) Delete(id uuid.UUID) error {
	return s.db.Delete(id)
}

// List returns the stored annotations of the model
func (s *ModelStore) List() ([]annotation.Annotation, error) {
	return s.db.List(s.key)
}

// Key returns the model key
func (s *ModelStore) Key() string {
	return s.key
}

// DefaultPath returns where annotations of source are stored: next to a
// local model, or in the user cache directory for remote ones.
func DefaultPath(source string, local bool) (string, error) {
	if local {
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", source, err)
		}
		return abs + SidecarSuffix, nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.New("no cache directory for remote model annotations")
	}
	dir = filepath.Join(dir, "gopin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "annotations.db"), nil
}

// ModelKey returns the key under which annotations of source are stored
func ModelKey(source string, local bool) string {
	if !local {
		return source
	}
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return source
}
