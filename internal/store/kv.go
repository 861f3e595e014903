// Package store persists the menu and the order history as two named JSON
// records on top of a small key/value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diewo77/cafe-billing/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPersistence is returned when durable storage cannot be read or written.
var ErrPersistence = errors.New("persistence_failure")

// KV stores opaque text values under fixed keys.
type KV interface {
	// Get returns ok=false when nothing is stored under key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// GormKV keeps records in the "records" table of a gorm database.
type GormKV struct {
	DB *gorm.DB
}

func NewGormKV(db *gorm.DB) *GormKV { return &GormKV{DB: db} }

func (s *GormKV) Get(ctx context.Context, key string) (string, bool, error) {
	var rec models.Record
	err := s.DB.WithContext(ctx).Where(&models.Record{Key: key}).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s: %w", ErrPersistence, key, err)
	}
	return rec.Value, true, nil
}

func (s *GormKV) Put(ctx context.Context, key, value string) error {
	rec := models.Record{Key: key, Value: value}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, key, err)
	}
	return nil
}

// MemoryKV is an in-process KV for tests and for running without a database.
// Setting FailWrites makes every Put fail.
type MemoryKV struct {
	mu         sync.Mutex
	data       map[string]string
	FailWrites bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: write %s: storage unavailable", ErrPersistence, key)
	}
	m.data[key] = value
	return nil
}

// Set stores a raw value, bypassing FailWrites.
func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
