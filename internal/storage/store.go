// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/gea/studyabroad/internal/models"
)

var (
	// ErrNotFound is returned when no progress record exists for a user.
	ErrNotFound = errors.New("progress not found")

	// ErrAlreadyExists is returned when creating a record for a user that
	// already has one.
	ErrAlreadyExists = errors.New("progress already exists")

	// ErrConflict is returned when a save carries a stale version.
	ErrConflict = errors.New("progress was modified concurrently")
)

// Store defines the interface for progress storage operations.
// Backends (SQLite, Redis) are interchangeable behind it.
type Store interface {
	// CreateProgress persists a new record. ID, Version, CreatedAt and
	// UpdatedAt are assigned by the store.
	// Returns ErrAlreadyExists if the user already has a record.
	CreateProgress(ctx context.Context, p *models.ProgressTracking) error

	// GetProgress retrieves the record for userID.
	// Returns ErrNotFound if there is none.
	GetProgress(ctx context.Context, userID string) (*models.ProgressTracking, error)

	// SaveProgress replaces the stored record with p. p.Version must match
	// the stored version; on success it is incremented and UpdatedAt is set.
	// Returns ErrNotFound or ErrConflict.
	SaveProgress(ctx context.Context, p *models.ProgressTracking) error

	// Close releases any resources held by the store.
	Close() error
}
