// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/gea/studyabroad/internal/models"
	"github.com/gea/studyabroad/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serialize access through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return newWithDB(db), nil
}

func newWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateProgress inserts a new progress record.
func (s *SQLiteStore) CreateProgress(ctx context.Context, p *models.ProgressTracking) error {
	stages, err := json.Marshal(p.Stages)
	if err != nil {
		return fmt.Errorf("failed to encode stages: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM progress_tracking WHERE user_id = ?",
		p.UserID,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, p.UserID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing progress: %w", err)
	}

	now := s.now().UTC()
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress_tracking
			(id, user_id, user_name, stages, overall_progress, current_stage, last_updated,
			 is_completed, completed_at, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, p.UserID, p.UserName, string(stages), p.OverallProgress, string(p.CurrentStage),
		p.LastUpdated.UnixMilli(), p.IsCompleted, nullableMillis(p.CompletedAt),
		now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, p.UserID)
		}
		return fmt.Errorf("failed to insert progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.ID = id
	p.Version = 1
	p.CreatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	p.UpdatedAt = p.CreatedAt
	return nil
}

// GetProgress retrieves the progress record for a user.
func (s *SQLiteStore) GetProgress(ctx context.Context, userID string) (*models.ProgressTracking, error) {
	var (
		p           models.ProgressTracking
		stages      string
		stage       string
		lastUpdated int64
		completedAt sql.NullInt64
		createdAt   int64
		updatedAt   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_name, stages, overall_progress, current_stage, last_updated,
			is_completed, completed_at, version, created_at, updated_at
		FROM progress_tracking WHERE user_id = ?`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.UserName, &stages, &p.OverallProgress, &stage, &lastUpdated,
		&p.IsCompleted, &completedAt, &p.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := json.Unmarshal([]byte(stages), &p.Stages); err != nil {
		return nil, fmt.Errorf("failed to decode stages: %w", err)
	}
	p.CurrentStage = models.StageKey(stage)
	p.LastUpdated = time.UnixMilli(lastUpdated).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		p.CompletedAt = &t
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &p, nil
}

// SaveProgress replaces a progress record if its version is current.
func (s *SQLiteStore) SaveProgress(ctx context.Context, p *models.ProgressTracking) error {
	stages, err := json.Marshal(p.Stages)
	if err != nil {
		return fmt.Errorf("failed to encode stages: %w", err)
	}

	now := s.now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE progress_tracking SET
			user_name = ?, stages = ?, overall_progress = ?, current_stage = ?, last_updated = ?,
			is_completed = ?, completed_at = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND version = ?`,
		p.UserName, string(stages), p.OverallProgress, string(p.CurrentStage), p.LastUpdated.UnixMilli(),
		p.IsCompleted, nullableMillis(p.CompletedAt), now.UnixMilli(),
		p.UserID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var version int64
		err := s.db.QueryRowContext(ctx,
			"SELECT version FROM progress_tracking WHERE user_id = ?",
			p.UserID,
		).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, p.UserID)
		}
		if err != nil {
			return fmt.Errorf("failed to check progress version: %w", err)
		}
		return fmt.Errorf("%w: %s has version %d, got %d", storage.ErrConflict, p.UserID, version, p.Version)
	}

	p.Version++
	p.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return nil
}

func nullableMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
