// Package repository implements the persistence layer over gorm: the
// soft-delete entity store, tenant-scoped collection queries, ownership
// chain resolution and the transactional stock ledger.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository wraps a gorm handle. All collection reads default to the
// alive view; the full view is reserved for administrative paths.
type Repository struct {
	db *gorm.DB
}

// NewRepository connects to PostgreSQL and migrates the schema.
func NewRepository(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewWithDB wraps an already opened gorm handle. Used by tests with the
// SQLite driver.
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTransaction runs fn against a repository bound to a transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// alive restricts a query to non-deleted rows. Every default collection
// view goes through this; callers wanting deleted rows use all().
func alive(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// all returns the unrestricted view, deleted rows included.
func all(db *gorm.DB) *gorm.DB {
	return db
}

// SoftDelete marks a row deleted without removing it. Deleting an already
// deleted row is a no-op.
func (r *Repository) SoftDelete(ctx context.Context, entity any, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(entity).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.requireExists(ctx, entity, id)
	}
	return nil
}

// Restore reinstates a soft-deleted row identically to its pre-delete state.
func (r *Repository) Restore(ctx context.Context, entity any, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(entity).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]any{"is_deleted": false, "deleted_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.requireExists(ctx, entity, id)
	}
	return nil
}

// HardDelete physically removes a row. Irreversible; reachable only from
// administrative tooling, never from the default API surface.
func (r *Repository) HardDelete(ctx context.Context, entity any, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// requireExists distinguishes "absent" from "already in the target state"
// when a conditional update touched no rows.
func (r *Repository) requireExists(ctx context.Context, entity any, id uuid.UUID) error {
	var count int64
	if err := all(r.db.WithContext(ctx).Model(entity)).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return e.ErrNotFound
	}
	return nil
}

// translate maps gorm errors onto the shared sentinel taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return e.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return e.ErrProtectedReference
	default:
		return err
	}
}
