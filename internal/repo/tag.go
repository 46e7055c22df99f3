package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// StatusTagRepo defines the persistence operations for status tags.
// All operations are scoped by statusID; a tag is addressed by its key
// within that status.
type StatusTagRepo interface {
	// ListByStatus returns all tags of a status ordered by key.
	ListByStatus(ctx context.Context, statusID int64) ([]domain.StatusTag, error)

	// GetByKey retrieves a single tag by key within a status.
	// Returns domain.ErrNotFound if no such tag exists.
	GetByKey(ctx context.Context, statusID int64, key string) (domain.StatusTag, error)

	// Create inserts a new tag and returns the persisted record.
	// Returns domain.ErrConflict if a tag with the same key already exists
	// on the status (enforced by a unique index, closing the pre-check race).
	Create(ctx context.Context, tag domain.StatusTag) (domain.StatusTag, error)

	// Update overwrites key, value, and visibility of the tag addressed by
	// (statusID, key) and returns the updated record.
	// Returns domain.ErrNotFound if the tag does not exist and
	// domain.ErrConflict if the new key collides with another tag.
	Update(ctx context.Context, statusID int64, key string, tag domain.StatusTag) (domain.StatusTag, error)

	// Delete removes the tag addressed by (statusID, key).
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, statusID int64, key string) error
}

// pgStatusTagRepo is the Postgres implementation of StatusTagRepo.
type pgStatusTagRepo struct {
	db db
}

// NewStatusTagRepo constructs a StatusTagRepo backed by the provided db connection.
func NewStatusTagRepo(db db) StatusTagRepo {
	return &pgStatusTagRepo{db: db}
}

func (r *pgStatusTagRepo) ListByStatus(ctx context.Context, statusID int64) ([]domain.StatusTag, error) {
	const q = `
		SELECT id, status_id, key, value, visibility, created_at, updated_at
		FROM status_tags
		WHERE status_id = @status_id
		ORDER BY key`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status_id": statusID})
	if err != nil {
		return nil, fmt.Errorf("repo.StatusTagRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	tags := []domain.StatusTag{}
	for rows.Next() {
		tag, err := scanStatusTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StatusTagRepo.ListByStatus: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StatusTagRepo.ListByStatus: rows: %w", err)
	}
	return tags, nil
}

// GetByKey looks the tag up by its key within the status instead of loading
// the status's whole tag collection into memory.
func (r *pgStatusTagRepo) GetByKey(ctx context.Context, statusID int64, key string) (domain.StatusTag, error) {
	const q = `
		SELECT id, status_id, key, value, visibility, created_at, updated_at
		FROM status_tags
		WHERE status_id = @status_id AND key = @key`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"status_id": statusID, "key": key})
	result, err := scanStatusTag(row)
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("repo.StatusTagRepo.GetByKey: %w", err)
	}
	return result, nil
}

func (r *pgStatusTagRepo) Create(ctx context.Context, tag domain.StatusTag) (domain.StatusTag, error) {
	const q = `
		INSERT INTO status_tags (status_id, key, value, visibility)
		VALUES (@status_id, @key, @value, @visibility)
		RETURNING id, status_id, key, value, visibility, created_at, updated_at`

	args := pgx.NamedArgs{
		"status_id":  tag.StatusID,
		"key":        tag.Key,
		"value":      tag.Value,
		"visibility": string(tag.Visibility),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStatusTag(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.StatusTag{}, fmt.Errorf("repo.StatusTagRepo.Create: %w", domain.ErrConflict)
		}
		return domain.StatusTag{}, fmt.Errorf("repo.StatusTagRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStatusTagRepo) Update(ctx context.Context, statusID int64, key string, tag domain.StatusTag) (domain.StatusTag, error) {
	const q = `
		UPDATE status_tags
		SET key        = @new_key,
		    value      = @value,
		    visibility = @visibility,
		    updated_at = now()
		WHERE status_id = @status_id AND key = @key
		RETURNING id, status_id, key, value, visibility, created_at, updated_at`

	args := pgx.NamedArgs{
		"status_id":  statusID,
		"key":        key,
		"new_key":    tag.Key,
		"value":      tag.Value,
		"visibility": string(tag.Visibility),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStatusTag(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.StatusTag{}, fmt.Errorf("repo.StatusTagRepo.Update: %w", domain.ErrConflict)
		}
		return domain.StatusTag{}, fmt.Errorf("repo.StatusTagRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStatusTagRepo) Delete(ctx context.Context, statusID int64, key string) error {
	const q = `DELETE FROM status_tags WHERE status_id = @status_id AND key = @key`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"status_id": statusID, "key": key})
	if err != nil {
		return fmt.Errorf("repo.StatusTagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StatusTagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanStatusTag maps a single database row into a domain.StatusTag.
func scanStatusTag(s scanner) (domain.StatusTag, error) {
	var (
		t          domain.StatusTag
		visibility string
	)
	err := s.Scan(&t.ID, &t.StatusID, &t.Key, &t.Value, &visibility, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StatusTag{}, domain.ErrNotFound
		}
		return domain.StatusTag{}, err
	}
	t.Visibility = domain.Visibility(visibility)
	return t, nil
}
