// Package repo contains all database access logic for the Träwelling API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ChillLP/traewelling/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// StatusRepo defines the persistence operations for check-in statuses.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type StatusRepo interface {
	// Create inserts a new status and returns the persisted record.
	Create(ctx context.Context, status domain.Status) (domain.Status, error)

	// GetByID retrieves a single status by primary key.
	// Returns domain.ErrNotFound if no status with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Status, error)

	// ListByUser returns all statuses of a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Status, error)
}

// pgStatusRepo is the Postgres implementation of StatusRepo.
type pgStatusRepo struct {
	db db
}

// NewStatusRepo constructs a StatusRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStatusRepo(db db) StatusRepo {
	return &pgStatusRepo{db: db}
}

func (r *pgStatusRepo) Create(ctx context.Context, status domain.Status) (domain.Status, error) {
	const q = `
		INSERT INTO statuses (user_id, body, trip_id)
		VALUES (@user_id, @body, @trip_id)
		RETURNING id, user_id, body, trip_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"user_id": status.UserID,
		"body":    status.Body,
		"trip_id": status.TripID, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStatus(row)
	if err != nil {
		return domain.Status{}, fmt.Errorf("repo.StatusRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStatusRepo) GetByID(ctx context.Context, id int64) (domain.Status, error) {
	const q = `
		SELECT id, user_id, body, trip_id, created_at, updated_at
		FROM statuses
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanStatus(row)
	if err != nil {
		return domain.Status{}, fmt.Errorf("repo.StatusRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStatusRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Status, error) {
	const q = `
		SELECT id, user_id, body, trip_id, created_at, updated_at
		FROM statuses
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.StatusRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var statuses []domain.Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StatusRepo.ListByUser: scan: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StatusRepo.ListByUser: rows: %w", err)
	}
	return statuses, nil
}

// scanStatus maps a single database row into a domain.Status.
func scanStatus(s scanner) (domain.Status, error) {
	var st domain.Status
	err := s.Scan(&st.ID, &st.UserID, &st.Body, &st.TripID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Status{}, domain.ErrNotFound
		}
		return domain.Status{}, err
	}
	return st, nil
}
