package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// EventSuggestionRepo defines the persistence operations for event suggestions.
type EventSuggestionRepo interface {
	// Create inserts a new, unprocessed suggestion and returns the persisted record.
	Create(ctx context.Context, s domain.EventSuggestion) (domain.EventSuggestion, error)

	// GetByID retrieves a single suggestion by primary key.
	// Returns domain.ErrNotFound if no suggestion with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.EventSuggestion, error)

	// ListUnprocessed returns all pending suggestions, oldest first.
	ListUnprocessed(ctx context.Context) ([]domain.EventSuggestion, error)

	// MarkProcessed flips the processed flag of an unprocessed suggestion.
	// Returns domain.ErrNotFound if the suggestion does not exist and
	// domain.ErrConflict if it has already been processed — the transition
	// is one-way and happens exactly once.
	MarkProcessed(ctx context.Context, id int64) error
}

// pgEventSuggestionRepo is the Postgres implementation of EventSuggestionRepo.
type pgEventSuggestionRepo struct {
	db db
}

// NewEventSuggestionRepo constructs an EventSuggestionRepo backed by the
// provided db connection.
func NewEventSuggestionRepo(db db) EventSuggestionRepo {
	return &pgEventSuggestionRepo{db: db}
}

func (r *pgEventSuggestionRepo) Create(ctx context.Context, s domain.EventSuggestion) (domain.EventSuggestion, error) {
	const q = `
		INSERT INTO event_suggestions (user_id, name, hashtag, host, url, nearest_station_name, begin, "end")
		VALUES (@user_id, @name, @hashtag, @host, @url, @nearest_station_name, @begin, @end)
		RETURNING id, user_id, name, hashtag, host, url, nearest_station_name, begin, "end", processed, created_at`

	args := pgx.NamedArgs{
		"user_id":              s.UserID,
		"name":                 s.Name,
		"hashtag":              s.Hashtag,
		"host":                 s.Host,
		"url":                  s.URL,
		"nearest_station_name": s.NearestStationName,
		"begin":                s.Begin,
		"end":                  s.End,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEventSuggestion(row)
	if err != nil {
		return domain.EventSuggestion{}, fmt.Errorf("repo.EventSuggestionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventSuggestionRepo) GetByID(ctx context.Context, id int64) (domain.EventSuggestion, error) {
	const q = `
		SELECT id, user_id, name, hashtag, host, url, nearest_station_name, begin, "end", processed, created_at
		FROM event_suggestions
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEventSuggestion(row)
	if err != nil {
		return domain.EventSuggestion{}, fmt.Errorf("repo.EventSuggestionRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEventSuggestionRepo) ListUnprocessed(ctx context.Context) ([]domain.EventSuggestion, error) {
	const q = `
		SELECT id, user_id, name, hashtag, host, url, nearest_station_name, begin, "end", processed, created_at
		FROM event_suggestions
		WHERE processed = false
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.EventSuggestionRepo.ListUnprocessed: %w", err)
	}
	defer rows.Close()

	suggestions := []domain.EventSuggestion{}
	for rows.Next() {
		s, err := scanEventSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventSuggestionRepo.ListUnprocessed: scan: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventSuggestionRepo.ListUnprocessed: rows: %w", err)
	}
	return suggestions, nil
}

// MarkProcessed guards the WHERE clause with processed = false so a second
// call cannot silently succeed; it distinguishes "gone" from "already done"
// with a follow-up existence check.
func (r *pgEventSuggestionRepo) MarkProcessed(ctx context.Context, id int64) error {
	const q = `
		UPDATE event_suggestions
		SET processed = true
		WHERE id = @id AND processed = false`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventSuggestionRepo.MarkProcessed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return fmt.Errorf("repo.EventSuggestionRepo.MarkProcessed: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.EventSuggestionRepo.MarkProcessed: %w", domain.ErrConflict)
	}
	return nil
}

// scanEventSuggestion maps a single database row into a domain.EventSuggestion.
func scanEventSuggestion(sc scanner) (domain.EventSuggestion, error) {
	var s domain.EventSuggestion
	err := sc.Scan(&s.ID, &s.UserID, &s.Name, &s.Hashtag, &s.Host, &s.URL,
		&s.NearestStationName, &s.Begin, &s.End, &s.Processed, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventSuggestion{}, domain.ErrNotFound
		}
		return domain.EventSuggestion{}, err
	}
	return s, nil
}
