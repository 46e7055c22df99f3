package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// EventRepo defines the persistence operations for published events.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record.
	// Returns domain.ErrConflict if the slug is already taken.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event by primary key.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Event, error)

	// ListPaged returns one page of events ordered by end timestamp
	// descending, plus the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)

	// Update overwrites the mutable fields of an event and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// Delete removes an event by ID. Returns domain.ErrNotFound if it does
	// not exist. Nothing cascades: suggestions that produced the event keep
	// their processed flag.
	Delete(ctx context.Context, id int64) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (name, slug, hashtag, host, url, station_id, begin, "end")
		VALUES (@name, @slug, @hashtag, @host, @url, @station_id, @begin, @end)
		RETURNING id, name, slug, hashtag, host, url, station_id, begin, "end", created_at, updated_at`

	row := r.db.QueryRow(ctx, q, eventArgs(event))
	result, err := scanEvent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", domain.ErrConflict)
		}
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	const q = `
		SELECT id, name, slug, hashtag, host, url, station_id, begin, "end", created_at, updated_at
		FROM events
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged orders by "end" descending so upcoming and recent events come first,
// matching the admin list view.
func (r *pgEventRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	const countQ = `SELECT count(*) FROM events`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, name, slug, hashtag, host, url, station_id, begin, "end", created_at, updated_at
		FROM events
		ORDER BY "end" DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListPaged: rows: %w", err)
	}
	return events, total, nil
}

func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET name       = @name,
		    slug       = @slug,
		    hashtag    = @hashtag,
		    host       = @host,
		    url        = @url,
		    station_id = @station_id,
		    begin      = @begin,
		    "end"      = @end,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, slug, hashtag, host, url, station_id, begin, "end", created_at, updated_at`

	args := eventArgs(event)
	args["id"] = event.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEvent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", domain.ErrConflict)
		}
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM events WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// eventArgs maps the shared insert/update columns of an event.
func eventArgs(event domain.Event) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":       event.Name,
		"slug":       event.Slug,
		"hashtag":    event.Hashtag,
		"host":       event.Host,
		"url":        event.URL,
		"station_id": event.StationID,
		"begin":      event.Begin,
		"end":        event.End,
	}
}

// scanEvent maps a single database row into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var e domain.Event
	err := s.Scan(&e.ID, &e.Name, &e.Slug, &e.Hashtag, &e.Host, &e.URL,
		&e.StationID, &e.Begin, &e.End, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}
	return e, nil
}
