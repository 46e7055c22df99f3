package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// HafasTripRepo defines the persistence operations for HAFAS trips.
// Trips are read-mostly reference data: imported once, then joined against
// check-ins and exports.
type HafasTripRepo interface {
	// Upsert inserts a trip by its HAFAS trip_id, or refreshes the timing
	// columns if it already exists, and returns the stored record.
	Upsert(ctx context.Context, trip domain.HafasTrip) (domain.HafasTrip, error)

	// GetByTripID retrieves a trip by its HAFAS identifier.
	// Returns domain.ErrNotFound if no trip with that trip_id exists.
	GetByTripID(ctx context.Context, tripID string) (domain.HafasTrip, error)

	// ExportRows returns one flat row per status of the user, newest first,
	// with trip and station fields joined in. Statuses without a check-in
	// yield zero values for all trip fields.
	ExportRows(ctx context.Context, userID int64) ([]domain.ExportRow, error)
}

// pgHafasTripRepo is the Postgres implementation of HafasTripRepo.
type pgHafasTripRepo struct {
	db db
}

// NewHafasTripRepo constructs a HafasTripRepo backed by the provided db connection.
func NewHafasTripRepo(db db) HafasTripRepo {
	return &pgHafasTripRepo{db: db}
}

func (r *pgHafasTripRepo) Upsert(ctx context.Context, trip domain.HafasTrip) (domain.HafasTrip, error) {
	const q = `
		INSERT INTO hafas_trips (trip_id, category, linename, number, journey_number,
		                         origin, destination, departure, arrival, delay)
		VALUES (@trip_id, @category, @linename, @number, @journey_number,
		        @origin, @destination, @departure, @arrival, @delay)
		ON CONFLICT (trip_id) DO UPDATE
		SET departure = EXCLUDED.departure, arrival = EXCLUDED.arrival, delay = EXCLUDED.delay
		RETURNING id, trip_id, category, linename, number, journey_number,
		          origin, destination, departure, arrival, delay, created_at`

	args := pgx.NamedArgs{
		"trip_id":        trip.TripID,
		"category":       trip.Category,
		"linename":       trip.LineName,
		"number":         trip.Number,
		"journey_number": trip.JourneyNumber,
		"origin":         trip.Origin,
		"destination":    trip.Destination,
		"departure":      trip.Departure,
		"arrival":        trip.Arrival,
		"delay":          trip.Delay,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanHafasTrip(row)
	if err != nil {
		return domain.HafasTrip{}, fmt.Errorf("repo.HafasTripRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgHafasTripRepo) GetByTripID(ctx context.Context, tripID string) (domain.HafasTrip, error) {
	const q = `
		SELECT id, trip_id, category, linename, number, journey_number,
		       origin, destination, departure, arrival, delay, created_at
		FROM hafas_trips
		WHERE trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	result, err := scanHafasTrip(row)
	if err != nil {
		return domain.HafasTrip{}, fmt.Errorf("repo.HafasTripRepo.GetByTripID: %w", err)
	}
	return result, nil
}

// ExportRows does the flattening in SQL: one LEFT JOIN chain instead of
// materializing statuses, trips, and stations separately in Go.
func (r *pgHafasTripRepo) ExportRows(ctx context.Context, userID int64) ([]domain.ExportRow, error) {
	const q = `
		SELECT s.id, s.body, s.created_at,
		       coalesce(t.category, ''), coalesce(t.linename, ''),
		       coalesce(o.name, ''), coalesce(d.name, ''),
		       t.departure, t.arrival
		FROM statuses s
		LEFT JOIN hafas_trips t ON t.trip_id = s.trip_id
		LEFT JOIN train_stations o ON o.ibnr = t.origin
		LEFT JOIN train_stations d ON d.ibnr = t.destination
		WHERE s.user_id = @user_id
		ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.HafasTripRepo.ExportRows: %w", err)
	}
	defer rows.Close()

	out := []domain.ExportRow{}
	for rows.Next() {
		var row domain.ExportRow
		err := rows.Scan(&row.StatusID, &row.StatusBody, &row.StatusCreatedAt,
			&row.TripCategory, &row.TripLineName,
			&row.Origin, &row.Destination,
			&row.Departure, &row.Arrival)
		if err != nil {
			return nil, fmt.Errorf("repo.HafasTripRepo.ExportRows: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HafasTripRepo.ExportRows: rows: %w", err)
	}
	return out, nil
}

// scanHafasTrip maps a single database row into a domain.HafasTrip.
func scanHafasTrip(s scanner) (domain.HafasTrip, error) {
	var t domain.HafasTrip
	err := s.Scan(&t.ID, &t.TripID, &t.Category, &t.LineName, &t.Number, &t.JourneyNumber,
		&t.Origin, &t.Destination, &t.Departure, &t.Arrival, &t.Delay, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HafasTrip{}, domain.ErrNotFound
		}
		return domain.HafasTrip{}, err
	}
	return t, nil
}
