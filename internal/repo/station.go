package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// StationRepo defines the persistence operations for train stations.
// Stations are reference data imported from HAFAS lookups; they are never
// deleted, only upserted by IBNR.
type StationRepo interface {
	// Upsert inserts a station by IBNR, or refreshes name and coordinates
	// if the IBNR already exists, and returns the stored record.
	Upsert(ctx context.Context, station domain.TrainStation) (domain.TrainStation, error)

	// GetByID retrieves a single station by primary key.
	// Returns domain.ErrNotFound if no station with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.TrainStation, error)
}

// pgStationRepo is the Postgres implementation of StationRepo.
type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by the provided db connection.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

// Upsert refreshes the mutable columns on IBNR conflict, which also forces
// the RETURNING clause to fire for existing rows.
func (r *pgStationRepo) Upsert(ctx context.Context, station domain.TrainStation) (domain.TrainStation, error) {
	const q = `
		INSERT INTO train_stations (ibnr, name, latitude, longitude)
		VALUES (@ibnr, @name, @latitude, @longitude)
		ON CONFLICT (ibnr) DO UPDATE
		SET name = EXCLUDED.name, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude
		RETURNING id, ibnr, name, latitude, longitude`

	args := pgx.NamedArgs{
		"ibnr":      station.IBNR,
		"name":      station.Name,
		"latitude":  station.Latitude,
		"longitude": station.Longitude,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStation(row)
	if err != nil {
		return domain.TrainStation{}, fmt.Errorf("repo.StationRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgStationRepo) GetByID(ctx context.Context, id int64) (domain.TrainStation, error) {
	const q = `
		SELECT id, ibnr, name, latitude, longitude
		FROM train_stations
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanStation(row)
	if err != nil {
		return domain.TrainStation{}, fmt.Errorf("repo.StationRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanStation maps a single database row into a domain.TrainStation.
func scanStation(s scanner) (domain.TrainStation, error) {
	var st domain.TrainStation
	err := s.Scan(&st.ID, &st.IBNR, &st.Name, &st.Latitude, &st.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrainStation{}, domain.ErrNotFound
		}
		return domain.TrainStation{}, err
	}
	return st, nil
}
