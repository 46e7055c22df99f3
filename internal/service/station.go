package service

import (
	"context"
	"fmt"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

// LocationSource is the external station lookup the resolver depends on.
// *hafas.Client satisfies it in production.
type LocationSource interface {
	// LocationsByName returns up to limit station candidates matching the
	// query, best match first.
	LocationsByName(ctx context.Context, query string, limit int) ([]domain.TrainStation, error)
}

// StationService resolves free-text station names to concrete, persisted
// train stations via the external HAFAS lookup.
type StationService struct {
	source   LocationSource
	stations repo.StationRepo
}

// NewStationService constructs a StationService backed by the provided
// lookup source and station repo.
func NewStationService(source LocationSource, stations repo.StationRepo) *StationService {
	return &StationService{source: source, stations: stations}
}

// ResolveName resolves a station name to exactly one station, taking the
// first candidate, and upserts it locally so events can reference it by ID.
// Returns domain.ErrStationNotFound when the lookup yields no candidates —
// a soft, user-correctable failure.
func (s *StationService) ResolveName(ctx context.Context, name string) (domain.TrainStation, error) {
	candidates, err := s.source.LocationsByName(ctx, name, 1)
	if err != nil {
		return domain.TrainStation{}, fmt.Errorf("service.StationService.ResolveName: %w", err)
	}
	if len(candidates) == 0 {
		return domain.TrainStation{}, fmt.Errorf("service.StationService.ResolveName: %q: %w", name, domain.ErrStationNotFound)
	}

	station, err := s.stations.Upsert(ctx, candidates[0])
	if err != nil {
		return domain.TrainStation{}, fmt.Errorf("service.StationService.ResolveName: %w", err)
	}
	return station, nil
}
