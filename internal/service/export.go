package service

import (
	"context"
	"fmt"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

// ExportService assembles a user's full flat export: one row per status,
// with the fields of the associated HAFAS trip joined in.
type ExportService struct {
	trips repo.HafasTripRepo
}

// NewExportService constructs an ExportService backed by the provided trip repo.
func NewExportService(trips repo.HafasTripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per status of the user, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context, userID int64) ([]domain.ExportRow, error) {
	rows, err := s.trips.ExportRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if rows == nil {
		return []domain.ExportRow{}, nil
	}
	return rows, nil
}
