// Package handler — export.go implements GET /api/v1/export.
// Returns the caller's check-in history as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/middleware"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"status_id", "status_body", "status_created_at",
	"trip_category", "trip_line_name",
	"origin", "departure", "destination", "arrival",
}

// GetExport returns every status of the caller joined with its trip and
// stations. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())

	rows, err := s.export.Export(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSVExport(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeCSVExport encodes the rows as CSV, header row included even when
// the export is empty.
func writeCSVExport(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="traewelling-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil time pointers are encoded as empty strings.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		strconv.FormatInt(r.StatusID, 10),
		r.StatusBody,
		r.StatusCreatedAt.Format(time.RFC3339),
		r.TripCategory,
		r.TripLineName,
		r.Origin,
		formatOptionalTime(r.Departure),
		r.Destination,
		formatOptionalTime(r.Arrival),
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
