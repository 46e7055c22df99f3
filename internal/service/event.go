package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

const (
	maxEventNameLength = 255
	maxHostLength      = 255
	maxHashtagLength   = 30
	maxStationName     = 255
)

// StationResolver resolves a free-text station name to exactly one station.
// *StationService satisfies it; tests inject a stub.
type StationResolver interface {
	ResolveName(ctx context.Context, name string) (domain.TrainStation, error)
}

// SuggestionNotifier stores the outcome notification for the suggestion's
// submitter. event is nil when the suggestion was denied.
type SuggestionNotifier interface {
	SuggestionProcessed(ctx context.Context, suggestion domain.EventSuggestion, event *domain.Event) error
}

// Broadcaster delivers administrative broadcast messages. Delivery is
// fire-and-forget: implementations log failures and the workflow continues.
type Broadcaster interface {
	AdminMessage(ctx context.Context, message string) error
}

// EventService implements the event and suggestion-moderation workflow:
// direct event CRUD, and the one-way Pending → {Accepted, Denied} state
// machine for suggestions.
type EventService struct {
	events      repo.EventRepo
	suggestions repo.EventSuggestionRepo
	stations    StationResolver
	notifier    SuggestionNotifier
	broadcast   Broadcaster
}

// NewEventService constructs an EventService backed by the provided
// repos and collaborators.
func NewEventService(
	events repo.EventRepo,
	suggestions repo.EventSuggestionRepo,
	stations StationResolver,
	notifier SuggestionNotifier,
	broadcast Broadcaster,
) *EventService {
	return &EventService{
		events:      events,
		suggestions: suggestions,
		stations:    stations,
		notifier:    notifier,
		broadcast:   broadcast,
	}
}

// EventInput carries the request fields shared by event creation, event
// editing, and suggestion acceptance.
type EventInput struct {
	Name               string
	Hashtag            string
	Host               string
	URL                string
	NearestStationName string
	Begin              time.Time
	End                time.Time
}

// Create validates the input, resolves the station, and publishes a new event.
// Returns domain.ErrValidation or domain.ErrStationNotFound; both are
// user-correctable.
func (s *EventService) Create(ctx context.Context, in EventInput) (domain.Event, error) {
	if err := validateEventInput(in); err != nil {
		return domain.Event{}, err
	}

	station, err := s.stations.ResolveName(ctx, in.NearestStationName)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}

	event, err := s.events.Create(ctx, domain.Event{
		Name:      in.Name,
		Slug:      slug.Make(in.Name),
		Hashtag:   in.Hashtag,
		Host:      in.Host,
		URL:       in.URL,
		StationID: station.ID,
		Begin:     in.Begin,
		End:       in.End,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return event, nil
}

// Update validates the input, re-resolves the station, and overwrites the
// fields of an existing event. The slug stays stable so published links
// keep working. Returns domain.ErrNotFound if the event does not exist.
func (s *EventService) Update(ctx context.Context, id int64, in EventInput) (domain.Event, error) {
	if err := validateEventInput(in); err != nil {
		return domain.Event{}, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}

	station, err := s.stations.ResolveName(ctx, in.NearestStationName)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}

	event.Name = in.Name
	event.Hashtag = in.Hashtag
	event.Host = in.Host
	event.URL = in.URL
	event.StationID = station.ID
	event.Begin = in.Begin
	event.End = in.End

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an event. Returns domain.ErrNotFound if it does not exist.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// List returns one page of events plus the total count.
func (s *EventService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	events, total, err := s.events.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EventService.List: %w", err)
	}
	return events, total, nil
}

// ListSuggestions returns all pending suggestions, oldest first.
func (s *EventService) ListSuggestions(ctx context.Context) ([]domain.EventSuggestion, error) {
	suggestions, err := s.suggestions.ListUnprocessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.ListSuggestions: %w", err)
	}
	return suggestions, nil
}

// Suggest records a new event suggestion for later moderation.
func (s *EventService) Suggest(ctx context.Context, submitter domain.User, in EventInput) (domain.EventSuggestion, error) {
	if err := validateEventInput(in); err != nil {
		return domain.EventSuggestion{}, err
	}

	suggestion, err := s.suggestions.Create(ctx, domain.EventSuggestion{
		UserID:             submitter.ID,
		Name:               in.Name,
		Hashtag:            in.Hashtag,
		Host:               in.Host,
		URL:                in.URL,
		NearestStationName: in.NearestStationName,
		Begin:              in.Begin,
		End:                in.End,
	})
	if err != nil {
		return domain.EventSuggestion{}, fmt.Errorf("service.EventService.Suggest: %w", err)
	}
	return suggestion, nil
}

// AcceptSuggestion promotes a pending suggestion into a published event.
// The admin submits possibly-corrected event fields alongside the
// suggestion ID. Station resolution happens before any write, so a failed
// lookup leaves the suggestion unprocessed and creates nothing.
// Returns domain.ErrNotFound for an unknown suggestion, domain.ErrConflict
// for an already processed one.
func (s *EventService) AcceptSuggestion(ctx context.Context, admin domain.User, suggestionID int64, in EventInput) (domain.Event, error) {
	suggestion, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AcceptSuggestion: %w", err)
	}
	if suggestion.Processed {
		return domain.Event{}, fmt.Errorf("service.EventService.AcceptSuggestion: suggestion %d: %w", suggestionID, domain.ErrConflict)
	}

	event, err := s.Create(ctx, in)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AcceptSuggestion: %w", err)
	}

	if err := s.suggestions.MarkProcessed(ctx, suggestionID); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AcceptSuggestion: %w", err)
	}

	// Broadcast delivery must not fail the acceptance; the publisher logs.
	_ = s.broadcast.AdminMessage(ctx, fmt.Sprintf("%s accepted the event suggestion %q.", admin.Username, suggestion.Name))

	if err := s.notifier.SuggestionProcessed(ctx, suggestion, &event); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AcceptSuggestion: %w", err)
	}
	return event, nil
}

// DenySuggestion marks a pending suggestion processed without creating an
// event and notifies the submitter of the denial.
// Returns domain.ErrNotFound for an unknown suggestion, domain.ErrConflict
// for an already processed one.
func (s *EventService) DenySuggestion(ctx context.Context, admin domain.User, suggestionID int64) error {
	suggestion, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return fmt.Errorf("service.EventService.DenySuggestion: %w", err)
	}
	if suggestion.Processed {
		return fmt.Errorf("service.EventService.DenySuggestion: suggestion %d: %w", suggestionID, domain.ErrConflict)
	}

	if err := s.suggestions.MarkProcessed(ctx, suggestionID); err != nil {
		return fmt.Errorf("service.EventService.DenySuggestion: %w", err)
	}

	_ = s.broadcast.AdminMessage(ctx, fmt.Sprintf("%s denied the event suggestion %q.", admin.Username, suggestion.Name))

	if err := s.notifier.SuggestionProcessed(ctx, suggestion, nil); err != nil {
		return fmt.Errorf("service.EventService.DenySuggestion: %w", err)
	}
	return nil
}

func validateEventInput(in EventInput) error {
	fields := domain.FieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	} else if len(in.Name) > maxEventNameLength {
		fields["name"] = fmt.Sprintf("name must not exceed %d characters", maxEventNameLength)
	}

	if strings.TrimSpace(in.Hashtag) == "" {
		fields["hashtag"] = "hashtag is required"
	} else if len(in.Hashtag) > maxHashtagLength {
		fields["hashtag"] = fmt.Sprintf("hashtag must not exceed %d characters", maxHashtagLength)
	}

	if strings.TrimSpace(in.Host) == "" {
		fields["host"] = "host is required"
	} else if len(in.Host) > maxHostLength {
		fields["host"] = fmt.Sprintf("host must not exceed %d characters", maxHostLength)
	}

	if in.URL != "" {
		if u, err := url.Parse(in.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			fields["url"] = "url must be a valid http(s) URL"
		}
	}

	if strings.TrimSpace(in.NearestStationName) == "" {
		fields["nearest_station_name"] = "nearest station name is required"
	} else if len(in.NearestStationName) > maxStationName {
		fields["nearest_station_name"] = fmt.Sprintf("nearest station name must not exceed %d characters", maxStationName)
	}

	switch {
	case in.Begin.IsZero():
		fields["begin"] = "begin is required"
	case in.End.IsZero():
		fields["end"] = "end is required"
	case in.End.Before(in.Begin):
		fields["end"] = "end must not be before begin"
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}
