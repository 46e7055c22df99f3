package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/handler"
	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/service"
)

const testSecret = "handler-test-secret"

// Well-known fixture users the test authenticator resolves tokens to.
var fixtureUsers = map[int64]domain.User{
	1:  {ID: 1, Username: "gertrud", Role: domain.RoleUser},
	2:  {ID: 2, Username: "kurt", Role: domain.RoleUser},
	99: {ID: 99, Username: "mod", Role: domain.RoleAdmin},
}

// ---- mock servicers ---------------------------------------------------------

type mockTagServicer struct {
	listForUser func(ctx context.Context, statusID int64, viewer *domain.User) ([]domain.StatusTag, error)
	create      func(ctx context.Context, statusID int64, actor domain.User, in service.CreateTagInput) (domain.StatusTag, error)
	update      func(ctx context.Context, statusID int64, key string, actor domain.User, in service.UpdateTagInput) (domain.StatusTag, error)
	delete      func(ctx context.Context, statusID int64, key string, actor domain.User) error
}

func (m *mockTagServicer) ListForUser(ctx context.Context, statusID int64, viewer *domain.User) ([]domain.StatusTag, error) {
	return m.listForUser(ctx, statusID, viewer)
}
func (m *mockTagServicer) Create(ctx context.Context, statusID int64, actor domain.User, in service.CreateTagInput) (domain.StatusTag, error) {
	return m.create(ctx, statusID, actor, in)
}
func (m *mockTagServicer) Update(ctx context.Context, statusID int64, key string, actor domain.User, in service.UpdateTagInput) (domain.StatusTag, error) {
	return m.update(ctx, statusID, key, actor, in)
}
func (m *mockTagServicer) Delete(ctx context.Context, statusID int64, key string, actor domain.User) error {
	return m.delete(ctx, statusID, key, actor)
}

// compile-time check: mockTagServicer must satisfy handler.TagServicer.
var _ handler.TagServicer = (*mockTagServicer)(nil)

type mockEventServicer struct {
	create           func(ctx context.Context, in service.EventInput) (domain.Event, error)
	update           func(ctx context.Context, id int64, in service.EventInput) (domain.Event, error)
	delete           func(ctx context.Context, id int64) error
	list             func(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
	listSuggestions  func(ctx context.Context) ([]domain.EventSuggestion, error)
	suggest          func(ctx context.Context, submitter domain.User, in service.EventInput) (domain.EventSuggestion, error)
	acceptSuggestion func(ctx context.Context, admin domain.User, suggestionID int64, in service.EventInput) (domain.Event, error)
	denySuggestion   func(ctx context.Context, admin domain.User, suggestionID int64) error
}

func (m *mockEventServicer) Create(ctx context.Context, in service.EventInput) (domain.Event, error) {
	return m.create(ctx, in)
}
func (m *mockEventServicer) Update(ctx context.Context, id int64, in service.EventInput) (domain.Event, error) {
	return m.update(ctx, id, in)
}
func (m *mockEventServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockEventServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error) {
	return m.list(ctx, p)
}
func (m *mockEventServicer) ListSuggestions(ctx context.Context) ([]domain.EventSuggestion, error) {
	return m.listSuggestions(ctx)
}
func (m *mockEventServicer) Suggest(ctx context.Context, submitter domain.User, in service.EventInput) (domain.EventSuggestion, error) {
	return m.suggest(ctx, submitter, in)
}
func (m *mockEventServicer) AcceptSuggestion(ctx context.Context, admin domain.User, suggestionID int64, in service.EventInput) (domain.Event, error) {
	return m.acceptSuggestion(ctx, admin, suggestionID, in)
}
func (m *mockEventServicer) DenySuggestion(ctx context.Context, admin domain.User, suggestionID int64) error {
	return m.denySuggestion(ctx, admin, suggestionID)
}

// compile-time check: mockEventServicer must satisfy handler.EventServicer.
var _ handler.EventServicer = (*mockEventServicer)(nil)

type mockNotificationServicer struct {
	list     func(ctx context.Context, userID int64, p domain.PaginationParams) ([]service.RenderedNotification, int64, error)
	markRead func(ctx context.Context, userID int64, id uuid.UUID, read bool) error
}

func (m *mockNotificationServicer) List(ctx context.Context, userID int64, p domain.PaginationParams) ([]service.RenderedNotification, int64, error) {
	return m.list(ctx, userID, p)
}
func (m *mockNotificationServicer) MarkRead(ctx context.Context, userID int64, id uuid.UUID, read bool) error {
	return m.markRead(ctx, userID, id, read)
}

// compile-time check: mockNotificationServicer must satisfy handler.NotificationServicer.
var _ handler.NotificationServicer = (*mockNotificationServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context, userID int64) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID int64) ([]domain.ExportRow, error) {
	return m.export(ctx, userID)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

type fixtureUserSource struct{}

func (fixtureUserSource) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := fixtureUsers[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// newAPIHandler wires a Server behind the real router and authenticator.
// Pass nil for mocks that the test does not use.
func newAPIHandler(tags handler.TagServicer, events handler.EventServicer, notifications handler.NotificationServicer, export handler.ExportServicer) http.Handler {
	srv := handler.NewServer(tags, events, notifications, export)
	auth := middleware.NewAuthenticator(testSecret, fixtureUserSource{})
	return srv.Routes(auth)
}

// asUser signs a bearer token for one of the fixture users.
func asUser(t *testing.T, req *http.Request, userID int64) {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+signed)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
