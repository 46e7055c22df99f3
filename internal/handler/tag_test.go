package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/service"
)

func tagFixture() domain.StatusTag {
	return domain.StatusTag{
		StatusID:   1337,
		Key:        "seat",
		Value:      "12A",
		Visibility: domain.VisibilityPublic,
	}
}

// ---- GET /api/v1/statuses/{statusId}/tags ----------------------------------

func TestListTags_200_Anonymous(t *testing.T) {
	svc := &mockTagServicer{
		listForUser: func(_ context.Context, statusID int64, viewer *domain.User) ([]domain.StatusTag, error) {
			assert.Equal(t, int64(1337), statusID)
			assert.Nil(t, viewer, "no token means anonymous viewer")
			return []domain.StatusTag{tagFixture()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statuses/1337/tags", nil)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []domain.StatusTag `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "seat", body.Data[0].Key)
}

func TestListTags_200_Authenticated(t *testing.T) {
	svc := &mockTagServicer{
		listForUser: func(_ context.Context, _ int64, viewer *domain.User) ([]domain.StatusTag, error) {
			require.NotNil(t, viewer)
			assert.Equal(t, int64(1), viewer.ID)
			return []domain.StatusTag{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statuses/1337/tags", nil)
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTags_404_UnknownStatus(t *testing.T) {
	svc := &mockTagServicer{
		listForUser: func(_ context.Context, _ int64, _ *domain.User) ([]domain.StatusTag, error) {
			return nil, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statuses/404/tags", nil)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "status not found")
}

func TestListTags_400_BadStatusID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statuses/abc/tags", nil)
	rec := do(newAPIHandler(&mockTagServicer{}, nil, nil, nil), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /api/v1/statuses/{statusId}/tags ---------------------------------

func TestCreateTag_200(t *testing.T) {
	svc := &mockTagServicer{
		create: func(_ context.Context, statusID int64, actor domain.User, in service.CreateTagInput) (domain.StatusTag, error) {
			assert.Equal(t, int64(1337), statusID)
			assert.Equal(t, int64(1), actor.ID)
			assert.Equal(t, "seat", in.Key)
			return tagFixture(), nil
		},
	}

	body := `{"key":"seat","value":"12A","visibility":"public"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(body))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTag_401_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(`{}`))
	rec := do(newAPIHandler(&mockTagServicer{}, nil, nil, nil), req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTag_400_Validation(t *testing.T) {
	svc := &mockTagServicer{
		create: func(_ context.Context, _ int64, _ domain.User, _ service.CreateTagInput) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.FieldErrors{"visibility": "visibility must be one of public, unlisted, followers, private"}
		},
	}

	body := `{"key":"seat","value":"12A","visibility":"loud"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(body))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
	assert.Contains(t, rec.Body.String(), "visibility")
}

func TestCreateTag_400_DuplicateKey(t *testing.T) {
	svc := &mockTagServicer{
		create: func(_ context.Context, _ int64, _ domain.User, _ service.CreateTagInput) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.ErrConflict
		},
	}

	body := `{"key":"seat","value":"12A","visibility":"public"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(body))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_exists")
}

func TestCreateTag_403_Forbidden(t *testing.T) {
	svc := &mockTagServicer{
		create: func(_ context.Context, _ int64, _ domain.User, _ service.CreateTagInput) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.ErrForbidden
		},
	}

	body := `{"key":"seat","value":"12A","visibility":"public"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(body))
	asUser(t, req, 2)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTag_400_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statuses/1337/tags", strings.NewReader(`{not json`))
	asUser(t, req, 1)
	rec := do(newAPIHandler(&mockTagServicer{}, nil, nil, nil), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PUT /api/v1/statuses/{statusId}/tags/{tagKey} -------------------------

func TestUpdateTag_200(t *testing.T) {
	svc := &mockTagServicer{
		update: func(_ context.Context, statusID int64, key string, actor domain.User, in service.UpdateTagInput) (domain.StatusTag, error) {
			assert.Equal(t, int64(1337), statusID)
			assert.Equal(t, "seat", key)
			assert.Equal(t, "14C", in.Value)
			assert.Nil(t, in.Key)
			tag := tagFixture()
			tag.Value = in.Value
			return tag, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/statuses/1337/tags/seat", strings.NewReader(`{"value":"14C"}`))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "14C")
}

func TestUpdateTag_200_Rename(t *testing.T) {
	svc := &mockTagServicer{
		update: func(_ context.Context, _ int64, key string, _ domain.User, in service.UpdateTagInput) (domain.StatusTag, error) {
			assert.Equal(t, "seat", key)
			require.NotNil(t, in.Key)
			assert.Equal(t, "platz", *in.Key)
			return tagFixture(), nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/statuses/1337/tags/seat", strings.NewReader(`{"key":"platz","value":"12A"}`))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTag_404_UnknownTag(t *testing.T) {
	svc := &mockTagServicer{
		update: func(_ context.Context, _ int64, _ string, _ domain.User, _ service.UpdateTagInput) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/statuses/1337/tags/ghost", strings.NewReader(`{"value":"x"}`))
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "tag not found")
}

// ---- DELETE /api/v1/statuses/{statusId}/tags/{tagKey} ----------------------

func TestDeleteTag_204(t *testing.T) {
	svc := &mockTagServicer{
		delete: func(_ context.Context, statusID int64, key string, actor domain.User) error {
			assert.Equal(t, int64(1337), statusID)
			assert.Equal(t, "seat", key)
			assert.Equal(t, int64(1), actor.ID)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/statuses/1337/tags/seat", nil)
	asUser(t, req, 1)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTag_403_NonOwner(t *testing.T) {
	svc := &mockTagServicer{
		delete: func(_ context.Context, _ int64, _ string, _ domain.User) error {
			return domain.ErrForbidden
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/statuses/1337/tags/seat", nil)
	asUser(t, req, 2)
	rec := do(newAPIHandler(svc, nil, nil, nil), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteTag_401_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/statuses/1337/tags/seat", nil)
	rec := do(newAPIHandler(&mockTagServicer{}, nil, nil, nil), req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
