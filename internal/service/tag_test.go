package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
	"github.com/ChillLP/traewelling/internal/service"
)

// ---- mock StatusRepo -------------------------------------------------------

type mockStatusRepo struct {
	create     func(ctx context.Context, status domain.Status) (domain.Status, error)
	getByID    func(ctx context.Context, id int64) (domain.Status, error)
	listByUser func(ctx context.Context, userID int64) ([]domain.Status, error)
}

func (m *mockStatusRepo) Create(ctx context.Context, status domain.Status) (domain.Status, error) {
	return m.create(ctx, status)
}
func (m *mockStatusRepo) GetByID(ctx context.Context, id int64) (domain.Status, error) {
	return m.getByID(ctx, id)
}
func (m *mockStatusRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Status, error) {
	return m.listByUser(ctx, userID)
}

// compile-time check
var _ repo.StatusRepo = (*mockStatusRepo)(nil)

// ---- mock StatusTagRepo ----------------------------------------------------

type mockStatusTagRepo struct {
	listByStatus func(ctx context.Context, statusID int64) ([]domain.StatusTag, error)
	getByKey     func(ctx context.Context, statusID int64, key string) (domain.StatusTag, error)
	create       func(ctx context.Context, tag domain.StatusTag) (domain.StatusTag, error)
	update       func(ctx context.Context, statusID int64, key string, tag domain.StatusTag) (domain.StatusTag, error)
	delete       func(ctx context.Context, statusID int64, key string) error
}

func (m *mockStatusTagRepo) ListByStatus(ctx context.Context, statusID int64) ([]domain.StatusTag, error) {
	return m.listByStatus(ctx, statusID)
}
func (m *mockStatusTagRepo) GetByKey(ctx context.Context, statusID int64, key string) (domain.StatusTag, error) {
	return m.getByKey(ctx, statusID, key)
}
func (m *mockStatusTagRepo) Create(ctx context.Context, tag domain.StatusTag) (domain.StatusTag, error) {
	return m.create(ctx, tag)
}
func (m *mockStatusTagRepo) Update(ctx context.Context, statusID int64, key string, tag domain.StatusTag) (domain.StatusTag, error) {
	return m.update(ctx, statusID, key, tag)
}
func (m *mockStatusTagRepo) Delete(ctx context.Context, statusID int64, key string) error {
	return m.delete(ctx, statusID, key)
}

// compile-time check
var _ repo.StatusTagRepo = (*mockStatusTagRepo)(nil)

// ---- mock UserRepo ---------------------------------------------------------

type mockUserRepo struct {
	create      func(ctx context.Context, user domain.User) (domain.User, error)
	getByID     func(ctx context.Context, id int64) (domain.User, error)
	follow      func(ctx context.Context, followerID, followeeID int64) error
	isFollowing func(ctx context.Context, followerID, followeeID int64) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) Follow(ctx context.Context, followerID, followeeID int64) error {
	return m.follow(ctx, followerID, followeeID)
}
func (m *mockUserRepo) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return m.isFollowing(ctx, followerID, followeeID)
}

// compile-time check
var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- fixtures --------------------------------------------------------------

const (
	ownerID    = int64(1)
	strangerID = int64(2)
)

func statusFixture() domain.Status {
	return domain.Status{ID: 1337, UserID: ownerID, Body: "on my way to Hamburg"}
}

func ownerUser() domain.User {
	return domain.User{ID: ownerID, Username: "gertrud", Role: domain.RoleUser}
}

func strangerUser() domain.User {
	return domain.User{ID: strangerID, Username: "kurt", Role: domain.RoleUser}
}

func adminUser() domain.User {
	return domain.User{ID: 99, Username: "mod", Role: domain.RoleAdmin}
}

func newTagService(statuses *mockStatusRepo, tags *mockStatusTagRepo, users *mockUserRepo) *service.TagService {
	if users == nil {
		users = &mockUserRepo{}
	}
	return service.NewTagService(statuses, tags, users, service.OwnerPolicy{})
}

// ---- ListForUser -----------------------------------------------------------

func TestTagService_ListForUser_StatusNotFound(t *testing.T) {
	svc := newTagService(&mockStatusRepo{
		getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return domain.Status{}, domain.ErrNotFound
		},
	}, &mockStatusTagRepo{}, nil)

	_, err := svc.ListForUser(context.Background(), 404, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagService_ListForUser_AnonymousSeesOnlyPublic(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{listByStatus: func(_ context.Context, _ int64) ([]domain.StatusTag, error) {
			return []domain.StatusTag{
				{Key: "seat", Visibility: domain.VisibilityPublic},
				{Key: "wagon", Visibility: domain.VisibilityUnlisted},
				{Key: "mood", Visibility: domain.VisibilityFollowers},
				{Key: "price", Visibility: domain.VisibilityPrivate},
			}, nil
		}},
		nil,
	)

	tags, err := svc.ListForUser(context.Background(), 1337, nil)

	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "seat", tags[0].Key)
}

func TestTagService_ListForUser_OwnerSeesEverything(t *testing.T) {
	owner := ownerUser()
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{listByStatus: func(_ context.Context, _ int64) ([]domain.StatusTag, error) {
			return []domain.StatusTag{
				{Key: "seat", Visibility: domain.VisibilityPublic},
				{Key: "price", Visibility: domain.VisibilityPrivate},
			}, nil
		}},
		nil,
	)

	tags, err := svc.ListForUser(context.Background(), 1337, &owner)

	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestTagService_ListForUser_FollowerSeesFollowersTags(t *testing.T) {
	viewer := strangerUser()
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{listByStatus: func(_ context.Context, _ int64) ([]domain.StatusTag, error) {
			return []domain.StatusTag{
				{Key: "mood", Visibility: domain.VisibilityFollowers},
				{Key: "price", Visibility: domain.VisibilityPrivate},
			}, nil
		}},
		&mockUserRepo{isFollowing: func(_ context.Context, followerID, followeeID int64) (bool, error) {
			assert.Equal(t, strangerID, followerID)
			assert.Equal(t, ownerID, followeeID)
			return true, nil
		}},
	)

	tags, err := svc.ListForUser(context.Background(), 1337, &viewer)

	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "mood", tags[0].Key)
}

func TestTagService_ListForUser_NonFollowerSeesUnlistedButNotFollowers(t *testing.T) {
	viewer := strangerUser()
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{listByStatus: func(_ context.Context, _ int64) ([]domain.StatusTag, error) {
			return []domain.StatusTag{
				{Key: "wagon", Visibility: domain.VisibilityUnlisted},
				{Key: "mood", Visibility: domain.VisibilityFollowers},
			}, nil
		}},
		&mockUserRepo{isFollowing: func(_ context.Context, _, _ int64) (bool, error) {
			return false, nil
		}},
	)

	tags, err := svc.ListForUser(context.Background(), 1337, &viewer)

	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "wagon", tags[0].Key)
}

// ---- Create ----------------------------------------------------------------

func TestTagService_Create_OK(t *testing.T) {
	var created domain.StatusTag
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{
			getByKey: func(_ context.Context, _ int64, _ string) (domain.StatusTag, error) {
				return domain.StatusTag{}, domain.ErrNotFound
			},
			create: func(_ context.Context, tag domain.StatusTag) (domain.StatusTag, error) {
				created = tag
				tag.ID = 7
				return tag, nil
			},
		},
		nil,
	)

	got, err := svc.Create(context.Background(), 1337, ownerUser(), service.CreateTagInput{
		Key: "seat", Value: "12A", Visibility: "public",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1337), created.StatusID)
	assert.Equal(t, domain.VisibilityPublic, created.Visibility)
	assert.Equal(t, "seat", got.Key)
}

func TestTagService_Create_DuplicateKey(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
			return domain.StatusTag{Key: key}, nil
		}},
		nil,
	)

	_, err := svc.Create(context.Background(), 1337, ownerUser(), service.CreateTagInput{
		Key: "seat", Value: "12A", Visibility: "public",
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTagService_Create_NonOwnerForbidden(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{getByKey: func(_ context.Context, _ int64, _ string) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.ErrNotFound
		}},
		nil,
	)

	_, err := svc.Create(context.Background(), 1337, strangerUser(), service.CreateTagInput{
		Key: "seat", Value: "12A", Visibility: "public",
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTagService_Create_AdminAllowed(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{
			getByKey: func(_ context.Context, _ int64, _ string) (domain.StatusTag, error) {
				return domain.StatusTag{}, domain.ErrNotFound
			},
			create: func(_ context.Context, tag domain.StatusTag) (domain.StatusTag, error) {
				return tag, nil
			},
		},
		nil,
	)

	_, err := svc.Create(context.Background(), 1337, adminUser(), service.CreateTagInput{
		Key: "seat", Value: "12A", Visibility: "public",
	})

	assert.NoError(t, err)
}

func TestTagService_Create_Validation(t *testing.T) {
	svc := newTagService(&mockStatusRepo{}, &mockStatusTagRepo{}, nil)

	tests := []struct {
		name  string
		in    service.CreateTagInput
		field string
	}{
		{"missing key", service.CreateTagInput{Value: "v", Visibility: "public"}, "key"},
		{"missing value", service.CreateTagInput{Key: "k", Visibility: "public"}, "value"},
		{"bad visibility", service.CreateTagInput{Key: "k", Value: "v", Visibility: "loud"}, "visibility"},
		{"key too long", service.CreateTagInput{Key: strings.Repeat("k", 256), Value: "v", Visibility: "public"}, "key"},
		{"value too long", service.CreateTagInput{Key: "k", Value: strings.Repeat("v", 256), Visibility: "public"}, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1337, ownerUser(), tt.in)

			require.ErrorIs(t, err, domain.ErrValidation)
			var fields domain.FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tt.field)
		})
	}
}

// ---- Update ----------------------------------------------------------------

func TestTagService_Update_OK_ValueOnly(t *testing.T) {
	var passedKey string
	var passedTag domain.StatusTag
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{
			getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
				return domain.StatusTag{StatusID: 1337, Key: key, Value: "12A", Visibility: domain.VisibilityPublic}, nil
			},
			update: func(_ context.Context, _ int64, key string, tag domain.StatusTag) (domain.StatusTag, error) {
				passedKey = key
				passedTag = tag
				return tag, nil
			},
		},
		nil,
	)

	got, err := svc.Update(context.Background(), 1337, "seat", ownerUser(), service.UpdateTagInput{Value: "14C"})

	require.NoError(t, err)
	assert.Equal(t, "seat", passedKey)
	assert.Equal(t, "seat", passedTag.Key)
	assert.Equal(t, "14C", got.Value)
}

func TestTagService_Update_Rename(t *testing.T) {
	newKey := "platz"
	var passedTag domain.StatusTag
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{
			getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
				return domain.StatusTag{StatusID: 1337, Key: key, Value: "12A"}, nil
			},
			update: func(_ context.Context, _ int64, _ string, tag domain.StatusTag) (domain.StatusTag, error) {
				passedTag = tag
				return tag, nil
			},
		},
		nil,
	)

	_, err := svc.Update(context.Background(), 1337, "seat", ownerUser(), service.UpdateTagInput{Key: &newKey, Value: "12A"})

	require.NoError(t, err)
	assert.Equal(t, "platz", passedTag.Key)
	assert.Equal(t, int64(1337), passedTag.StatusID)
}

func TestTagService_Update_TagNotFound(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{getByKey: func(_ context.Context, _ int64, _ string) (domain.StatusTag, error) {
			return domain.StatusTag{}, domain.ErrNotFound
		}},
		nil,
	)

	_, err := svc.Update(context.Background(), 1337, "seat", ownerUser(), service.UpdateTagInput{Value: "14C"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagService_Update_NonOwnerForbidden(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
			return domain.StatusTag{StatusID: 1337, Key: key, Value: "12A"}, nil
		}},
		nil,
	)

	_, err := svc.Update(context.Background(), 1337, "seat", strangerUser(), service.UpdateTagInput{Value: "14C"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTagService_Update_EmptyValue(t *testing.T) {
	svc := newTagService(&mockStatusRepo{}, &mockStatusTagRepo{}, nil)

	_, err := svc.Update(context.Background(), 1337, "seat", ownerUser(), service.UpdateTagInput{Value: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete ----------------------------------------------------------------

func TestTagService_Delete_OK(t *testing.T) {
	deleted := false
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{
			getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
				return domain.StatusTag{StatusID: 1337, Key: key}, nil
			},
			delete: func(_ context.Context, statusID int64, key string) error {
				deleted = true
				assert.Equal(t, int64(1337), statusID)
				assert.Equal(t, "seat", key)
				return nil
			},
		},
		nil,
	)

	err := svc.Delete(context.Background(), 1337, "seat", ownerUser())

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTagService_Delete_NonOwnerForbidden(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return statusFixture(), nil
		}},
		&mockStatusTagRepo{getByKey: func(_ context.Context, _ int64, key string) (domain.StatusTag, error) {
			return domain.StatusTag{StatusID: 1337, Key: key}, nil
		}},
		nil,
	)

	err := svc.Delete(context.Background(), 1337, "seat", strangerUser())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTagService_Delete_StatusNotFound(t *testing.T) {
	svc := newTagService(
		&mockStatusRepo{getByID: func(_ context.Context, _ int64) (domain.Status, error) {
			return domain.Status{}, domain.ErrNotFound
		}},
		&mockStatusTagRepo{},
		nil,
	)

	err := svc.Delete(context.Background(), 404, "seat", ownerUser())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
