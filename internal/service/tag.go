package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

// maxTagLength bounds both tag keys and values.
const maxTagLength = 255

// TagService implements the status-tag workflow: listing tags filtered by
// visibility, and creating, updating, and deleting tags under the injected
// authorization policy.
type TagService struct {
	statuses repo.StatusRepo
	tags     repo.StatusTagRepo
	users    repo.UserRepo
	policy   Policy
}

// NewTagService constructs a TagService backed by the provided repos and policy.
func NewTagService(statuses repo.StatusRepo, tags repo.StatusTagRepo, users repo.UserRepo, policy Policy) *TagService {
	return &TagService{statuses: statuses, tags: tags, users: users, policy: policy}
}

// CreateTagInput carries the request fields for creating a tag.
type CreateTagInput struct {
	Key        string
	Value      string
	Visibility string
}

// UpdateTagInput carries the request fields for updating a tag.
// Key is optional; when set, the tag is renamed.
type UpdateTagInput struct {
	Key   *string
	Value string
}

// ListForUser returns the tags of a status that the viewer may see.
// viewer is nil for anonymous callers, who receive only public tags.
// Returns domain.ErrNotFound if the status does not exist.
func (s *TagService) ListForUser(ctx context.Context, statusID int64, viewer *domain.User) ([]domain.StatusTag, error) {
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.ListForUser: %w", err)
	}

	tags, err := s.tags.ListByStatus(ctx, statusID)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.ListForUser: %w", err)
	}

	isOwner := viewer != nil && viewer.ID == status.UserID

	// The follow edge only matters for followers-level tags viewed by an
	// authenticated non-owner, so resolve it lazily.
	isFollower := false
	followerKnown := false

	visible := []domain.StatusTag{}
	for _, tag := range tags {
		if tag.Visibility == domain.VisibilityFollowers && viewer != nil && !isOwner && !followerKnown {
			isFollower, err = s.users.IsFollowing(ctx, viewer.ID, status.UserID)
			if err != nil {
				return nil, fmt.Errorf("service.TagService.ListForUser: %w", err)
			}
			followerKnown = true
		}
		if tag.Visibility.VisibleTo(viewer, isOwner, isFollower) {
			visible = append(visible, tag)
		}
	}
	return visible, nil
}

// Create validates the input, enforces key uniqueness within the status,
// checks the status-level policy, and persists the tag.
// Returns domain.ErrNotFound if the status does not exist,
// domain.ErrConflict if the key is taken, domain.ErrForbidden if the actor
// may not modify the status.
func (s *TagService) Create(ctx context.Context, statusID int64, actor domain.User, in CreateTagInput) (domain.StatusTag, error) {
	visibility, err := validateCreateTag(in)
	if err != nil {
		return domain.StatusTag{}, err
	}

	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}

	// Friendly pre-check; the unique index on (status_id, key) closes the
	// race between concurrent creates.
	if _, err := s.tags.GetByKey(ctx, statusID, in.Key); err == nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Create: tag key %q: %w", in.Key, domain.ErrConflict)
	}

	if !s.policy.CanModifyStatus(actor, status) {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Create: %w", domain.ErrForbidden)
	}

	tag, err := s.tags.Create(ctx, domain.StatusTag{
		StatusID:   status.ID,
		Key:        in.Key,
		Value:      in.Value,
		Visibility: visibility,
	})
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	return tag, nil
}

// Update validates the input, checks the per-tag policy, and persists the
// changed value (and key, when a rename is requested). The tag keeps its
// identity: status_id never changes and no new record is created.
func (s *TagService) Update(ctx context.Context, statusID int64, key string, actor domain.User, in UpdateTagInput) (domain.StatusTag, error) {
	if err := validateUpdateTag(in); err != nil {
		return domain.StatusTag{}, err
	}

	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Update: %w", err)
	}

	tag, err := s.tags.GetByKey(ctx, statusID, key)
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Update: %w", err)
	}

	if !s.policy.CanModifyTag(actor, status, tag) {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Update: %w", domain.ErrForbidden)
	}

	tag.Value = in.Value
	if in.Key != nil {
		tag.Key = *in.Key
	}

	updated, err := s.tags.Update(ctx, statusID, key, tag)
	if err != nil {
		return domain.StatusTag{}, fmt.Errorf("service.TagService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a tag after the per-tag policy check.
// Returns domain.ErrNotFound if status or tag are absent,
// domain.ErrForbidden if the actor may not modify the tag.
func (s *TagService) Delete(ctx context.Context, statusID int64, key string, actor domain.User) error {
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}

	tag, err := s.tags.GetByKey(ctx, statusID, key)
	if err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}

	if !s.policy.CanModifyTag(actor, status, tag) {
		return fmt.Errorf("service.TagService.Delete: %w", domain.ErrForbidden)
	}

	if err := s.tags.Delete(ctx, statusID, key); err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}
	return nil
}

func validateCreateTag(in CreateTagInput) (domain.Visibility, error) {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(in.Key) == "" {
		fields["key"] = "key is required"
	} else if len(in.Key) > maxTagLength {
		fields["key"] = fmt.Sprintf("key must not exceed %d characters", maxTagLength)
	}
	if strings.TrimSpace(in.Value) == "" {
		fields["value"] = "value is required"
	} else if len(in.Value) > maxTagLength {
		fields["value"] = fmt.Sprintf("value must not exceed %d characters", maxTagLength)
	}

	visibility, err := domain.ParseVisibility(in.Visibility)
	if err != nil {
		fields["visibility"] = "visibility must be one of public, unlisted, followers, private"
	}

	if len(fields) > 0 {
		return "", fields
	}
	return visibility, nil
}

func validateUpdateTag(in UpdateTagInput) error {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(in.Value) == "" {
		fields["value"] = "value is required"
	} else if len(in.Value) > maxTagLength {
		fields["value"] = fmt.Sprintf("value must not exceed %d characters", maxTagLength)
	}
	if in.Key != nil {
		if strings.TrimSpace(*in.Key) == "" {
			fields["key"] = "key must not be empty"
		} else if len(*in.Key) > maxTagLength {
			fields["key"] = fmt.Sprintf("key must not exceed %d characters", maxTagLength)
		}
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
