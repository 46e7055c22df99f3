package domain

import "fmt"

// Visibility is the access level of a status tag. It is a closed set:
// every consumption site should switch exhaustively over the four values.
type Visibility string

const (
	// VisibilityPublic is visible to everyone, including anonymous callers.
	VisibilityPublic Visibility = "public"
	// VisibilityUnlisted is visible to any authenticated user.
	VisibilityUnlisted Visibility = "unlisted"
	// VisibilityFollowers is visible to users who follow the status owner.
	VisibilityFollowers Visibility = "followers"
	// VisibilityPrivate is visible only to the status owner.
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility converts a request string into a Visibility.
// Unknown values return ErrValidation.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(s); v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityFollowers, VisibilityPrivate:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown visibility %q", ErrValidation, s)
	}
}

// VisibleTo reports whether a tag with this visibility may be shown to the
// given viewer. viewer is nil for anonymous callers. isOwner and isFollower
// describe the viewer's relationship to the status owner; admins see
// everything.
func (v Visibility) VisibleTo(viewer *User, isOwner, isFollower bool) bool {
	if viewer != nil && (isOwner || viewer.IsAdmin()) {
		return true
	}
	switch v {
	case VisibilityPublic:
		return true
	case VisibilityUnlisted:
		return viewer != nil
	case VisibilityFollowers:
		return viewer != nil && isFollower
	case VisibilityPrivate:
		return false
	default:
		return false
	}
}
