// Package service contains the business logic for the Träwelling API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import "github.com/ChillLP/traewelling/internal/domain"

// Policy decides whether an acting user may mutate a status or one of its
// tags. It is injected into TagService so the authorization rules stay a
// swappable collaborator rather than being baked into the workflow.
//
// The two hooks are deliberately distinct: creating a tag is a status-wide
// action and checks the status rule, while editing or deleting an existing
// tag checks the narrower per-tag rule.
type Policy interface {
	// CanModifyStatus reports whether actor may attach new tags to status.
	CanModifyStatus(actor domain.User, status domain.Status) bool

	// CanModifyTag reports whether actor may change or remove the given tag.
	CanModifyTag(actor domain.User, status domain.Status, tag domain.StatusTag) bool
}

// OwnerPolicy is the default rule set: the status owner and admins may
// modify a status and any of its tags.
type OwnerPolicy struct{}

func (OwnerPolicy) CanModifyStatus(actor domain.User, status domain.Status) bool {
	return actor.ID == status.UserID || actor.IsAdmin()
}

func (OwnerPolicy) CanModifyTag(actor domain.User, status domain.Status, _ domain.StatusTag) bool {
	return actor.ID == status.UserID || actor.IsAdmin()
}
