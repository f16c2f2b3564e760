// Package policy holds the access rules for write operations. Reads are
// public and never consult it: public GET routes simply carry no auth
// middleware.
package policy

import "reviewhub/internal/httpapi/models"

// Resource classes with distinct write rules.
type Resource int

const (
	ResourceUser     Resource = iota // admin only
	ResourceCategory                 // admin only
	ResourceGenre                    // admin only
	ResourceTitle                    // admin only
	ResourceReview                   // author, moderator or admin
	ResourceComment                  // author, moderator or admin
)

// Actor is the authenticated caller as seen by the policy: its identity
// and role, nothing else.
type Actor struct {
	ID   string
	Role string
}

// CanMutate reports whether actor may write or delete the given resource.
// ownerID is the author of the concrete row for owned resources and is
// ignored for User/Category/Genre/Title, which are admin territory.
func CanMutate(actor Actor, resource Resource, ownerID string) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	switch resource {
	case ResourceReview, ResourceComment:
		if actor.Role == models.RoleModerator {
			return true
		}
		return actor.ID != "" && actor.ID == ownerID
	default:
		return false
	}
}
