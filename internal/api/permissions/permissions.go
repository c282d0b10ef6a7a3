// Package permissions holds the authorization predicates as pure functions
// over (actor, action, resource). Keeping them free of gin request state
// lets handlers and services share one set of rules.
package permissions

import "reviewhub/internal/api/models"

// IsAdmin reports whether the actor is authenticated and holds admin rights.
// A nil actor is an anonymous request.
func IsAdmin(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// IsModerator reports whether the actor is authenticated and holds the
// moderator role.
func IsModerator(actor *models.User) bool {
	return actor != nil && actor.IsModerator()
}

// IsAdminOrReadOnly allows safe methods for everyone and mutations only for
// admins.
func IsAdminOrReadOnly(actor *models.User, safe bool) bool {
	return safe || IsAdmin(actor)
}

// IsAuthorOrReadOnly allows safe methods for everyone and requires
// authentication for mutations. Object-level checks go through CanModify.
func IsAuthorOrReadOnly(actor *models.User, safe bool) bool {
	return safe || actor != nil
}

// CanModify reports whether the actor may mutate a resource owned by
// authorID: the author themselves, a moderator, or an admin.
func CanModify(actor *models.User, authorID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || IsModerator(actor) || IsAdmin(actor)
}
