// Package authz computes, per request, what the acting identity may do to a
// given content item. All decisions are pure functions over the loaded
// account; nothing here touches the database.
package authz

import "sabuzz/internal/models"

// Role is the closed set of behaviors an identity can act under. It
// consolidates the scattered superuser/group checks into one place.
type Role int

const (
	// Anonymous is an unauthenticated visitor.
	Anonymous Role = iota
	// Reader is any authenticated account without journalist standing.
	Reader
	// Journalist is an account in the Journalists group.
	Journalist
	// Admin is a superuser.
	Admin
)

func (r Role) String() string {
	switch r {
	case Reader:
		return "reader"
	case Journalist:
		return "journalist"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

// RoleFor derives the acting role from a loaded account. A nil user is
// anonymous. Superuser wins over group membership; Groups must have been
// preloaded for journalist detection.
func RoleFor(u *models.User) Role {
	if u == nil {
		return Anonymous
	}
	if u.IsSuperuser {
		return Admin
	}
	if u.InGroup(models.JournalistsGroup) {
		return Journalist
	}
	return Reader
}

// IsJournalist is the journalist predicate: superuser OR member of the
// Journalists group. It gates post creation, the dashboard, and visibility
// of other authors' non-published posts.
func (r Role) IsJournalist() bool {
	return r == Journalist || r == Admin
}

// CanModerate reports whether the role may approve/reject posts and
// comments and decide journalist applications. Moderation is deliberately
// concentrated in the superuser role; journalists manage only their own
// posts.
func (r Role) CanModerate() bool {
	return r == Admin
}

// CanViewPost implements the post visibility rule: a non-published post is
// visible only to its author, to superusers, or to any journalist-group
// member. Callers should translate a false result into a not-found, never a
// forbidden, so unpublished content is indistinguishable from absence.
func CanViewPost(r Role, viewerID uint, post *models.Post) bool {
	if post.Published() {
		return true
	}
	if r.IsJournalist() {
		return true
	}
	return viewerID != 0 && viewerID == post.UserID
}

// CanEditPost is the ownership predicate for posts: superuser, or the
// author provided they still satisfy the journalist predicate.
func CanEditPost(r Role, actorID uint, post *models.Post) bool {
	if r == Admin {
		return true
	}
	return r.IsJournalist() && actorID == post.UserID
}

// CanDeletePost mirrors CanEditPost; deletion cascades to the post's
// comments and likes.
func CanDeletePost(r Role, actorID uint, post *models.Post) bool {
	return CanEditPost(r, actorID, post)
}

// CanEditComment permits the comment's own author; superusers may not
// rewrite other users' words, they moderate via approve/delete instead.
func CanEditComment(actorID uint, comment *models.Comment) bool {
	return actorID != 0 && actorID == comment.UserID
}

// CanDeleteComment permits the comment's own author or a superuser.
// Journalists who own the parent post get no delegation here.
func CanDeleteComment(r Role, actorID uint, comment *models.Comment) bool {
	if r == Admin {
		return true
	}
	return actorID != 0 && actorID == comment.UserID
}
