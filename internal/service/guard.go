package service

import "github.com/cleanblog/internal/db"

// IsAdmin reports whether actor may manage posts. A nil actor is anonymous.
func IsAdmin(actor *db.User) bool {
	return actor.IsAdmin()
}

// RequireAdmin runs op only when actor is the administrator and otherwise
// returns ErrForbidden without calling it. op's result is returned unchanged.
func RequireAdmin[T any](actor *db.User, op func() (T, error)) (T, error) {
	if !IsAdmin(actor) {
		var zero T
		return zero, ErrForbidden
	}
	return op()
}

// RequireUser runs op only for an authenticated actor.
func RequireUser[T any](actor *db.User, op func() (T, error)) (T, error) {
	if actor == nil {
		var zero T
		return zero, ErrUnauthenticated
	}
	return op()
}
