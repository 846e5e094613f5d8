package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkNotFound    = errors.New("link not found")
	ErrPostNotFound    = errors.New("post not found")

	// ErrUsernameConflict is returned by storage when the unique index rejects a username.
	ErrUsernameConflict = errors.New("username already taken")
)
