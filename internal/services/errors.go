package services

import (
	"errors"

	"github.com/deeperweave/backend/internal/repositories"
)

var (
	// ErrListNotFound is returned when the requested list does not exist.
	ErrListNotFound = errors.New("list not found")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden        = errors.New("forbidden")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following or requested")
	// ErrInvalidInput wraps caller mistakes the request validator cannot see.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound aliases the repository sentinel so callers only import services.
	ErrNotFound = repositories.ErrNotFound
	// ErrInvalidOrder is returned by ReorderEntries for a partial or repeating id list.
	ErrInvalidOrder = repositories.ErrInvalidOrder
)
