package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist, or exists but is
	// not owned by the requesting user. Stores deliberately do not
	// distinguish the two cases.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned by UserRepository.Create when the email
	// is already registered. Uniqueness is enforced by the database
	// constraint, not application-level locking.
	ErrDuplicateEmail = errors.New("email already registered")
)
