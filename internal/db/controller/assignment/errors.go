package assignment

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrMissingShortID is returned when the short identifier is empty.
	ErrMissingShortID = errors.New("short identifier cannot be empty")
	// ErrDuplicateShortID is returned when the short identifier is already taken.
	ErrDuplicateShortID = errors.New("short identifier already exists")
	// ErrMissingRepositoryFolder is returned when the repository folder is empty.
	ErrMissingRepositoryFolder = errors.New("repository folder cannot be empty")
	// ErrInvalidGroupSize is returned when the group size bounds are not positive or max < min.
	ErrInvalidGroupSize = errors.New("group max must be greater than or equal to group min, both positive")
	// ErrInvalidDueDate is returned when the due date is unset or, on creation or change, in the past.
	ErrInvalidDueDate = errors.New("due date must be a valid instant not in the past")
)
