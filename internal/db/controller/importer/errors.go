package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRowTooShort is returned when a row lacks a group name, repo name
	// and at least one member.
	ErrRowTooShort = errors.New("row needs a group name, a repo name and at least one member")
)

// UsersNotFoundError reports every member username of a row that did not
// resolve to a student. All names are resolved before the row is rejected,
// so the caller can surface the complete set at once.
type UsersNotFoundError struct {
	Names []string
}

func (e *UsersNotFoundError) Error() string {
	return fmt.Sprintf("users not found: %s", strings.Join(e.Names, ", "))
}

// RowError pairs a failed row index with its error, for batch imports.
type RowError struct {
	Row int
	Err error
}
