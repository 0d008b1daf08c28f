package grouping

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrMissingName is returned when a group name is required but absent.
	ErrMissingName = errors.New("group name is required when names are not autogenerated")
	// ErrDuplicateGrouping is returned when the assignment already has a grouping for the resolved group.
	ErrDuplicateGrouping = errors.New("assignment already has a grouping for this group")
	// ErrAlreadyGrouped is returned when a student already holds an accepted or inviter membership for the assignment.
	ErrAlreadyGrouped = errors.New("student is already grouped for this assignment")
	// ErrInviterExists is returned when a grouping already has an inviter membership.
	ErrInviterExists = errors.New("grouping already has an inviter")
	// ErrGroupingFull is returned when inviting would exceed the assignment's maximum group size.
	ErrGroupingFull = errors.New("grouping has reached the maximum group size")
	// ErrInvalidTransition is returned when accept/reject is called on a non-pending membership.
	ErrInvalidTransition = errors.New("membership is not pending")
	// ErrStudentsOnly is returned when a non-student user is invited into a grouping.
	ErrStudentsOnly = errors.New("only students can be invited")
	// ErrNotTeachingAssistant is returned when a non-TA user is assigned as grader.
	ErrNotTeachingAssistant = errors.New("user is not a teaching assistant")
	// ErrAlreadyAssigned is returned when the TA is already assigned to the grouping.
	ErrAlreadyAssigned = errors.New("teaching assistant is already assigned to this grouping")
)
