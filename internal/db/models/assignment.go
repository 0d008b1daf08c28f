// Package models contains database model definitions.
package models

import "time"

// Assignment represents one piece of assessed coursework.
// It owns exactly one SubmissionRule, a set of RubricCriteria used for
// grading, and the Groupings binding groups of students to it.
type Assignment struct {
	// ID is the unique identifier for the assignment.
	ID uint `gorm:"primaryKey"`
	// ShortIdentifier is the globally unique short code (e.g. "A1").
	ShortIdentifier string `gorm:"unique;size:30;not null"`
	// Description is a human-readable description of the assignment.
	Description string `gorm:"size:255"`
	// DueDate is the deadline students see. The effective collection time
	// may be later, depending on the attached submission rule.
	DueDate time.Time `gorm:"not null"`
	// GroupMin is the minimum number of students a grouping needs to be valid.
	GroupMin int `gorm:"not null;default:1"`
	// GroupMax is the maximum number of students a grouping may hold.
	GroupMax int `gorm:"not null;default:1"`
	// RepositoryFolder is the folder inside each group repository that
	// holds this assignment's work.
	RepositoryFolder string `gorm:"size:255;not null"`
	// InstructorFormGroups indicates the instructor forms groups instead of students.
	InstructorFormGroups bool `gorm:"default:false"`
	// GroupNameAutogenerated indicates group names are generated by the
	// system. No column default: a zero-valued field with a default tag
	// would be dropped from the INSERT and come back flipped.
	GroupNameAutogenerated bool
	// GroupNameDisplayed indicates group names are shown to students.
	GroupNameDisplayed bool `gorm:"default:false"`
	// ResultsAverage is the persisted released-result average in percent.
	// Nil until an average has been computed.
	ResultsAverage *float64
	// SubmissionRule is the lateness policy attached to this assignment.
	// An assignment is never persisted without one.
	SubmissionRule SubmissionRule `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	// RubricCriteria are the grading criteria, ordered by position.
	RubricCriteria []RubricCriterion `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	// Groupings bind groups to this assignment.
	Groupings []Grouping `gorm:"foreignKey:AssignmentID"`
	// CreatedAt is the timestamp when the assignment was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the assignment was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Assignment model.
// This overrides GORM's default pluralized table naming.
func (Assignment) TableName() string {
	return "assignments"
}

// GroupAssignment reports whether this is a group assignment.
// The formula is kept exactly as the product defines it, even though an
// assignment with GroupMin == GroupMax == 1 and InstructorFormGroups set
// still counts as a group assignment.
func (a *Assignment) GroupAssignment() bool {
	return a.InstructorFormGroups || a.GroupMin != 1 || a.GroupMax > 1
}

// Individual reports whether students submit alone for this assignment.
func (a *Assignment) Individual() bool {
	return a.GroupMin == 1 && a.GroupMax == 1
}

// PastDueDate reports whether now is past the assignment due date.
func (a *Assignment) PastDueDate(now time.Time) bool {
	return now.After(a.DueDate)
}
