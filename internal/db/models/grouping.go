package models

import "time"

// Grouping binds one Group to one Assignment and owns the memberships of the
// students working in that group for that assignment. A group only exists
// "for" an assignment through its grouping.
type Grouping struct {
	// ID is the unique identifier for the grouping.
	ID uint `gorm:"primaryKey"`
	// AssignmentID is the assignment this grouping belongs to.
	// Combined with GroupID it forms a unique constraint: an assignment
	// has at most one grouping per group.
	AssignmentID uint `gorm:"not null;index;uniqueIndex:idx_assignment_group"`
	// GroupID is the group bound to the assignment.
	GroupID uint `gorm:"not null;uniqueIndex:idx_assignment_group"`
	// AdminApproved marks the grouping valid even when it is below the
	// assignment's minimum member count.
	AdminApproved bool `gorm:"default:false"`
	// Assignment is the associated assignment (loaded via foreign key).
	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID"`
	// Memberships are the student and TA memberships of this grouping.
	Memberships []Membership `gorm:"foreignKey:GroupingID"`
	// Submissions is the submission history of this grouping.
	Submissions []Submission `gorm:"foreignKey:GroupingID"`
	// CreatedAt is the timestamp when the grouping was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the grouping was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Grouping model.
// This overrides GORM's default pluralized table naming.
func (Grouping) TableName() string {
	return "groupings"
}
