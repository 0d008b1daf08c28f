package models

import "time"

// MembershipRole distinguishes student members from assigned graders.
type MembershipRole string

const (
	// MembershipRoleStudent is a student member of the grouping.
	MembershipRoleStudent MembershipRole = "student"
	// MembershipRoleTA is a teaching assistant assigned to grade the grouping.
	MembershipRoleTA MembershipRole = "ta"
)

// MembershipStatus is the invitation state of a student membership.
// TA memberships carry no status.
type MembershipStatus string

const (
	// StatusInviter marks the student who initiated the grouping.
	StatusInviter MembershipStatus = "inviter"
	// StatusPending marks an extended invitation not yet answered.
	StatusPending MembershipStatus = "pending"
	// StatusAccepted marks an accepted invitation.
	StatusAccepted MembershipStatus = "accepted"
	// StatusRejected marks a declined invitation.
	StatusRejected MembershipStatus = "rejected"
)

// Membership links a grouping to a user. Student memberships move through
// the invitation state machine (inviter/pending/accepted/rejected); TA
// memberships only record the assignment of a grader.
type Membership struct {
	// ID is the unique identifier for the membership.
	ID uint `gorm:"primaryKey"`
	// GroupingID is the grouping this membership belongs to.
	// Combined with UserID it forms a unique constraint: a user holds at
	// most one membership per grouping.
	GroupingID uint `gorm:"not null;index;uniqueIndex:idx_grouping_user"`
	// UserID is the member.
	UserID uint64 `gorm:"not null;index;uniqueIndex:idx_grouping_user"`
	// Role is student or ta.
	Role MembershipRole `gorm:"type:varchar(20);not null;default:'student'"`
	// Status is the invitation state for student memberships, empty for TAs.
	Status MembershipStatus `gorm:"type:varchar(20)"`
	// Grouping is the associated grouping (loaded via foreign key).
	Grouping Grouping `gorm:"foreignKey:GroupingID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the membership was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the membership was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Membership model.
// This overrides GORM's default pluralized table naming.
func (Membership) TableName() string {
	return "memberships"
}
