package models

import "time"

// SubmissionRuleType tags the lateness policy variant of a submission rule.
type SubmissionRuleType string

const (
	// RuleNoLateSubmission collects exactly at the due date.
	RuleNoLateSubmission SubmissionRuleType = "no_late_submission"
	// RuleGracePeriod extends collection by a penalty-free window.
	RuleGracePeriod SubmissionRuleType = "grace_period"
	// RulePenaltyPeriod extends collection by a window with mark deductions.
	RulePenaltyPeriod SubmissionRuleType = "penalty_period"
)

// SubmissionRule is the lateness policy owned 1:1 by an assignment.
// The variant is a type tag over plain configuration columns rather than a
// subtype per policy; interpretation lives in the submissionrule package.
type SubmissionRule struct {
	// ID is the unique identifier for the rule.
	ID uint `gorm:"primaryKey"`
	// AssignmentID is the owning assignment. Enforced unique so an
	// assignment holds exactly one rule.
	AssignmentID uint `gorm:"not null;uniqueIndex"`
	// Type selects the policy variant.
	Type SubmissionRuleType `gorm:"type:varchar(30);not null;default:'no_late_submission'"`
	// Hours is the length of the grace or penalty window past the due
	// date. Unused by the no-late variant.
	Hours float64 `gorm:"default:0"`
	// IntervalHours is the size of one penalty interval within the window.
	// Only meaningful for the penalty variant.
	IntervalHours float64 `gorm:"default:0"`
	// Deduction is the mark deduction applied per started penalty
	// interval. Only meaningful for the penalty variant.
	Deduction float64 `gorm:"default:0"`
	// CreatedAt is the timestamp when the rule was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the rule was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the SubmissionRule model.
// This overrides GORM's default pluralized table naming.
func (SubmissionRule) TableName() string {
	return "submission_rules"
}
