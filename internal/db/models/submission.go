package models

import "time"

// Submission is one entry in a grouping's submission history.
// Exactly one submission per grouping is marked as the one used for grading;
// selecting it is the collector's job, not this engine's.
type Submission struct {
	ID         uint `gorm:"primaryKey"`
	GroupingID uint `gorm:"not null;index"`
	// RevisionNumber is the repository revision the submission was
	// collected at. It feeds the svn export report.
	RevisionNumber int `gorm:"not null;default:0"`
	// UsedForGrading marks the authoritative submission of the grouping.
	UsedForGrading bool `gorm:"default:false;index"`
	SubmittedAt    time.Time
	// Result is the grade attached to this submission, if any.
	Result    *Result `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Submission model.
func (Submission) TableName() string {
	return "submissions"
}
