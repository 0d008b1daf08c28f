package models

import "time"

// Result is the grade of one submission. Only results released to students
// count toward the assignment average.
type Result struct {
	ID           uint    `gorm:"primaryKey"`
	SubmissionID uint    `gorm:"not null;uniqueIndex"`
	TotalMark    float64 `gorm:"not null;default:0"`
	// ReleasedToStudents marks the result visible to students.
	ReleasedToStudents bool `gorm:"default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the database table name for the Result model.
func (Result) TableName() string {
	return "results"
}
