package models

import "time"

// RubricLevels is the number of achievement levels on the fixed rubric
// scale. A criterion contributes weight * RubricLevels to the total mark.
const RubricLevels = 4

// RubricCriterion is one weighted grading criterion of an assignment.
type RubricCriterion struct {
	ID           uint    `gorm:"primaryKey"`
	AssignmentID uint    `gorm:"not null;index"`
	Title        string  `gorm:"size:255;not null"`
	Weight       float64 `gorm:"not null"`
	Position     int     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the database table name for the RubricCriterion model.
func (RubricCriterion) TableName() string {
	return "rubric_criteria"
}
