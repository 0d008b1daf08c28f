// Package assignment builds assignments together with their submission rule
// and rubric in one transaction, and computes released-result statistics.
package assignment

import (
	"time"

	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/models"
	"github.com/coursemark/coursemark/internal/submissionrule"
)

const shortIDQueryPattern = "short_identifier = ?"

// CreateInput describes the whole assignment graph to persist: the
// assignment itself, its submission rule, and its rubric criteria. The graph
// is committed in one transaction and rejected as a whole on any validation
// failure.
type CreateInput struct {
	ShortIdentifier        string
	Description            string
	DueDate                time.Time
	GroupMin               int
	GroupMax               int
	RepositoryFolder       string
	InstructorFormGroups   bool
	GroupNameAutogenerated bool
	GroupNameDisplayed     bool
	Rule                   models.SubmissionRule
	Criteria               []models.RubricCriterion
}

// Create validates and persists an assignment with its submission rule and
// rubric criteria. The assignment is never observable without its rule.
func Create(db *gorm.DB, in CreateInput) (*models.Assignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	a := &models.Assignment{
		ShortIdentifier:        in.ShortIdentifier,
		Description:            in.Description,
		DueDate:                in.DueDate,
		GroupMin:               in.GroupMin,
		GroupMax:               in.GroupMax,
		RepositoryFolder:       in.RepositoryFolder,
		InstructorFormGroups:   in.InstructorFormGroups,
		GroupNameAutogenerated: in.GroupNameAutogenerated,
		GroupNameDisplayed:     in.GroupNameDisplayed,
		SubmissionRule:         in.Rule,
		RubricCriteria:         in.Criteria,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Assignment{}).
			Where(shortIDQueryPattern, in.ShortIdentifier).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateShortID
		}

		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Get retrieves an assignment by its short identifier, with its rule loaded.
func Get(db *gorm.DB, shortID string) (*models.Assignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.Assignment
	result := db.Preload("SubmissionRule").Where(shortIDQueryPattern, shortID).First(&a)
	if result.Error != nil {
		return nil, result.Error
	}

	return &a, nil
}

// ChangeDueDate moves the assignment deadline. A changed due date must not
// lie in the past.
func ChangeDueDate(db *gorm.DB, a *models.Assignment, due time.Time, now time.Time) error {
	if db == nil {
		return ErrDBNil
	}
	if due.IsZero() || due.Before(now) {
		return ErrInvalidDueDate
	}

	if err := db.Model(&models.Assignment{}).
		Where("id = ?", a.ID).
		Update("due_date", due).Error; err != nil {
		return err
	}

	a.DueDate = due

	return nil
}

func validate(in CreateInput) error {
	if in.ShortIdentifier == "" {
		return ErrMissingShortID
	}
	if in.RepositoryFolder == "" {
		return ErrMissingRepositoryFolder
	}
	if in.GroupMin <= 0 || in.GroupMax <= 0 || in.GroupMax < in.GroupMin {
		return ErrInvalidGroupSize
	}
	if in.DueDate.IsZero() || in.DueDate.Before(time.Now()) {
		return ErrInvalidDueDate
	}
	if !submissionrule.KnownType(in.Rule.Type) {
		return submissionrule.ErrUnknownRuleType
	}

	return nil
}
