package grouping

import (
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/models"
)

// CloneGroupingsFrom copies the group policy of the source assignment onto
// the target and recreates every source grouping on the target, pointing at
// the same underlying group and duplicating every membership with its role
// and status. The whole clone runs in one transaction; a partially cloned
// target is never observable.
func CloneGroupingsFrom(db *gorm.DB, source, target *models.Assignment) error {
	if db == nil {
		return ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		policy := map[string]interface{}{
			"group_min":                source.GroupMin,
			"group_max":                source.GroupMax,
			"instructor_form_groups":   source.InstructorFormGroups,
			"group_name_autogenerated": source.GroupNameAutogenerated,
			"group_name_displayed":     source.GroupNameDisplayed,
		}
		if err := tx.Model(&models.Assignment{}).
			Where("id = ?", target.ID).
			Updates(policy).Error; err != nil {
			return err
		}

		var groupings []models.Grouping
		if err := tx.Preload("Memberships").
			Where(assignmentQueryPattern, source.ID).
			Find(&groupings).Error; err != nil {
			return err
		}

		for i := range groupings {
			clone := models.Grouping{
				AssignmentID: target.ID,
				GroupID:      groupings[i].GroupID,
			}
			if err := tx.Create(&clone).Error; err != nil {
				return err
			}

			for _, m := range groupings[i].Memberships {
				dup := models.Membership{
					GroupingID: clone.ID,
					UserID:     m.UserID,
					Role:       m.Role,
					Status:     m.Status,
				}
				if err := tx.Create(&dup).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	target.GroupMin = source.GroupMin
	target.GroupMax = source.GroupMax
	target.InstructorFormGroups = source.InstructorFormGroups
	target.GroupNameAutogenerated = source.GroupNameAutogenerated
	target.GroupNameDisplayed = source.GroupNameDisplayed

	return nil
}

// ReplaceSubmissionRule destroys the assignment's current submission rule
// and attaches the new one in a single transaction, so the assignment is
// never observable without a rule.
func ReplaceSubmissionRule(db *gorm.DB, assignment *models.Assignment, newRule *models.SubmissionRule) error {
	if db == nil {
		return ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(assignmentQueryPattern, assignment.ID).
			Delete(&models.SubmissionRule{}).Error; err != nil {
			return err
		}

		newRule.ID = 0
		newRule.AssignmentID = assignment.ID

		return tx.Create(newRule).Error
	})
	if err != nil {
		return err
	}

	assignment.SubmissionRule = *newRule

	return nil
}
