package assignment

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/models"
)

// TotalPossibleMark returns the maximum achievable mark: the sum of every
// rubric criterion weight times the fixed number of rubric levels.
func TotalPossibleMark(db *gorm.DB, a *models.Assignment) (float64, error) {
	weight, err := TotalCriteriaWeight(db, a)
	if err != nil {
		return 0, err
	}

	return weight * models.RubricLevels, nil
}

// TotalCriteriaWeight returns the sum of the rubric criterion weights.
func TotalCriteriaWeight(db *gorm.DB, a *models.Assignment) (float64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var weight float64
	err := db.Model(&models.RubricCriterion{}).
		Where("assignment_id = ?", a.ID).
		Select("COALESCE(SUM(weight), 0)").
		Scan(&weight).Error
	if err != nil {
		return 0, err
	}

	return weight, nil
}

// SetResultsAverage computes the average of released results over the
// authoritative submissions of the assignment's groupings and persists it as
// a percentage on the assignment. It returns false and leaves the
// assignment untouched when no released results exist. A zero mark sum
// yields zero percent rather than a division error. The percentage is
// rounded half away from zero.
func SetResultsAverage(db *gorm.DB, a *models.Assignment) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	type tally struct {
		Sum   float64
		Count int64
	}

	var tl tally
	err := db.Model(&models.Result{}).
		Select("COALESCE(SUM(results.total_mark), 0) AS sum, COUNT(results.id) AS count").
		Joins("JOIN submissions ON submissions.id = results.submission_id").
		Joins("JOIN groupings ON groupings.id = submissions.grouping_id").
		Where("groupings.assignment_id = ?", a.ID).
		Where("submissions.used_for_grading = ?", true).
		Where("results.released_to_students = ?", true).
		Scan(&tl).Error
	if err != nil {
		return false, err
	}

	if tl.Count == 0 {
		// no marks released for this assignment
		return false, nil
	}

	percentage := 0.0

	if tl.Sum != 0 {
		total, err := TotalPossibleMark(db, a)
		if err != nil {
			return false, err
		}
		if total > 0 {
			average := tl.Sum / float64(tl.Count)
			percentage = math.Round(average * 100 / total)
		}
	}

	if err := db.Model(&models.Assignment{}).
		Where("id = ?", a.ID).
		Update("results_average", percentage).Error; err != nil {
		return false, err
	}

	a.ResultsAverage = &percentage

	return true, nil
}

// SVNExportCommands returns the export script for the assignment: one svn
// command per grouping that has an authoritative submission, addressing the
// group repository under baseURL.
func SVNExportCommands(db *gorm.DB, a *models.Assignment, baseURL string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groupings []models.Grouping
	err := db.Preload("Group").
		Preload("Submissions", "used_for_grading = ?", true).
		Where("assignment_id = ?", a.ID).
		Find(&groupings).Error
	if err != nil {
		return nil, err
	}

	commands := make([]string, 0, len(groupings))

	for i := range groupings {
		for _, s := range groupings[i].Submissions {
			commands = append(commands, fmt.Sprintf(
				"svn export -r %d %s %s",
				s.RevisionNumber,
				groupings[i].Group.RepositoryExternalAccessURL(baseURL),
				groupings[i].Group.GroupName,
			))
		}
	}

	return commands, nil
}
