// Package grouping owns group and grouping formation: the invitation state
// machine, validity checks, TA assignment, cross-assignment cloning, and
// submission-rule replacement.
package grouping

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursemark/coursemark/internal/db/models"
)

const (
	autoNamePrefix = "group_"

	assignmentQueryPattern = "assignment_id = ?"
	groupingQueryPattern   = "grouping_id = ?"
)

// activeStatuses are the membership statuses that place a student in a group.
var activeStatuses = []models.MembershipStatus{models.StatusInviter, models.StatusAccepted}

// CreateGroup resolves or creates a Group and binds it to the assignment
// through a new Grouping. With autogenerated names the group is named
// deterministically from its fresh identifier; otherwise requestedName is
// required and an existing group with that name is reused.
func CreateGroup(db *gorm.DB, assignment *models.Assignment, requestedName string) (*models.Grouping, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grouping *models.Grouping

	err := db.Transaction(func(tx *gorm.DB) error {
		group, err := resolveGroup(tx, assignment, requestedName)
		if err != nil {
			return err
		}

		grouping = &models.Grouping{
			AssignmentID: assignment.ID,
			GroupID:      group.ID,
		}
		if err := tx.Create(grouping).Error; err != nil {
			return err
		}

		grouping.Group = *group

		return nil
	})
	if err != nil {
		return nil, err
	}

	return grouping, nil
}

// resolveGroup finds or creates the group for CreateGroup inside tx.
func resolveGroup(tx *gorm.DB, assignment *models.Assignment, requestedName string) (*models.Group, error) {
	if assignment.GroupNameAutogenerated {
		// The name derives from the fresh id, so the group is saved
		// once to obtain it and once more with the final name.
		group := &models.Group{RepositoryAdmin: true}
		if err := tx.Create(group).Error; err != nil {
			return nil, err
		}

		group.GroupName = fmt.Sprintf("%s%d", autoNamePrefix, group.ID)
		group.RepoName = group.GroupName
		if err := tx.Save(group).Error; err != nil {
			return nil, err
		}

		return group, nil
	}

	if requestedName == "" {
		return nil, ErrMissingName
	}

	var group models.Group

	result := tx.Where("group_name = ?", requestedName).First(&group)
	if result.Error == nil {
		var count int64
		if err := tx.Model(&models.Grouping{}).
			Where("assignment_id = ? AND group_id = ?", assignment.ID, group.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateGrouping
		}

		return &group, nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	group = models.Group{GroupName: requestedName, RepoName: requestedName, RepositoryAdmin: true}
	if err := tx.Create(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// InviteMember extends an invitation into the grouping, as inviter when
// asInviter is set, as a pending invite otherwise. The membership set of a
// grouping is only ever mutated inside a transaction that first locks the
// grouping row and then re-reads the membership counters, so two concurrent
// invitations cannot jointly exceed the maximum group size or place two
// inviters. The lock is a no-op on sqlite, which serializes writers anyway.
func InviteMember(db *gorm.DB, grouping *models.Grouping, student *models.User, asInviter bool) (*models.Membership, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if student.Role != models.RoleStudent {
		return nil, ErrStudentsOnly
	}

	var membership *models.Membership

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockGrouping(tx, grouping.ID); err != nil {
			return err
		}

		grouped, err := hasActiveMembership(tx, grouping.AssignmentID, student.ID)
		if err != nil {
			return err
		}
		if grouped {
			return ErrAlreadyGrouped
		}

		if asInviter {
			var inviters int64
			if err := tx.Model(&models.Membership{}).
				Where(groupingQueryPattern, grouping.ID).
				Where("status = ?", models.StatusInviter).
				Count(&inviters).Error; err != nil {
				return err
			}
			if inviters > 0 {
				return ErrInviterExists
			}
		}

		var assignment models.Assignment
		if err := tx.First(&assignment, grouping.AssignmentID).Error; err != nil {
			return err
		}

		var members int64
		if err := tx.Model(&models.Membership{}).
			Where(groupingQueryPattern, grouping.ID).
			Where("role = ?", models.MembershipRoleStudent).
			Where("status IN ?", []models.MembershipStatus{
				models.StatusInviter, models.StatusAccepted, models.StatusPending,
			}).
			Count(&members).Error; err != nil {
			return err
		}
		if int(members) >= assignment.GroupMax {
			return ErrGroupingFull
		}

		status := models.StatusPending
		if asInviter {
			status = models.StatusInviter
		}

		membership = &models.Membership{
			GroupingID: grouping.ID,
			UserID:     student.ID,
			Role:       models.MembershipRoleStudent,
			Status:     status,
		}

		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// Accept transitions a pending membership to accepted.
func Accept(db *gorm.DB, membership *models.Membership) error {
	return transition(db, membership, models.StatusAccepted)
}

// Reject transitions a pending membership to rejected.
func Reject(db *gorm.DB, membership *models.Membership) error {
	return transition(db, membership, models.StatusRejected)
}

func transition(db *gorm.DB, membership *models.Membership, to models.MembershipStatus) error {
	if db == nil {
		return ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var current models.Membership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, membership.ID).Error; err != nil {
			return err
		}
		if current.Status != models.StatusPending {
			return ErrInvalidTransition
		}

		return tx.Model(&current).Update("status", to).Error
	})
	if err != nil {
		return err
	}

	membership.Status = to

	return nil
}

// IsValid reports whether the grouping meets the minimum member threshold or
// has been administrator-approved despite being under it.
func IsValid(db *gorm.DB, grouping *models.Grouping) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if grouping.AdminApproved {
		return true, nil
	}

	var assignment models.Assignment
	if err := db.First(&assignment, grouping.AssignmentID).Error; err != nil {
		return false, err
	}

	var members int64
	if err := db.Model(&models.Membership{}).
		Where(groupingQueryPattern, grouping.ID).
		Where("role = ?", models.MembershipRoleStudent).
		Where("status IN ?", activeStatuses).
		Count(&members).Error; err != nil {
		return false, err
	}

	return int(members) >= assignment.GroupMin, nil
}

// AssignTA adds a grader membership to the grouping. A grouping may have any
// number of TAs; TA memberships carry no invitation status.
func AssignTA(db *gorm.DB, grouping *models.Grouping, ta *models.User) (*models.Membership, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if ta.Role != models.RoleTA {
		return nil, ErrNotTeachingAssistant
	}

	var membership *models.Membership

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockGrouping(tx, grouping.ID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Membership{}).
			Where(groupingQueryPattern, grouping.ID).
			Where("user_id = ?", ta.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}

		membership = &models.Membership{
			GroupingID: grouping.ID,
			UserID:     ta.ID,
			Role:       models.MembershipRoleTA,
		}

		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// UngroupedStudents returns all visible students not holding an accepted or
// inviter membership in any grouping of the assignment, ordered by last name.
func UngroupedStudents(db *gorm.DB, assignment *models.Assignment) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	grouped := db.Model(&models.Membership{}).
		Select("memberships.user_id").
		Joins("JOIN groupings ON groupings.id = memberships.grouping_id").
		Where("groupings.assignment_id = ?", assignment.ID).
		Where("memberships.status IN ?", activeStatuses)

	var students []models.User
	result := db.
		Where("role = ? AND hidden = ?", models.RoleStudent, false).
		Where("id NOT IN (?)", grouped).
		Order("last_name ASC").
		Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

// InvitableStudents returns the students an inviter can still invite into
// the grouping: everyone ungrouped for the assignment minus students who
// already hold a pending invite into this grouping.
func InvitableStudents(db *gorm.DB, grouping *models.Grouping) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	grouped := db.Model(&models.Membership{}).
		Select("memberships.user_id").
		Joins("JOIN groupings ON groupings.id = memberships.grouping_id").
		Where("groupings.assignment_id = ?", grouping.AssignmentID).
		Where("memberships.status IN ?", activeStatuses)

	pending := db.Model(&models.Membership{}).
		Select("user_id").
		Where(groupingQueryPattern, grouping.ID).
		Where("status = ?", models.StatusPending)

	var students []models.User
	result := db.
		Where("role = ? AND hidden = ?", models.RoleStudent, false).
		Where("id NOT IN (?)", grouped).
		Where("id NOT IN (?)", pending).
		Order("last_name ASC").
		Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

// ValidGroupings returns the groupings of the assignment meeting the
// validity rule.
func ValidGroupings(db *gorm.DB, assignment *models.Assignment) ([]models.Grouping, error) {
	return partitionByValidity(db, assignment, true)
}

// InvalidGroupings returns the groupings of the assignment failing the
// validity rule.
func InvalidGroupings(db *gorm.DB, assignment *models.Assignment) ([]models.Grouping, error) {
	return partitionByValidity(db, assignment, false)
}

func partitionByValidity(db *gorm.DB, assignment *models.Assignment, want bool) ([]models.Grouping, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groupings []models.Grouping
	if err := db.Where(assignmentQueryPattern, assignment.ID).Find(&groupings).Error; err != nil {
		return nil, err
	}

	out := make([]models.Grouping, 0, len(groupings))

	for i := range groupings {
		valid, err := IsValid(db, &groupings[i])
		if err != nil {
			return nil, err
		}
		if valid == want {
			out = append(out, groupings[i])
		}
	}

	return out, nil
}

// AssignedGroupings returns the groupings of the assignment with at least
// one TA membership.
func AssignedGroupings(db *gorm.DB, assignment *models.Assignment) ([]models.Grouping, error) {
	return partitionByTA(db, assignment, true)
}

// UnassignedGroupings returns the groupings of the assignment without any TA
// membership.
func UnassignedGroupings(db *gorm.DB, assignment *models.Assignment) ([]models.Grouping, error) {
	return partitionByTA(db, assignment, false)
}

func partitionByTA(db *gorm.DB, assignment *models.Assignment, assigned bool) ([]models.Grouping, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	withTA := db.Model(&models.Membership{}).
		Select("grouping_id").
		Where("role = ?", models.MembershipRoleTA)

	tx := db.Where(assignmentQueryPattern, assignment.ID)
	if assigned {
		tx = tx.Where("id IN (?)", withTA)
	} else {
		tx = tx.Where("id NOT IN (?)", withTA)
	}

	var groupings []models.Grouping
	if err := tx.Find(&groupings).Error; err != nil {
		return nil, err
	}

	return groupings, nil
}

// CreateSoloGroupings bootstraps one grouping per ungrouped student for
// assignments where students work alone. Each student gets an autogenerated
// group and an inviter membership. Returns the number of groupings created.
func CreateSoloGroupings(db *gorm.DB, assignment *models.Assignment) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	students, err := UngroupedStudents(db, assignment)
	if err != nil {
		return 0, err
	}

	created := 0

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range students {
			group := &models.Group{RepositoryAdmin: true}
			if err := tx.Create(group).Error; err != nil {
				return err
			}

			group.GroupName = fmt.Sprintf("%s%d", autoNamePrefix, group.ID)
			group.RepoName = group.GroupName
			if err := tx.Save(group).Error; err != nil {
				return err
			}

			g := &models.Grouping{AssignmentID: assignment.ID, GroupID: group.ID}
			if err := tx.Create(g).Error; err != nil {
				return err
			}

			m := &models.Membership{
				GroupingID: g.ID,
				UserID:     students[i].ID,
				Role:       models.MembershipRoleStudent,
				Status:     models.StatusInviter,
			}
			if err := tx.Create(m).Error; err != nil {
				return err
			}

			created++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// lockGrouping takes a FOR UPDATE lock on the grouping row so concurrent
// membership mutations of the same grouping serialize. The sqlite dialector
// drops the locking clause; sqlite has a single writer.
func lockGrouping(tx *gorm.DB, groupingID uint) error {
	var locked models.Grouping

	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, groupingID).Error
}

// hasActiveMembership reports whether the user holds an accepted or inviter
// membership in any grouping of the assignment.
func hasActiveMembership(tx *gorm.DB, assignmentID uint, userID uint64) (bool, error) {
	var count int64

	err := tx.Model(&models.Membership{}).
		Joins("JOIN groupings ON groupings.id = memberships.grouping_id").
		Where("groupings.assignment_id = ?", assignmentID).
		Where("memberships.user_id = ?", userID).
		Where("memberships.status IN ?", activeStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
