// Package importer builds many groupings from tabular input rows of the
// shape [groupName, repoName, member, member, ...]. Bulk-imported members
// are pre-confirmed: the first resolved member becomes the inviter and the
// rest are added as accepted, unlike the interactive invite path which
// leaves invitees pending.
package importer

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/controller/grouping"
	"github.com/coursemark/coursemark/internal/db/models"
)

// memberOffset is the index of the first member field in a row; the fields
// before it are the group name and the repo name.
const memberOffset = 2

// ImportRow builds one grouping from a row. The group is resolved or
// created by name; unless the group's repository is system-managed, its repo
// name is overwritten with the trimmed value from the row. Every member
// username is resolved before anything else happens, so an unresolvable row
// reports its complete set of unknown names and leaves no partial state.
// An empty row is a no-op returning nil.
func ImportRow(db *gorm.DB, assignment *models.Assignment, row []string) (*models.Grouping, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if len(row) == 0 {
		return nil, nil
	}
	if len(row) <= memberOffset {
		return nil, ErrRowTooShort
	}

	var imported *models.Grouping

	err := db.Transaction(func(tx *gorm.DB) error {
		members, err := resolveMembers(tx, row[memberOffset:])
		if err != nil {
			return err
		}

		group, err := resolveGroupByName(tx, row[0])
		if err != nil {
			return err
		}

		if !group.RepositoryAdmin {
			group.RepoName = strings.TrimSpace(row[1])
			if err := tx.Save(group).Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&models.Grouping{}).
			Where("assignment_id = ? AND group_id = ?", assignment.ID, group.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return grouping.ErrDuplicateGrouping
		}

		g := &models.Grouping{AssignmentID: assignment.ID, GroupID: group.ID}
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		for i := range members {
			if err := addMember(tx, assignment, g, &members[i], i == 0); err != nil {
				return err
			}
		}

		g.Group = *group
		imported = g

		return nil
	})
	if err != nil {
		return nil, err
	}

	return imported, nil
}

// ImportRows drives ImportRow over a batch. With atomic set, any row failure
// rolls the whole batch back and the first error is returned; otherwise
// failures are collected per row and previously succeeded rows are kept.
func ImportRows(db *gorm.DB, assignment *models.Assignment, rows [][]string, atomic bool) ([]models.Grouping, []RowError, error) {
	if db == nil {
		return nil, nil, ErrDBNil
	}

	var created []models.Grouping

	if atomic {
		err := db.Transaction(func(tx *gorm.DB) error {
			for i := range rows {
				g, err := ImportRow(tx, assignment, rows[i])
				if err != nil {
					return err
				}
				if g != nil {
					created = append(created, *g)
				}
			}

			return nil
		})
		if err != nil {
			return nil, nil, err
		}

		return created, nil, nil
	}

	var failures []RowError

	for i := range rows {
		g, err := ImportRow(db, assignment, rows[i])
		if err != nil {
			failures = append(failures, RowError{Row: i, Err: err})
			continue
		}
		if g != nil {
			created = append(created, *g)
		}
	}

	return created, failures, nil
}

// resolveMembers resolves every trimmed username to a student, collecting
// all misses into one UsersNotFoundError.
func resolveMembers(tx *gorm.DB, names []string) ([]models.User, error) {
	var (
		members  []models.User
		notFound []string
	)

	for _, raw := range names {
		name := strings.TrimSpace(raw)

		var student models.User
		err := tx.Where("username = ? AND role = ?", name, models.RoleStudent).First(&student).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound = append(notFound, name)
			continue
		}
		if err != nil {
			return nil, err
		}

		members = append(members, student)
	}

	if len(notFound) > 0 {
		return nil, &UsersNotFoundError{Names: notFound}
	}

	return members, nil
}

func resolveGroupByName(tx *gorm.DB, name string) (*models.Group, error) {
	var group models.Group

	err := tx.Where("group_name = ?", name).First(&group).Error
	if err == nil {
		return &group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Imported groups carry their repo name from the row, so the
	// repository is not system-managed.
	group = models.Group{GroupName: name, RepositoryAdmin: false}
	if err := tx.Create(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// addMember places a pre-confirmed member into the grouping: the first
// member as inviter, the rest as accepted. This deliberately bypasses the
// interactive invite path; imported memberships are never left pending.
func addMember(tx *gorm.DB, assignment *models.Assignment, g *models.Grouping, student *models.User, first bool) error {
	var count int64
	if err := tx.Model(&models.Membership{}).
		Joins("JOIN groupings ON groupings.id = memberships.grouping_id").
		Where("groupings.assignment_id = ?", assignment.ID).
		Where("memberships.user_id = ?", student.ID).
		Where("memberships.status IN ?", []models.MembershipStatus{
			models.StatusInviter, models.StatusAccepted,
		}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return grouping.ErrAlreadyGrouped
	}

	status := models.StatusAccepted
	if first {
		status = models.StatusInviter
	}

	m := &models.Membership{
		GroupingID: g.ID,
		UserID:     student.ID,
		Role:       models.MembershipRoleStudent,
		Status:     status,
	}

	return tx.Create(m).Error
}
