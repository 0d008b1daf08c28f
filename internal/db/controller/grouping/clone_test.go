package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/models"
)

func countFor(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)

	return count
}

func TestCloneGroupingsFrom(t *testing.T) {
	db := setupTestDB(t)

	source := seedAssignment(t, db, "A1", 2, 3, true)
	target := seedAssignment(t, db, "A2", 1, 1, false)

	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")
	carol := seedStudent(t, db, "carol", "Cox")
	dave := seedStudent(t, db, "dave", "Dunn")
	erin := seedStudent(t, db, "erin", "Eden")

	// 3 groupings, 5 memberships with mixed statuses
	g1, err := CreateGroup(db, source, "")
	require.NoError(t, err)
	_, err = InviteMember(db, g1, alice, true)
	require.NoError(t, err)
	m, err := InviteMember(db, g1, bob, false)
	require.NoError(t, err)
	require.NoError(t, Accept(db, m))

	g2, err := CreateGroup(db, source, "")
	require.NoError(t, err)
	_, err = InviteMember(db, g2, carol, true)
	require.NoError(t, err)
	_, err = InviteMember(db, g2, dave, false)
	require.NoError(t, err)

	g3, err := CreateGroup(db, source, "")
	require.NoError(t, err)
	_, err = InviteMember(db, g3, erin, true)
	require.NoError(t, err)

	require.NoError(t, CloneGroupingsFrom(db, source, target))

	t.Run("target receives the policy fields", func(t *testing.T) {
		var reloaded models.Assignment
		require.NoError(t, db.First(&reloaded, target.ID).Error)
		assert.Equal(t, 2, reloaded.GroupMin)
		assert.Equal(t, 3, reloaded.GroupMax)
		assert.True(t, reloaded.GroupNameAutogenerated)
	})

	t.Run("groupings and memberships are duplicated", func(t *testing.T) {
		assert.EqualValues(t, 3, countFor(t, db, &models.Grouping{}, "assignment_id = ?", target.ID))

		cloned := countFor(t, db, &models.Membership{},
			"grouping_id IN (?)",
			db.Model(&models.Grouping{}).Select("id").Where("assignment_id = ?", target.ID))
		assert.EqualValues(t, 5, cloned)
	})

	t.Run("statuses and groups are preserved", func(t *testing.T) {
		var clone models.Grouping
		require.NoError(t, db.Preload("Memberships").
			Where("assignment_id = ? AND group_id = ?", target.ID, g1.GroupID).
			First(&clone).Error)

		statuses := map[models.MembershipStatus]int{}
		for _, m := range clone.Memberships {
			statuses[m.Status]++
		}
		assert.Equal(t, 1, statuses[models.StatusInviter])
		assert.Equal(t, 1, statuses[models.StatusAccepted])
	})

	t.Run("source is untouched", func(t *testing.T) {
		assert.EqualValues(t, 3, countFor(t, db, &models.Grouping{}, "assignment_id = ?", source.ID))

		srcMemberships := countFor(t, db, &models.Membership{},
			"grouping_id IN (?)",
			db.Model(&models.Grouping{}).Select("id").Where("assignment_id = ?", source.ID))
		assert.EqualValues(t, 5, srcMemberships)
	})

	t.Run("second clone into same target rolls back entirely", func(t *testing.T) {
		before := countFor(t, db, &models.Grouping{}, "assignment_id = ?", target.ID)

		err := CloneGroupingsFrom(db, source, target)
		require.Error(t, err, "duplicate (assignment, group) pairs must fail")

		after := countFor(t, db, &models.Grouping{}, "assignment_id = ?", target.ID)
		assert.Equal(t, before, after, "partial clone must not be observable")
	})
}

func TestReplaceSubmissionRule(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 1, 1, true)

	t.Run("replacement leaves exactly one rule", func(t *testing.T) {
		oldID := a.SubmissionRule.ID
		require.NotZero(t, oldID)

		newRule := &models.SubmissionRule{Type: models.RuleGracePeriod, Hours: 48}
		require.NoError(t, ReplaceSubmissionRule(db, a, newRule))

		assert.EqualValues(t, 1, countFor(t, db, &models.SubmissionRule{}, "assignment_id = ?", a.ID))

		var current models.SubmissionRule
		require.NoError(t, db.Where("assignment_id = ?", a.ID).First(&current).Error)
		assert.Equal(t, models.RuleGracePeriod, current.Type)
		assert.InDelta(t, 48, current.Hours, 1e-9)

		err := db.First(&models.SubmissionRule{}, oldID).Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound, "old rule must be gone")
	})

	t.Run("nil database", func(t *testing.T) {
		require.ErrorIs(t, ReplaceSubmissionRule(nil, a, &models.SubmissionRule{}), ErrDBNil)
	})
}
