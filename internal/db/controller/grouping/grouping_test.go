package grouping

import (
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Assignment{},
		&models.SubmissionRule{},
		&models.RubricCriterion{},
		&models.Group{},
		&models.Grouping{},
		&models.Membership{},
		&models.Submission{},
		&models.Result{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedAssignment inserts an assignment with a no-late rule.
func seedAssignment(t *testing.T, db *gorm.DB, shortID string, groupMin, groupMax int, autogenerated bool) *models.Assignment {
	t.Helper()

	a := &models.Assignment{
		ShortIdentifier:        shortID,
		DueDate:                time.Now().Add(14 * 24 * time.Hour),
		GroupMin:               groupMin,
		GroupMax:               groupMax,
		RepositoryFolder:       shortID,
		GroupNameAutogenerated: autogenerated,
		SubmissionRule:         models.SubmissionRule{Type: models.RuleNoLateSubmission},
	}
	require.NoError(t, db.Create(a).Error, "failed to seed assignment")

	return a
}

// seedStudent inserts an active student.
func seedStudent(t *testing.T, db *gorm.DB, username, lastName string) *models.User {
	t.Helper()

	u := &models.User{Username: username, LastName: lastName, Role: models.RoleStudent, Active: true}
	require.NoError(t, db.Create(u).Error, "failed to seed student")

	return u
}

func seedTA(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username, Role: models.RoleTA, Active: true}
	require.NoError(t, db.Create(u).Error, "failed to seed ta")

	return u
}

func TestCreateGroup(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := CreateGroup(nil, &models.Assignment{}, "x")
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("autogenerated name from fresh id", func(t *testing.T) {
		db := setupTestDB(t)
		a := seedAssignment(t, db, "A1", 1, 2, true)

		g, err := CreateGroup(db, a, "")
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Equal(t, a.ID, g.AssignmentID)
		assert.Regexp(t, `^group_\d+$`, g.Group.GroupName)

		var group models.Group
		require.NoError(t, db.First(&group, g.GroupID).Error)
		assert.Equal(t, "group_"+strconv.FormatUint(uint64(group.ID), 10), group.GroupName)
		assert.Equal(t, group.GroupName, group.RepoName)
	})

	t.Run("missing name when not autogenerated", func(t *testing.T) {
		db := setupTestDB(t)
		a := seedAssignment(t, db, "A1", 1, 2, false)

		_, err := CreateGroup(db, a, "")
		require.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("reuses existing group by name", func(t *testing.T) {
		db := setupTestDB(t)
		a1 := seedAssignment(t, db, "A1", 1, 2, false)
		a2 := seedAssignment(t, db, "A2", 1, 2, false)

		g1, err := CreateGroup(db, a1, "the-cool-kids")
		require.NoError(t, err)

		g2, err := CreateGroup(db, a2, "the-cool-kids")
		require.NoError(t, err)
		assert.Equal(t, g1.GroupID, g2.GroupID, "same group should be reused across assignments")

		var count int64
		db.Model(&models.Group{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("duplicate grouping for same assignment and group", func(t *testing.T) {
		db := setupTestDB(t)
		a := seedAssignment(t, db, "A1", 1, 2, false)

		_, err := CreateGroup(db, a, "the-cool-kids")
		require.NoError(t, err)

		_, err = CreateGroup(db, a, "the-cool-kids")
		require.ErrorIs(t, err, ErrDuplicateGrouping)

		var count int64
		db.Model(&models.Grouping{}).Count(&count)
		assert.EqualValues(t, 1, count, "failed create must not leave extra groupings")
	})
}

func TestInviteMember(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 2, 3, true)
	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")
	carol := seedStudent(t, db, "carol", "Cox")
	dave := seedStudent(t, db, "dave", "Dunn")
	erin := seedStudent(t, db, "erin", "Eden")

	g1, err := CreateGroup(db, a, "")
	require.NoError(t, err)
	g2, err := CreateGroup(db, a, "")
	require.NoError(t, err)

	t.Run("inviter membership", func(t *testing.T) {
		m, err := InviteMember(db, g1, alice, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInviter, m.Status)
		assert.Equal(t, models.MembershipRoleStudent, m.Role)
	})

	t.Run("second inviter rejected", func(t *testing.T) {
		_, err := InviteMember(db, g1, bob, true)
		require.ErrorIs(t, err, ErrInviterExists)
	})

	t.Run("pending invite", func(t *testing.T) {
		m, err := InviteMember(db, g1, bob, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, m.Status)
	})

	t.Run("already grouped across groupings of the same assignment", func(t *testing.T) {
		_, err := InviteMember(db, g2, alice, false)
		require.ErrorIs(t, err, ErrAlreadyGrouped)
	})

	t.Run("pending member may still be invited elsewhere", func(t *testing.T) {
		m, err := InviteMember(db, g2, bob, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInviter, m.Status)
	})

	t.Run("grouping full at group max", func(t *testing.T) {
		_, err := InviteMember(db, g1, carol, false)
		require.NoError(t, err)

		_, err = InviteMember(db, g1, dave, false)
		require.ErrorIs(t, err, ErrGroupingFull)
	})

	t.Run("only students can be invited", func(t *testing.T) {
		ta := seedTA(t, db, "ta1")
		_, err := InviteMember(db, g2, ta, false)
		require.ErrorIs(t, err, ErrStudentsOnly)

		_ = erin // erin stays ungrouped for the listing tests below
	})
}

func TestAcceptReject(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 1, 4, true)
	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")

	g, err := CreateGroup(db, a, "")
	require.NoError(t, err)

	inviter, err := InviteMember(db, g, alice, true)
	require.NoError(t, err)

	pending, err := InviteMember(db, g, bob, false)
	require.NoError(t, err)

	t.Run("accept pending", func(t *testing.T) {
		require.NoError(t, Accept(db, pending))
		assert.Equal(t, models.StatusAccepted, pending.Status)
	})

	t.Run("accept non-pending fails", func(t *testing.T) {
		require.ErrorIs(t, Accept(db, pending), ErrInvalidTransition)
	})

	t.Run("reject non-pending fails", func(t *testing.T) {
		require.ErrorIs(t, Reject(db, inviter), ErrInvalidTransition)
	})

	t.Run("reject pending", func(t *testing.T) {
		carol := seedStudent(t, db, "carol", "Cox")
		m, err := InviteMember(db, g, carol, false)
		require.NoError(t, err)

		require.NoError(t, Reject(db, m))
		assert.Equal(t, models.StatusRejected, m.Status)
	})
}

func TestIsValid(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 3, 5, true)
	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")

	g, err := CreateGroup(db, a, "")
	require.NoError(t, err)

	_, err = InviteMember(db, g, alice, true)
	require.NoError(t, err)

	m, err := InviteMember(db, g, bob, false)
	require.NoError(t, err)
	require.NoError(t, Accept(db, m))

	t.Run("below minimum is invalid", func(t *testing.T) {
		valid, err := IsValid(db, g)
		require.NoError(t, err)
		assert.False(t, valid, "2 of 3 members should be invalid")
	})

	t.Run("admin approval overrides minimum", func(t *testing.T) {
		require.NoError(t, db.Model(g).Update("admin_approved", true).Error)
		g.AdminApproved = true

		valid, err := IsValid(db, g)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("pending members do not count", func(t *testing.T) {
		g2, err := CreateGroup(db, a, "")
		require.NoError(t, err)

		carol := seedStudent(t, db, "carol", "Cox")
		dave := seedStudent(t, db, "dave", "Dunn")
		erin := seedStudent(t, db, "erin", "Eden")

		_, err = InviteMember(db, g2, carol, true)
		require.NoError(t, err)
		_, err = InviteMember(db, g2, dave, false)
		require.NoError(t, err)
		_, err = InviteMember(db, g2, erin, false)
		require.NoError(t, err)

		valid, err := IsValid(db, g2)
		require.NoError(t, err)
		assert.False(t, valid, "1 inviter + 2 pending is under the threshold")
	})
}

func TestStudentListings(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 2, 4, true)
	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")
	carol := seedStudent(t, db, "carol", "Cox")

	hidden := &models.User{Username: "mallory", LastName: "Mars", Role: models.RoleStudent, Hidden: true}
	require.NoError(t, db.Create(hidden).Error)

	g, err := CreateGroup(db, a, "")
	require.NoError(t, err)

	_, err = InviteMember(db, g, alice, true)
	require.NoError(t, err)
	_, err = InviteMember(db, g, bob, false) // pending only
	require.NoError(t, err)

	t.Run("ungrouped excludes inviter, includes pending, hides hidden", func(t *testing.T) {
		students, err := UngroupedStudents(db, a)
		require.NoError(t, err)

		names := usernames(students)
		assert.Equal(t, []string{"bob", "carol"}, names, "ordered by last name")
	})

	t.Run("invitable additionally excludes pending invites of this grouping", func(t *testing.T) {
		students, err := InvitableStudents(db, g)
		require.NoError(t, err)
		assert.Equal(t, []string{"carol"}, usernames(students))
	})

	_ = carol
}

func TestPartitions(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 2, 4, true)
	alice := seedStudent(t, db, "alice", "Abbott")
	bob := seedStudent(t, db, "bob", "Baker")
	carol := seedStudent(t, db, "carol", "Cox")
	ta := seedTA(t, db, "ta1")

	full, err := CreateGroup(db, a, "")
	require.NoError(t, err)
	_, err = InviteMember(db, full, alice, true)
	require.NoError(t, err)
	m, err := InviteMember(db, full, bob, false)
	require.NoError(t, err)
	require.NoError(t, Accept(db, m))

	small, err := CreateGroup(db, a, "")
	require.NoError(t, err)
	_, err = InviteMember(db, small, carol, true)
	require.NoError(t, err)

	t.Run("validity partition", func(t *testing.T) {
		valid, err := ValidGroupings(db, a)
		require.NoError(t, err)
		invalid, err := InvalidGroupings(db, a)
		require.NoError(t, err)

		require.Len(t, valid, 1)
		require.Len(t, invalid, 1)
		assert.Equal(t, full.ID, valid[0].ID)
		assert.Equal(t, small.ID, invalid[0].ID)
	})

	t.Run("ta assignment partition", func(t *testing.T) {
		_, err := AssignTA(db, full, ta)
		require.NoError(t, err)

		assigned, err := AssignedGroupings(db, a)
		require.NoError(t, err)
		unassigned, err := UnassignedGroupings(db, a)
		require.NoError(t, err)

		require.Len(t, assigned, 1)
		require.Len(t, unassigned, 1)
		assert.Equal(t, full.ID, assigned[0].ID)
		assert.Equal(t, small.ID, unassigned[0].ID)
	})

	t.Run("assigning twice fails", func(t *testing.T) {
		_, err := AssignTA(db, full, ta)
		require.ErrorIs(t, err, ErrAlreadyAssigned)
	})

	t.Run("students cannot be assigned as graders", func(t *testing.T) {
		_, err := AssignTA(db, full, alice)
		require.ErrorIs(t, err, ErrNotTeachingAssistant)
	})
}

func TestCreateSoloGroupings(t *testing.T) {
	db := setupTestDB(t)
	a := seedAssignment(t, db, "A1", 1, 1, true)
	seedStudent(t, db, "alice", "Abbott")
	seedStudent(t, db, "bob", "Baker")
	seedStudent(t, db, "carol", "Cox")

	created, err := CreateSoloGroupings(db, a)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var groupings int64
	db.Model(&models.Grouping{}).Where("assignment_id = ?", a.ID).Count(&groupings)
	assert.EqualValues(t, 3, groupings)

	var inviters int64
	db.Model(&models.Membership{}).Where("status = ?", models.StatusInviter).Count(&inviters)
	assert.EqualValues(t, 3, inviters)

	t.Run("idempotent for already grouped students", func(t *testing.T) {
		created, err := CreateSoloGroupings(db, a)
		require.NoError(t, err)
		assert.Zero(t, created)
	})
}

func usernames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for i := range users {
		out = append(out, users[i].Username)
	}

	return out
}
