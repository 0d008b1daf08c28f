package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&User{},
		&Assignment{},
		&SubmissionRule{},
		&RubricCriterion{},
		&Group{},
		&Grouping{},
		&Membership{},
		&Submission{},
		&Result{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGroupAssignment(t *testing.T) {
	testCases := []struct {
		name                 string
		groupMin             int
		groupMax             int
		instructorFormGroups bool
		expected             bool
	}{
		{name: "solo work", groupMin: 1, groupMax: 1, expected: false},
		{name: "group max above one", groupMin: 1, groupMax: 3, expected: true},
		{name: "group min above one", groupMin: 2, groupMax: 2, expected: true},
		{
			// The formula counts instructor-formed solo work as a group
			// assignment; the inconsistency is kept on purpose.
			name:                 "instructor forms solo groups",
			groupMin:             1,
			groupMax:             1,
			instructorFormGroups: true,
			expected:             true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := Assignment{
				GroupMin:             tc.groupMin,
				GroupMax:             tc.groupMax,
				InstructorFormGroups: tc.instructorFormGroups,
			}
			assert.Equal(t, tc.expected, a.GroupAssignment())
		})
	}
}

func TestIndividual(t *testing.T) {
	solo := Assignment{GroupMin: 1, GroupMax: 1}
	assert.True(t, solo.Individual())

	pair := Assignment{GroupMin: 1, GroupMax: 2}
	assert.False(t, pair.Individual())
}

func TestGroupNameAutogeneratedPersistsFalse(t *testing.T) {
	db := setupTestDB(t)

	a := Assignment{
		ShortIdentifier:        "A1",
		DueDate:                time.Now().Add(24 * time.Hour),
		GroupMin:               1,
		GroupMax:               3,
		RepositoryFolder:       "A1",
		GroupNameAutogenerated: false,
	}
	require.NoError(t, db.Create(&a).Error)

	var reloaded Assignment
	require.NoError(t, db.First(&reloaded, a.ID).Error)
	assert.False(t, reloaded.GroupNameAutogenerated, "false must survive create and reload")
}
