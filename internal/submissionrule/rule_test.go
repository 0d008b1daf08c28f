package submissionrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursemark/coursemark/internal/db/models"
)

var due = time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)

func TestCollectionTime(t *testing.T) {
	a := &models.Assignment{DueDate: due}

	testCases := []struct {
		name     string
		rule     Rule
		expected time.Time
	}{
		{
			name:     "no late submission collects at due date",
			rule:     NoLateSubmission{},
			expected: due,
		},
		{
			name:     "grace period extends by window",
			rule:     GracePeriod{Hours: 48},
			expected: due.Add(48 * time.Hour),
		},
		{
			name:     "grace period with zero hours collects at due date",
			rule:     GracePeriod{},
			expected: due,
		},
		{
			name:     "penalty period extends by window",
			rule:     PenaltyPeriod{Hours: 24, IntervalHours: 24, Deduction: 10},
			expected: due.Add(24 * time.Hour),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.rule.CollectionTime(a)
			assert.Equal(t, tc.expected, got)
			assert.False(t, got.Before(a.DueDate), "collection time must not precede due date")
		})
	}
}

func TestPenalty(t *testing.T) {
	a := &models.Assignment{DueDate: due}
	rule := PenaltyPeriod{Hours: 72, IntervalHours: 24, Deduction: 10}

	testCases := []struct {
		name        string
		submittedAt time.Time
		expected    float64
	}{
		{"on time", due.Add(-time.Hour), 0},
		{"exactly at due date", due, 0},
		{"one minute late starts first interval", due.Add(time.Minute), 10},
		{"just inside second interval", due.Add(25 * time.Hour), 20},
		{"end of window", due.Add(72 * time.Hour), 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, rule.Penalty(a, tc.submittedAt), 1e-9)
		})
	}
}

func TestFromModel(t *testing.T) {
	testCases := []struct {
		name          string
		model         *models.SubmissionRule
		expected      Rule
		expectedError error
	}{
		{
			name:          "nil rule",
			model:         nil,
			expectedError: ErrMissingRule,
		},
		{
			name:          "unknown type",
			model:         &models.SubmissionRule{Type: "extension_cascade"},
			expectedError: ErrUnknownRuleType,
		},
		{
			name:     "no late submission",
			model:    &models.SubmissionRule{Type: models.RuleNoLateSubmission},
			expected: NoLateSubmission{},
		},
		{
			name:     "grace period",
			model:    &models.SubmissionRule{Type: models.RuleGracePeriod, Hours: 12},
			expected: GracePeriod{Hours: 12},
		},
		{
			name:     "penalty period",
			model:    &models.SubmissionRule{Type: models.RulePenaltyPeriod, Hours: 48, IntervalHours: 24, Deduction: 5},
			expected: PenaltyPeriod{Hours: 48, IntervalHours: 24, Deduction: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := FromModel(tc.model)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, rule)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, rule)
			}
		})
	}
}

func TestPastChecks(t *testing.T) {
	a := &models.Assignment{DueDate: due}
	rule := GracePeriod{Hours: 24}

	assert.False(t, PastDueDate(a, due))
	assert.True(t, PastDueDate(a, due.Add(time.Second)))

	assert.False(t, PastCollectionTime(rule, a, due.Add(24*time.Hour)))
	assert.True(t, PastCollectionTime(rule, a, due.Add(24*time.Hour+time.Second)))
}

func TestKnownType(t *testing.T) {
	assert.True(t, KnownType(models.RuleNoLateSubmission))
	assert.True(t, KnownType(models.RuleGracePeriod))
	assert.True(t, KnownType(models.RulePenaltyPeriod))
	assert.False(t, KnownType("extension_cascade"))
}
