// Package submissionrule interprets the lateness policy attached to an
// assignment. Each policy variant turns the assignment due date into the
// effective collection time after which no submission content counts.
package submissionrule

import (
	"math"
	"time"

	"github.com/coursemark/coursemark/internal/db/models"
)

// Rule is the contract every lateness policy satisfies. CollectionTime never
// returns an instant before the assignment due date.
type Rule interface {
	CollectionTime(a *models.Assignment) time.Time
}

// NoLateSubmission collects exactly at the due date.
type NoLateSubmission struct{}

// CollectionTime returns the due date itself.
func (NoLateSubmission) CollectionTime(a *models.Assignment) time.Time {
	return a.DueDate
}

// GracePeriod extends collection past the due date by a penalty-free window.
type GracePeriod struct {
	// Hours is the window length past the due date.
	Hours float64
}

// CollectionTime returns the due date extended by the grace window.
func (r GracePeriod) CollectionTime(a *models.Assignment) time.Time {
	if r.Hours <= 0 {
		return a.DueDate
	}

	return a.DueDate.Add(hours(r.Hours))
}

// PenaltyPeriod extends collection past the due date by a window in which
// marks are deducted per started interval of lateness.
type PenaltyPeriod struct {
	// Hours is the window length past the due date.
	Hours float64
	// IntervalHours is the size of one penalty interval.
	IntervalHours float64
	// Deduction is the mark deduction per started interval.
	Deduction float64
}

// CollectionTime returns the due date extended by the penalty window.
func (r PenaltyPeriod) CollectionTime(a *models.Assignment) time.Time {
	if r.Hours <= 0 {
		return a.DueDate
	}

	return a.DueDate.Add(hours(r.Hours))
}

// Penalty returns the total mark deduction for a submission collected at
// submittedAt. Submissions at or before the due date carry no penalty; every
// started interval of lateness adds one deduction.
func (r PenaltyPeriod) Penalty(a *models.Assignment, submittedAt time.Time) float64 {
	if !submittedAt.After(a.DueDate) {
		return 0
	}

	if r.IntervalHours <= 0 {
		return r.Deduction
	}

	late := submittedAt.Sub(a.DueDate)
	intervals := math.Ceil(late.Hours() / r.IntervalHours)

	return intervals * r.Deduction
}

// FromModel maps a persisted submission rule row to its policy variant.
func FromModel(m *models.SubmissionRule) (Rule, error) {
	if m == nil {
		return nil, ErrMissingRule
	}

	switch m.Type {
	case models.RuleNoLateSubmission:
		return NoLateSubmission{}, nil
	case models.RuleGracePeriod:
		return GracePeriod{Hours: m.Hours}, nil
	case models.RulePenaltyPeriod:
		return PenaltyPeriod{
			Hours:         m.Hours,
			IntervalHours: m.IntervalHours,
			Deduction:     m.Deduction,
		}, nil
	default:
		return nil, ErrUnknownRuleType
	}
}

// KnownType reports whether t names a shipped policy variant.
func KnownType(t models.SubmissionRuleType) bool {
	switch t {
	case models.RuleNoLateSubmission, models.RuleGracePeriod, models.RulePenaltyPeriod:
		return true
	default:
		return false
	}
}

// PastDueDate reports whether now is past the assignment due date.
func PastDueDate(a *models.Assignment, now time.Time) bool {
	return a.PastDueDate(now)
}

// PastCollectionTime reports whether now is past the rule-adjusted deadline.
func PastCollectionTime(r Rule, a *models.Assignment, now time.Time) bool {
	return now.After(r.CollectionTime(a))
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
