package submissionrule

import "errors"

var (
	// ErrMissingRule is returned when an assignment has no submission rule
	// attached. The replace-atomically contract should make this
	// unreachable; seeing it means an internal invariant was broken.
	ErrMissingRule = errors.New("assignment has no submission rule")

	// ErrUnknownRuleType is returned for a rule row with an unrecognized type tag.
	ErrUnknownRuleType = errors.New("unknown submission rule type")
)
