package calculator

import "errors"

// Validation failures surfaced by the calculator. All are terminal for the
// offending call; nothing here is retried.
var (
	// ErrInvalidAmount is returned for a negative amount, on an expense
	// or on an explicit custom share.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrEmptyParticipants is returned when a split covers nobody.
	ErrEmptyParticipants = errors.New("at least one participant required")

	// ErrUnknownParticipant is returned when a custom amount names a
	// participant outside the covered set.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrDuplicateParticipant is returned when the covered set lists a
	// participant more than once.
	ErrDuplicateParticipant = errors.New("participant listed more than once")

	// ErrNegativeRemainder is returned when a custom split's explicit
	// amounts leave the remainder participant owing less than zero.
	ErrNegativeRemainder = errors.New("custom split remainder is negative")

	// ErrOverAllocated is returned when a custom split's explicit amounts
	// alone exceed the expense amount.
	ErrOverAllocated = errors.New("custom split amounts exceed expense amount")

	// ErrUnderAllocated is returned when a custom split gives every
	// participant an explicit amount but the amounts fall short of the
	// expense amount.
	ErrUnderAllocated = errors.New("custom split amounts fall short of expense amount")

	// ErrAmbiguousRemainder is returned when a custom split leaves more
	// than one participant without an explicit amount.
	ErrAmbiguousRemainder = errors.New("custom split leaves more than one remainder participant")
)
