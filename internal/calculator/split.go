// Package calculator holds the bill splitter's accounting core: split
// resolution, balance aggregation, and settlement planning. Every function
// is pure and deterministic; all arithmetic is exact minor-unit arithmetic.
package calculator

import (
	"fmt"

	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

// ResolveSplits divides amount among the given participants under rule and
// returns one split per participant, in participant order. The returned
// splits always sum to amount exactly, not merely within tolerance.
//
// For models.SplitCustom, custom supplies explicit amounts for all but at
// most one participant; the one left out absorbs the remainder. A custom
// split that names every participant must allocate the amount exactly.
//
// For models.SplitEqual, custom is ignored. Each participant gets the
// truncated equal share and the leftover minor units are handed out one per
// participant from the front of participantIDs, so the distribution is
// reproducible for identical inputs.
func ResolveSplits(amount money.Amount, rule models.SplitRule, participantIDs []string, custom map[string]money.Amount) ([]models.Split, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if len(participantIDs) == 0 {
		return nil, ErrEmptyParticipants
	}
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}

	switch rule {
	case models.SplitEqual:
		return equalSplits(amount, participantIDs), nil
	case models.SplitCustom:
		return customSplits(amount, participantIDs, custom)
	default:
		return nil, fmt.Errorf("unsupported split rule %q", rule)
	}
}

// equalSplits gives every participant the truncated share and distributes
// the remainder one minor unit at a time in input order, so the first
// (amount mod n) participants pay one unit more.
func equalSplits(amount money.Amount, participantIDs []string) []models.Split {
	n := int64(len(participantIDs))
	base := amount.Cents() / n
	leftover := amount.Cents() % n

	splits := make([]models.Split, len(participantIDs))
	for i, id := range participantIDs {
		share := base
		if int64(i) < leftover {
			share++
		}
		splits[i] = models.Split{ParticipantID: id, Amount: money.FromCents(share)}
	}
	return splits
}

// customSplits assigns each explicit amount and computes the remainder
// participant's share as what is left of amount.
func customSplits(amount money.Amount, participantIDs []string, custom map[string]money.Amount) ([]models.Split, error) {
	covered := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		covered[id] = true
	}
	for id := range custom {
		if !covered[id] {
			return nil, fmt.Errorf("%w: %s has a custom amount but is not covered by the expense", ErrUnknownParticipant, id)
		}
	}

	var allocated money.Amount
	remainderID := ""
	for _, id := range participantIDs {
		share, ok := custom[id]
		if !ok {
			if remainderID != "" {
				return nil, ErrAmbiguousRemainder
			}
			remainderID = id
			continue
		}
		if share < 0 {
			return nil, fmt.Errorf("%w: custom amount for %s is %s", ErrInvalidAmount, id, share)
		}
		allocated += share
	}

	if allocated > amount {
		if remainderID == "" {
			return nil, fmt.Errorf("%w: allocated %s of %s", ErrOverAllocated, allocated, amount)
		}
		return nil, fmt.Errorf("%w: %s would owe %s", ErrNegativeRemainder, remainderID, amount-allocated)
	}
	if remainderID == "" && allocated < amount {
		return nil, fmt.Errorf("%w: allocated %s of %s", ErrUnderAllocated, allocated, amount)
	}

	splits := make([]models.Split, len(participantIDs))
	for i, id := range participantIDs {
		share, ok := custom[id]
		if !ok {
			share = amount - allocated
		}
		splits[i] = models.Split{ParticipantID: id, Amount: share}
	}
	return splits, nil
}
