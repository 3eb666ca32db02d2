// Package ledger owns the participant and expense collections for one bill.
//
// A Ledger is a validated mutable aggregate: every mutation is checked
// against the bill's structural invariants before it is committed, and a
// rejected mutation leaves the committed state untouched. Derived values
// (balances, settlement plans) are never stored here; callers recompute
// them from a Snapshot through the calculator package.
//
// The ledger itself is not safe for concurrent mutation; callers that share
// a bill across goroutines serialize mutations per bill.
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaiAnoba/bs-v1/internal/calculator"
	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

var (
	// ErrInvariantViolation is returned when a mutation would break one of
	// the bill's structural invariants. The mutation is rejected whole.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNotFound is returned when a referenced expense or participant
	// does not exist on the bill.
	ErrNotFound = errors.New("not found")

	// ErrUnknownParticipant is returned when a payer or covered
	// participant is not a member of the bill.
	ErrUnknownParticipant = calculator.ErrUnknownParticipant
)

// ExpenseDraft carries the caller-supplied fields of an expense before its
// splits are resolved. ParticipantIDs is the covered set in the order the
// splits should be stored; CustomAmounts is consulted only for
// models.SplitCustom.
type ExpenseDraft struct {
	Description    string
	Amount         money.Amount
	PayerID        string
	Date           string
	Rule           models.SplitRule
	ParticipantIDs []string
	CustomAmounts  map[string]money.Amount
}

// Ledger wraps one bill with commit-or-reject mutation semantics.
type Ledger struct {
	bill *models.Bill
}

// New builds a ledger around an existing bill snapshot, validating it
// first. The snapshot is cloned; the caller's copy stays independent.
func New(bill *models.Bill) (*Ledger, error) {
	c := bill.Clone()
	if err := check(c); err != nil {
		return nil, err
	}
	return &Ledger{bill: c}, nil
}

// Snapshot returns a deep copy of the committed bill.
func (l *Ledger) Snapshot() *models.Bill { return l.bill.Clone() }

// Participants returns a copy of the membership list in insertion order.
func (l *Ledger) Participants() []models.Participant {
	out := make([]models.Participant, len(l.bill.Participants))
	copy(out, l.bill.Participants)
	return out
}

// Expenses returns a deep copy of the expense collection in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	return l.Snapshot().Expenses
}

// AddParticipant adds a new member and returns it. The generated ID is
// unique within the bill.
func (l *Ledger) AddParticipant(name, email string, role models.Role) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: participant name required", ErrInvariantViolation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvariantViolation, role)
	}
	p := models.Participant{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	l.bill.Participants = append(l.bill.Participants, p)
	return &p, nil
}

// RemoveParticipant removes a member. It is rejected while the participant
// pays for or is covered by any expense, and always rejected for the bill
// owner.
func (l *Ledger) RemoveParticipant(id string) error {
	p := l.bill.Participant(id)
	if p == nil {
		return fmt.Errorf("%w: participant %s", ErrNotFound, id)
	}
	if p.Role == models.RoleOwner || p.ID == l.bill.CreatedBy {
		return fmt.Errorf("%w: cannot remove the bill owner", ErrInvariantViolation)
	}
	for i := range l.bill.Expenses {
		e := &l.bill.Expenses[i]
		if e.PayerID == id {
			return fmt.Errorf("%w: participant %s is the payer of expense %s", ErrInvariantViolation, id, e.ID)
		}
		for j := range e.Splits {
			if e.Splits[j].ParticipantID == id {
				return fmt.Errorf("%w: participant %s has a split on expense %s", ErrInvariantViolation, id, e.ID)
			}
		}
	}
	for i := range l.bill.Participants {
		if l.bill.Participants[i].ID == id {
			l.bill.Participants = append(l.bill.Participants[:i], l.bill.Participants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: participant %s", ErrNotFound, id)
}

// AddExpense resolves the draft's splits and appends the expense. Nothing
// is committed if resolution or validation fails.
func (l *Ledger) AddExpense(draft ExpenseDraft) (*models.Expense, error) {
	e, err := l.resolve(draft)
	if err != nil {
		return nil, err
	}
	e.ID = uuid.New().String()
	l.bill.Expenses = append(l.bill.Expenses, *e)
	committed := *e
	return &committed, nil
}

// UpdateExpense re-resolves the draft and replaces the stored expense
// atomically; the old splits are never observable alongside the new ones.
// Paid flags carry over for participants whose entry survives the edit.
func (l *Ledger) UpdateExpense(id string, draft ExpenseDraft) (*models.Expense, error) {
	old := l.bill.Expense(id)
	if old == nil {
		return nil, fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	e, err := l.resolve(draft)
	if err != nil {
		return nil, err
	}
	e.ID = id

	paid := make(map[string]bool, len(old.Splits))
	for _, s := range old.Splits {
		paid[s.ParticipantID] = s.Paid
	}
	for i := range e.Splits {
		e.Splits[i].Paid = paid[e.Splits[i].ParticipantID]
	}

	*old = *e
	committed := *e
	return &committed, nil
}

// RemoveExpense deletes an expense and its splits.
func (l *Ledger) RemoveExpense(id string) error {
	for i := range l.bill.Expenses {
		if l.bill.Expenses[i].ID == id {
			l.bill.Expenses = append(l.bill.Expenses[:i], l.bill.Expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: expense %s", ErrNotFound, id)
}

// SetSplitPaid flips one split's paid flag. The flag is caller-owned state;
// no balance or settlement computation reads it.
func (l *Ledger) SetSplitPaid(expenseID, participantID string, paid bool) error {
	e := l.bill.Expense(expenseID)
	if e == nil {
		return fmt.Errorf("%w: expense %s", ErrNotFound, expenseID)
	}
	for i := range e.Splits {
		if e.Splits[i].ParticipantID == participantID {
			e.Splits[i].Paid = paid
			return nil
		}
	}
	return fmt.Errorf("%w: no split for participant %s on expense %s", ErrNotFound, participantID, expenseID)
}

// Archive marks the bill archived. Archived bills stay fully readable.
func (l *Ledger) Archive() { l.bill.Archived = true }

// resolve validates a draft against the membership list and runs the split
// calculator, returning the expense ready to commit (without an ID).
func (l *Ledger) resolve(draft ExpenseDraft) (*models.Expense, error) {
	if l.bill.Participant(draft.PayerID) == nil {
		return nil, fmt.Errorf("%w: payer %s is not on the bill", ErrUnknownParticipant, draft.PayerID)
	}
	for _, id := range draft.ParticipantIDs {
		if l.bill.Participant(id) == nil {
			return nil, fmt.Errorf("%w: %s is not on the bill", ErrUnknownParticipant, id)
		}
	}
	splits, err := calculator.ResolveSplits(draft.Amount, draft.Rule, draft.ParticipantIDs, draft.CustomAmounts)
	if err != nil {
		return nil, err
	}
	return &models.Expense{
		Description: draft.Description,
		Amount:      draft.Amount,
		PayerID:     draft.PayerID,
		Date:        draft.Date,
		Rule:        draft.Rule,
		Splits:      splits,
	}, nil
}

// check validates a whole bill against the structural invariants. It is run
// on snapshots entering the ledger from outside (New); internal mutations
// preserve the invariants by construction.
func check(bill *models.Bill) error {
	members := make(map[string]bool, len(bill.Participants))
	for i := range bill.Participants {
		id := bill.Participants[i].ID
		if id == "" {
			return fmt.Errorf("%w: participant without an id", ErrInvariantViolation)
		}
		if members[id] {
			return fmt.Errorf("%w: duplicate participant %s", ErrInvariantViolation, id)
		}
		members[id] = true
	}

	for i := range bill.Expenses {
		e := &bill.Expenses[i]
		if e.Amount < 0 {
			return fmt.Errorf("%w: expense %s has negative amount %s", ErrInvariantViolation, e.ID, e.Amount)
		}
		if !members[e.PayerID] {
			return fmt.Errorf("%w: expense %s payer %s is not on the bill", ErrInvariantViolation, e.ID, e.PayerID)
		}
		seen := make(map[string]bool, len(e.Splits))
		var sum money.Amount
		for j := range e.Splits {
			s := &e.Splits[j]
			if s.Amount < 0 {
				return fmt.Errorf("%w: expense %s split for %s is negative", ErrInvariantViolation, e.ID, s.ParticipantID)
			}
			if !members[s.ParticipantID] {
				return fmt.Errorf("%w: expense %s split references non-member %s", ErrInvariantViolation, e.ID, s.ParticipantID)
			}
			if seen[s.ParticipantID] {
				return fmt.Errorf("%w: expense %s splits %s twice", ErrInvariantViolation, e.ID, s.ParticipantID)
			}
			seen[s.ParticipantID] = true
			sum += s.Amount
		}
		if diff := sum - e.Amount; !diff.IsZero() {
			return fmt.Errorf("%w: expense %s splits sum to %s, amount is %s", ErrInvariantViolation, e.ID, sum, e.Amount)
		}
	}
	return nil
}
