package models

import "github.com/JaiAnoba/bs-v1/internal/money"

// Role tags a participant for the UI layer's permission checks.
// The accounting core only consults it to protect the bill owner
// from removal.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleStandard Role = "standard"
	RolePremium  Role = "premium"
	RoleOwner    Role = "owner"
)

// ValidRole reports whether r is one of the known role tags.
func ValidRole(r Role) bool {
	switch r {
	case RoleGuest, RoleStandard, RolePremium, RoleOwner:
		return true
	}
	return false
}

// SplitRule selects how an expense is divided among its participants.
type SplitRule string

const (
	// SplitEqual divides the amount evenly, spreading leftover minor
	// units one per participant in insertion order.
	SplitEqual SplitRule = "equal"

	// SplitCustom takes explicit per-participant amounts, with at most
	// one participant absorbing the remainder.
	SplitCustom SplitRule = "custom"
)

// ValidSplitRule reports whether r is one of the known split rules.
func ValidSplitRule(r SplitRule) bool {
	return r == SplitEqual || r == SplitCustom
}

// Participant is one person on a bill.
type Participant struct {
	// ID is unique within the bill (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Email is the contact address.
	Email string

	// Role is the account-tier tag; see Role.
	Role Role
}

// Split is one participant's owed share of one expense.
type Split struct {
	// ParticipantID references a participant on the same bill.
	ParticipantID string

	// Amount is the owed share in minor units, never negative.
	Amount money.Amount

	// Paid is flipped by the caller when the share is settled; the
	// accounting core stores it but never changes it.
	Paid bool
}

// Expense is one payment made on behalf of some subset of a bill's
// participants. Its splits are resolved at creation/edit time and always
// sum to Amount exactly.
type Expense struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Description is the human-readable label ("Dinner", "Taxi").
	Description string

	// Amount is the full expense value in minor units, never negative.
	Amount money.Amount

	// PayerID references the participant who fronted the money.
	PayerID string

	// Date is the day the expense was incurred, as YYYY-MM-DD.
	Date string

	// Rule records how Splits was produced.
	Rule SplitRule

	// Splits lists each covered participant's share, at most one entry
	// per participant, in the order the splits were resolved.
	Splits []Split
}

// Bill is a group expense-sharing session. It owns its participant set and
// expense collection; everything derived from them (balances, settlement
// plans) is recomputed on demand.
type Bill struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Title is the display name; auto-generated when empty.
	Title string

	// Description is presentation-only free text.
	Description string

	// CreatedBy references the owning participant.
	CreatedBy string

	// Participants is the membership list in insertion order.
	Participants []Participant

	// Expenses is the expense collection in insertion order.
	Expenses []Expense

	// Archived hides the bill from default listings.
	Archived bool

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// Participant returns the participant with the given ID, or nil.
func (b *Bill) Participant(id string) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}
	return nil
}

// Expense returns the expense with the given ID, or nil.
func (b *Bill) Expense(id string) *Expense {
	for i := range b.Expenses {
		if b.Expenses[i].ID == id {
			return &b.Expenses[i]
		}
	}
	return nil
}

// Total sums all expense amounts on the bill.
func (b *Bill) Total() money.Amount {
	var total money.Amount
	for i := range b.Expenses {
		total += b.Expenses[i].Amount
	}
	return total
}

// Clone returns a deep copy of the bill. Ledger accessors hand out clones
// so callers can never mutate committed state.
func (b *Bill) Clone() *Bill {
	c := *b
	c.Participants = make([]Participant, len(b.Participants))
	copy(c.Participants, b.Participants)
	c.Expenses = make([]Expense, len(b.Expenses))
	for i := range b.Expenses {
		c.Expenses[i] = b.Expenses[i]
		c.Expenses[i].Splits = make([]Split, len(b.Expenses[i].Splits))
		copy(c.Expenses[i].Splits, b.Expenses[i].Splits)
	}
	return &c
}

// Transfer is a suggested peer-to-peer payment that moves balances
// toward zero.
type Transfer struct {
	// FromID is the paying (debtor) participant.
	FromID string

	// ToID is the receiving (creditor) participant.
	ToID string

	// Amount is the payment value in minor units, always positive.
	Amount money.Amount
}
