package ledger

import (
	"errors"
	"testing"

	"github.com/JaiAnoba/bs-v1/internal/calculator"
	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

func cents(c int64) money.Amount { return money.FromCents(c) }

// newTestLedger builds a ledger with an owner and two members.
func newTestLedger(t *testing.T) (*Ledger, []string) {
	t.Helper()
	l, err := New(&models.Bill{ID: "bill1", Title: "Dinner"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var ids []string
	for _, p := range []struct {
		name string
		role models.Role
	}{
		{"Alice", models.RoleOwner},
		{"Bob", models.RoleStandard},
		{"Carol", models.RoleGuest},
	} {
		participant, err := l.AddParticipant(p.name, p.name+"@example.com", p.role)
		if err != nil {
			t.Fatalf("AddParticipant(%s) error = %v", p.name, err)
		}
		ids = append(ids, participant.ID)
	}
	return l, ids
}

func TestAddExpenseResolvesSplits(t *testing.T) {
	l, ids := newTestLedger(t)

	e, err := l.AddExpense(ExpenseDraft{
		Description:    "Main course",
		Amount:         cents(10000),
		PayerID:        ids[0],
		Date:           "2023-06-15",
		Rule:           models.SplitEqual,
		ParticipantIDs: ids,
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if e.ID == "" {
		t.Error("expected expense ID to be generated")
	}
	if len(e.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(e.Splits))
	}
	var sum money.Amount
	for _, s := range e.Splits {
		sum += s.Amount
	}
	if sum != cents(10000) {
		t.Errorf("splits sum to %s, want exactly 100.00", sum)
	}
}

func TestAddExpenseRejections(t *testing.T) {
	l, ids := newTestLedger(t)

	tests := []struct {
		name    string
		draft   ExpenseDraft
		wantErr error
	}{
		{
			name: "unknown payer",
			draft: ExpenseDraft{
				Amount: cents(100), PayerID: "ghost",
				Rule: models.SplitEqual, ParticipantIDs: ids,
			},
			wantErr: ErrUnknownParticipant,
		},
		{
			name: "unknown covered participant",
			draft: ExpenseDraft{
				Amount: cents(100), PayerID: ids[0],
				Rule: models.SplitEqual, ParticipantIDs: []string{ids[0], "ghost"},
			},
			wantErr: ErrUnknownParticipant,
		},
		{
			name: "negative amount",
			draft: ExpenseDraft{
				Amount: cents(-100), PayerID: ids[0],
				Rule: models.SplitEqual, ParticipantIDs: ids,
			},
			wantErr: calculator.ErrInvalidAmount,
		},
		{
			name: "empty covered set",
			draft: ExpenseDraft{
				Amount: cents(100), PayerID: ids[0],
				Rule: models.SplitEqual, ParticipantIDs: nil,
			},
			wantErr: calculator.ErrEmptyParticipants,
		},
		{
			name: "over-allocated custom split",
			draft: ExpenseDraft{
				Amount: cents(1000), PayerID: ids[0],
				Rule:           models.SplitCustom,
				ParticipantIDs: []string{ids[0], ids[1]},
				CustomAmounts: map[string]money.Amount{
					ids[0]: cents(800), ids[1]: cents(800),
				},
			},
			wantErr: calculator.ErrOverAllocated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(l.Expenses())
			_, err := l.AddExpense(tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
			if after := len(l.Expenses()); after != before {
				t.Errorf("rejected mutation changed expense count: %d -> %d", before, after)
			}
		})
	}
}

func TestUpdateExpenseAtomicReplace(t *testing.T) {
	l, ids := newTestLedger(t)
	e, err := l.AddExpense(ExpenseDraft{
		Description: "Drinks", Amount: cents(6000), PayerID: ids[1],
		Rule: models.SplitEqual, ParticipantIDs: ids,
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if err := l.SetSplitPaid(e.ID, ids[1], true); err != nil {
		t.Fatalf("SetSplitPaid() error = %v", err)
	}

	// A failing update must leave the stored expense untouched.
	if _, err := l.UpdateExpense(e.ID, ExpenseDraft{
		Amount: cents(-1), PayerID: ids[1],
		Rule: models.SplitEqual, ParticipantIDs: ids,
	}); err == nil {
		t.Fatal("expected update with negative amount to fail")
	}
	if got := l.Expenses()[0].Amount; got != cents(6000) {
		t.Errorf("failed update changed amount to %s", got)
	}

	updated, err := l.UpdateExpense(e.ID, ExpenseDraft{
		Description: "Drinks", Amount: cents(6000), PayerID: ids[1],
		Rule:           models.SplitCustom,
		ParticipantIDs: ids,
		CustomAmounts: map[string]money.Amount{
			ids[0]: cents(2500), ids[1]: cents(2500),
		},
	})
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.Splits[2].Amount != cents(1000) {
		t.Errorf("remainder split = %s, want 10.00", updated.Splits[2].Amount)
	}
	// Paid flag survives the edit for the participant that kept a split.
	if !updated.Splits[1].Paid {
		t.Error("expected paid flag to carry over for the payer")
	}
}

func TestRemoveExpense(t *testing.T) {
	l, ids := newTestLedger(t)
	e, _ := l.AddExpense(ExpenseDraft{
		Amount: cents(900), PayerID: ids[0],
		Rule: models.SplitEqual, ParticipantIDs: ids,
	})

	if err := l.RemoveExpense("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveExpense(missing) error = %v, want ErrNotFound", err)
	}
	if err := l.RemoveExpense(e.ID); err != nil {
		t.Fatalf("RemoveExpense() error = %v", err)
	}
	if n := len(l.Expenses()); n != 0 {
		t.Errorf("got %d expenses after removal, want 0", n)
	}
}

func TestRemoveParticipant(t *testing.T) {
	l, ids := newTestLedger(t)
	if _, err := l.AddExpense(ExpenseDraft{
		Amount: cents(3000), PayerID: ids[1],
		Rule: models.SplitEqual, ParticipantIDs: []string{ids[1], ids[2]},
	}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	// Payer on an expense stays.
	if err := l.RemoveParticipant(ids[1]); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("removing payer: error = %v, want ErrInvariantViolation", err)
	}
	// Covered participant stays.
	if err := l.RemoveParticipant(ids[2]); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("removing covered participant: error = %v, want ErrInvariantViolation", err)
	}
	// Owner always stays.
	if err := l.RemoveParticipant(ids[0]); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("removing owner: error = %v, want ErrInvariantViolation", err)
	}
	if n := len(l.Participants()); n != 3 {
		t.Fatalf("rejected removals changed participant count to %d", n)
	}

	// A member with no splits and no paid expenses can leave.
	d, err := l.AddParticipant("Dave", "dave@example.com", models.RoleGuest)
	if err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}
	if err := l.RemoveParticipant(d.ID); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}
}

func TestNewRejectsInvalidSnapshot(t *testing.T) {
	tests := []struct {
		name string
		bill *models.Bill
	}{
		{
			name: "split sum mismatch",
			bill: &models.Bill{
				Participants: []models.Participant{{ID: "a"}, {ID: "b"}},
				Expenses: []models.Expense{{
					ID: "e1", Amount: cents(1000), PayerID: "a", Rule: models.SplitEqual,
					Splits: []models.Split{
						{ParticipantID: "a", Amount: cents(300)},
						{ParticipantID: "b", Amount: cents(300)},
					},
				}},
			},
		},
		{
			name: "payer not a member",
			bill: &models.Bill{
				Participants: []models.Participant{{ID: "a"}},
				Expenses: []models.Expense{{
					ID: "e1", Amount: cents(100), PayerID: "ghost", Rule: models.SplitEqual,
					Splits: []models.Split{{ParticipantID: "a", Amount: cents(100)}},
				}},
			},
		},
		{
			name: "duplicate split participant",
			bill: &models.Bill{
				Participants: []models.Participant{{ID: "a"}},
				Expenses: []models.Expense{{
					ID: "e1", Amount: cents(200), PayerID: "a", Rule: models.SplitCustom,
					Splits: []models.Split{
						{ParticipantID: "a", Amount: cents(100)},
						{ParticipantID: "a", Amount: cents(100)},
					},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.bill); !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("New() error = %v, want ErrInvariantViolation", err)
			}
		})
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	l, ids := newTestLedger(t)
	if _, err := l.AddExpense(ExpenseDraft{
		Amount: cents(900), PayerID: ids[0],
		Rule: models.SplitEqual, ParticipantIDs: ids,
	}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	snap := l.Snapshot()
	snap.Expenses[0].Splits[0].Amount = cents(999999)
	snap.Participants[0].Name = "Mallory"

	if l.Expenses()[0].Splits[0].Amount == cents(999999) {
		t.Error("mutating a snapshot leaked into the ledger")
	}
	if l.Participants()[0].Name == "Mallory" {
		t.Error("mutating a snapshot participant leaked into the ledger")
	}
}
