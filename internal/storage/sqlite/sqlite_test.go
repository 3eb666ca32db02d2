package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

func testBill() *models.Bill {
	return &models.Bill{
		Description: "Team dinner after project completion",
		CreatedBy:   "p1",
		Participants: []models.Participant{
			{ID: "p1", Name: "Alice", Email: "alice@example.com", Role: models.RoleOwner},
			{ID: "p2", Name: "Bob", Email: "bob@example.com", Role: models.RoleStandard},
			{ID: "p3", Name: "Carol", Email: "carol@example.com", Role: models.RoleGuest},
		},
		Expenses: []models.Expense{
			{
				Description: "Main course",
				Amount:      money.FromCents(12000),
				PayerID:     "p1",
				Date:        "2023-06-15",
				Rule:        models.SplitEqual,
				Splits: []models.Split{
					{ParticipantID: "p1", Amount: money.FromCents(4000), Paid: true},
					{ParticipantID: "p2", Amount: money.FromCents(4000)},
					{ParticipantID: "p3", Amount: money.FromCents(4000)},
				},
			},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "bs-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateBill generates ID and title", func(t *testing.T) {
		bill := testBill()
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.Title == "" {
			t.Error("Expected bill title to be generated")
		}
		if bill.Expenses[0].ID == "" {
			t.Error("Expected expense ID to be generated")
		}
	})

	t.Run("GetBill round-trips the full snapshot", func(t *testing.T) {
		bill := testBill()
		bill.Title = "Dinner at Italian Restaurant"
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Title != bill.Title || got.Description != bill.Description || got.CreatedBy != "p1" {
			t.Errorf("bill header mismatch: %+v", got)
		}
		if len(got.Participants) != 3 {
			t.Fatalf("got %d participants, want 3", len(got.Participants))
		}
		for i, p := range bill.Participants {
			if got.Participants[i] != p {
				t.Errorf("participant %d = %+v, want %+v", i, got.Participants[i], p)
			}
		}
		if len(got.Expenses) != 1 {
			t.Fatalf("got %d expenses, want 1", len(got.Expenses))
		}
		e := got.Expenses[0]
		if e.Amount.Cents() != 12000 || e.Rule != models.SplitEqual || e.PayerID != "p1" || e.Date != "2023-06-15" {
			t.Errorf("expense mismatch: %+v", e)
		}
		if len(e.Splits) != 3 {
			t.Fatalf("got %d splits, want 3", len(e.Splits))
		}
		if !e.Splits[0].Paid || e.Splits[1].Paid {
			t.Error("paid flags did not round-trip")
		}
	})

	t.Run("GetBill unknown ID", func(t *testing.T) {
		if _, err := store.GetBill(ctx, "nope"); !errors.Is(err, ErrBillNotFound) {
			t.Errorf("GetBill error = %v, want ErrBillNotFound", err)
		}
	})

	t.Run("UpdateBill replaces the snapshot", func(t *testing.T) {
		bill := testBill()
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		bill.Title = "Updated title"
		bill.Archived = true
		bill.Expenses = append(bill.Expenses, models.Expense{
			ID:          "e2",
			Description: "Drinks",
			Amount:      money.FromCents(6000),
			PayerID:     "p2",
			Rule:        models.SplitCustom,
			Splits: []models.Split{
				{ParticipantID: "p1", Amount: money.FromCents(2500)},
				{ParticipantID: "p2", Amount: money.FromCents(2500)},
				{ParticipantID: "p3", Amount: money.FromCents(1000)},
			},
		})
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Title != "Updated title" || !got.Archived {
			t.Errorf("update did not stick: %+v", got)
		}
		if len(got.Expenses) != 2 {
			t.Fatalf("got %d expenses, want 2", len(got.Expenses))
		}
		if got.Expenses[1].Splits[2].Amount.Cents() != 1000 {
			t.Errorf("custom split did not round-trip: %+v", got.Expenses[1].Splits)
		}
	})

	t.Run("UpdateBill unknown ID", func(t *testing.T) {
		bill := testBill()
		bill.ID = "missing"
		if err := store.UpdateBill(ctx, bill); !errors.Is(err, ErrBillNotFound) {
			t.Errorf("UpdateBill error = %v, want ErrBillNotFound", err)
		}
	})

	t.Run("ListBills filters archived", func(t *testing.T) {
		all, err := store.ListBills(ctx, true)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		active, err := store.ListBills(ctx, false)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(active) >= len(all) {
			t.Errorf("expected archived bill to be filtered: %d active of %d total", len(active), len(all))
		}
		for _, sum := range active {
			if sum.Archived {
				t.Errorf("archived bill %s in active listing", sum.ID)
			}
		}
		for _, sum := range all {
			if sum.ParticipantCount != 3 {
				t.Errorf("bill %s participant count = %d, want 3", sum.ID, sum.ParticipantCount)
			}
		}
	})

	t.Run("DeleteBill cascades", func(t *testing.T) {
		bill := testBill()
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if err := store.DeleteBill(ctx, bill.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID); !errors.Is(err, ErrBillNotFound) {
			t.Errorf("GetBill after delete error = %v, want ErrBillNotFound", err)
		}
		if err := store.DeleteBill(ctx, bill.ID); !errors.Is(err, ErrBillNotFound) {
			t.Errorf("second DeleteBill error = %v, want ErrBillNotFound", err)
		}
	})
}
