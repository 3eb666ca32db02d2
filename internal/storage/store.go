// Package storage provides abstractions for persistent bill storage.
package storage

import (
	"context"

	"github.com/JaiAnoba/bs-v1/internal/models"
)

// BillSummary is the listing view of a bill: enough to render a list row
// without loading expenses and splits.
type BillSummary struct {
	ID               string
	Title            string
	TotalCents       int64
	ParticipantCount int
	ExpenseCount     int
	Archived         bool
	CreatedAt        int64
}

// Store defines the interface for bill persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateBill persists a new bill. Missing IDs, titles, and timestamps
	// are filled in by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a full bill snapshot by ID.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns summaries of all bills, newest first. Archived
	// bills are included only when includeArchived is set.
	ListBills(ctx context.Context, includeArchived bool) ([]BillSummary, error)

	// UpdateBill replaces the stored bill with the given snapshot in one
	// transaction. The snapshot is the unit of consistency: concurrent
	// writers serialize per bill.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill with its participants, expenses, and
	// splits.
	DeleteBill(ctx context.Context, billID string) error

	// Close releases any resources held by the store.
	Close() error
}
