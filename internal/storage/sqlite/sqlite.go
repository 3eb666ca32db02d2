// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
	"github.com/JaiAnoba/bs-v1/internal/storage"
)

// ErrBillNotFound is returned when a bill ID does not exist.
var ErrBillNotFound = errors.New("bill not found")

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill. Missing IDs, titles, and timestamps are
// generated.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.Participants)
	}
	for i := range bill.Expenses {
		if bill.Expenses[i].ID == "" {
			bill.Expenses[i].ID = uuid.New().String()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, title, description, created_by, archived, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Title, bill.Description, bill.CreatedBy, boolToInt(bill.Archived), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBill retrieves a full bill snapshot, participants and expense splits
// included, in their stored insertion order.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var archived int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, created_by, archived, created_at FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.Title, &bill.Description, &bill.CreatedBy, &archived, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrBillNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Archived = archived != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, role FROM participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Role); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		bill.Participants = append(bill.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	expenseRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount_cents, payer_id, date, rule FROM expenses WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expenseRows.Close()

	for expenseRows.Next() {
		var e models.Expense
		var amountCents int64
		if err := expenseRows.Scan(&e.ID, &e.Description, &amountCents, &e.PayerID, &e.Date, &e.Rule); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.FromCents(amountCents)
		bill.Expenses = append(bill.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range bill.Expenses {
		e := &bill.Expenses[i]
		splitRows, err := s.db.QueryContext(ctx,
			"SELECT participant_id, amount_cents, paid FROM splits WHERE expense_id = ? ORDER BY position",
			e.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get splits: %w", err)
		}
		for splitRows.Next() {
			var sp models.Split
			var amountCents int64
			var paid int
			if err := splitRows.Scan(&sp.ParticipantID, &amountCents, &paid); err != nil {
				splitRows.Close()
				return nil, fmt.Errorf("failed to scan split: %w", err)
			}
			sp.Amount = money.FromCents(amountCents)
			sp.Paid = paid != 0
			e.Splits = append(e.Splits, sp)
		}
		splitRows.Close()
		if err := splitRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate splits: %w", err)
		}
	}

	return bill, nil
}

// ListBills returns bill summaries, newest first.
func (s *SQLiteStore) ListBills(ctx context.Context, includeArchived bool) ([]storage.BillSummary, error) {
	query := `
		SELECT b.id, b.title, b.archived, b.created_at,
		       COALESCE((SELECT SUM(amount_cents) FROM expenses WHERE bill_id = b.id), 0),
		       (SELECT COUNT(*) FROM participants WHERE bill_id = b.id),
		       (SELECT COUNT(*) FROM expenses WHERE bill_id = b.id)
		FROM bills b`
	if !includeArchived {
		query += " WHERE b.archived = 0"
	}
	query += " ORDER BY b.created_at DESC, b.id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var summaries []storage.BillSummary
	for rows.Next() {
		var sum storage.BillSummary
		var archived int
		if err := rows.Scan(&sum.ID, &sum.Title, &archived, &sum.CreatedAt,
			&sum.TotalCents, &sum.ParticipantCount, &sum.ExpenseCount); err != nil {
			return nil, fmt.Errorf("failed to scan bill summary: %w", err)
		}
		sum.Archived = archived != 0
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return summaries, nil
}

// UpdateBill replaces the stored bill with the given snapshot in one
// transaction.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE bills SET title = ?, description = ?, created_by = ?, archived = ? WHERE id = ?",
		bill.Title, bill.Description, bill.CreatedBy, boolToInt(bill.Archived), bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrBillNotFound, bill.ID)
	}

	// Replace children wholesale; the snapshot is authoritative.
	for _, stmt := range []string{
		"DELETE FROM splits WHERE expense_id IN (SELECT id FROM expenses WHERE bill_id = ?)",
		"DELETE FROM expenses WHERE bill_id = ?",
		"DELETE FROM participants WHERE bill_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, bill.ID); err != nil {
			return fmt.Errorf("failed to clear bill children: %w", err)
		}
	}
	if err := insertChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill; participants, expenses, and splits cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrBillNotFound, billID)
	}
	return nil
}

// insertChildren writes a bill's participants, expenses, and splits inside
// an open transaction, preserving slice order via the position columns.
func insertChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i := range bill.Participants {
		p := &bill.Participants[i]
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, bill_id, name, email, role, position) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, bill.ID, p.Name, p.Email, string(p.Role), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range bill.Expenses {
		e := &bill.Expenses[i]
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expenses (id, bill_id, description, amount_cents, payer_id, date, rule, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			e.ID, bill.ID, e.Description, e.Amount.Cents(), e.PayerID, e.Date, string(e.Rule), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		for j := range e.Splits {
			sp := &e.Splits[j]
			_, err := tx.ExecContext(ctx,
				"INSERT INTO splits (expense_id, participant_id, amount_cents, paid, position) VALUES (?, ?, ?, ?, ?)",
				e.ID, sp.ParticipantID, sp.Amount.Cents(), boolToInt(sp.Paid), j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// generateTitle creates an auto-generated title from participant names.
func generateTitle(participants []models.Participant) string {
	names := make([]string, len(participants))
	for i := range participants {
		names[i] = participants[i].Name
	}
	if len(names) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
