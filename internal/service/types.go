package service

import "github.com/JaiAnoba/bs-v1/internal/money"

// Wire messages for the BillService procedures. Amounts travel as decimal
// strings ("12.34") and are parsed into exact minor units by money.Amount's
// JSON methods.

// Participant is the wire form of one bill member.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// NewParticipant is the creation form of a member, before an ID exists.
type NewParticipant struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Split is the wire form of one participant's share of an expense.
type Split struct {
	ParticipantID string       `json:"participant_id"`
	Amount        money.Amount `json:"amount"`
	Paid          bool         `json:"paid"`
}

// Expense is the wire form of one expense with its resolved splits.
type Expense struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	PayerID     string       `json:"payer_id"`
	Date        string       `json:"date,omitempty"`
	Rule        string       `json:"rule"`
	Splits      []Split      `json:"splits"`
}

// Bill is the wire form of a full bill snapshot.
type Bill struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	CreatedBy    string        `json:"created_by"`
	Participants []Participant `json:"participants"`
	Expenses     []Expense     `json:"expenses"`
	Total        money.Amount  `json:"total"`
	Archived     bool          `json:"archived"`
	CreatedAt    int64         `json:"created_at"`
}

// BillSummary is one row of a bill listing.
type BillSummary struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Total            money.Amount `json:"total"`
	ParticipantCount int          `json:"participant_count"`
	ExpenseCount     int          `json:"expense_count"`
	Archived         bool         `json:"archived"`
	CreatedAt        int64        `json:"created_at"`
}

// Balance is one participant's position across the bill.
type Balance struct {
	ParticipantID string       `json:"participant_id"`
	TotalPaid     money.Amount `json:"total_paid"`
	TotalOwed     money.Amount `json:"total_owed"`
	Net           money.Amount `json:"net"`
}

// Transfer is one suggested settlement payment.
type Transfer struct {
	FromID string       `json:"from_id"`
	ToID   string       `json:"to_id"`
	Amount money.Amount `json:"amount"`
}

// ExpenseDraft carries the caller-entered fields of an expense. For the
// custom rule, CustomAmounts covers all but at most one of ParticipantIDs.
type ExpenseDraft struct {
	Description    string                  `json:"description"`
	Amount         money.Amount            `json:"amount"`
	PayerID        string                  `json:"payer_id"`
	Date           string                  `json:"date,omitempty"`
	Rule           string                  `json:"rule"`
	ParticipantIDs []string                `json:"participant_ids"`
	CustomAmounts  map[string]money.Amount `json:"custom_amounts,omitempty"`
}

type CreateBillRequest struct {
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	Participants []NewParticipant `json:"participants"`
}

type CreateBillResponse struct {
	Bill Bill `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill       Bill       `json:"bill"`
	Balances   []Balance  `json:"balances"`
	Settlement []Transfer `json:"settlement"`
}

type ListBillsRequest struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type ListBillsResponse struct {
	Bills []BillSummary `json:"bills"`
}

type ArchiveBillRequest struct {
	BillID string `json:"bill_id"`
}

type ArchiveBillResponse struct{}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

type AddParticipantRequest struct {
	BillID      string         `json:"bill_id"`
	Participant NewParticipant `json:"participant"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	BillID        string `json:"bill_id"`
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	BillID  string       `json:"bill_id"`
	Expense ExpenseDraft `json:"expense"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	BillID    string       `json:"bill_id"`
	ExpenseID string       `json:"expense_id"`
	Expense   ExpenseDraft `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	BillID    string `json:"bill_id"`
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type MarkSplitPaidRequest struct {
	BillID        string `json:"bill_id"`
	ExpenseID     string `json:"expense_id"`
	ParticipantID string `json:"participant_id"`
	Paid          bool   `json:"paid"`
}

type MarkSplitPaidResponse struct{}

type ResolveSplitsRequest struct {
	Amount         money.Amount            `json:"amount"`
	Rule           string                  `json:"rule"`
	ParticipantIDs []string                `json:"participant_ids"`
	CustomAmounts  map[string]money.Amount `json:"custom_amounts,omitempty"`
}

type ResolveSplitsResponse struct {
	Splits []Split `json:"splits"`
}

type GetBalancesRequest struct {
	BillID string `json:"bill_id"`
}

type GetBalancesResponse struct {
	Balances   []Balance  `json:"balances"`
	Settlement []Transfer `json:"settlement"`
}
