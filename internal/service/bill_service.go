// Package service exposes the accounting core over Connect RPC. Handlers
// validate wire input into domain records, route every mutation through the
// bill ledger, and recompute balances and settlement plans on each read.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/JaiAnoba/bs-v1/internal/calculator"
	"github.com/JaiAnoba/bs-v1/internal/ledger"
	"github.com/JaiAnoba/bs-v1/internal/metrics"
	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
	"github.com/JaiAnoba/bs-v1/internal/storage"
)

// BillService implements the billsplit.v1.BillService procedures.
type BillService struct {
	store storage.Store
}

// NewBillService creates a BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// CreateBill creates a new bill with its initial participant set. The first
// participant becomes the owner unless another one carries the owner role
// explicitly.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	if len(req.Msg.Participants) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, calculator.ErrEmptyParticipants)
	}

	l, err := ledger.New(&models.Bill{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	ownerSeen := false
	for _, np := range req.Msg.Participants {
		if np.Role != "" && !models.ValidRole(models.Role(np.Role)) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown role %q", np.Role))
		}
		ownerSeen = ownerSeen || models.Role(np.Role) == models.RoleOwner
	}
	for i, np := range req.Msg.Participants {
		role := models.Role(np.Role)
		if np.Role == "" {
			role = models.RoleStandard
		}
		if !ownerSeen && i == 0 {
			role = models.RoleOwner
		}
		if _, err := l.AddParticipant(np.Name, np.Email, role); err != nil {
			return nil, errToConnect(err)
		}
	}

	bill := l.Snapshot()
	for i := range bill.Participants {
		if bill.Participants[i].Role == models.RoleOwner {
			bill.CreatedBy = bill.Participants[i].ID
			break
		}
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("Bill created", "bill_id", bill.ID, "participants", len(bill.Participants))

	return connect.NewResponse(&CreateBillResponse{Bill: billToWire(bill)}), nil
}

// GetBill returns the full bill with freshly computed balances and
// settlement plan.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Error("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	balances, transfers := derive(bill)
	return connect.NewResponse(&GetBillResponse{
		Bill:       billToWire(bill),
		Balances:   balances,
		Settlement: transfers,
	}), nil
}

// ListBills returns bill summaries, newest first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	summaries, err := s.store.ListBills(ctx, req.Msg.IncludeArchived)
	if err != nil {
		slog.Error("ListBills failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	bills := make([]BillSummary, len(summaries))
	for i, sum := range summaries {
		bills[i] = BillSummary{
			ID:               sum.ID,
			Title:            sum.Title,
			Total:            money.FromCents(sum.TotalCents),
			ParticipantCount: sum.ParticipantCount,
			ExpenseCount:     sum.ExpenseCount,
			Archived:         sum.Archived,
			CreatedAt:        sum.CreatedAt,
		}
	}
	return connect.NewResponse(&ListBillsResponse{Bills: bills}), nil
}

// ArchiveBill marks a bill archived; it stays readable.
func (s *BillService) ArchiveBill(ctx context.Context, req *connect.Request[ArchiveBillRequest]) (*connect.Response[ArchiveBillResponse], error) {
	err := s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		l.Archive()
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Bill archived", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&ArchiveBillResponse{}), nil
}

// DeleteBill deletes a bill with all its expenses and participants.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id required"))
	}
	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&DeleteBillResponse{}), nil
}

// AddParticipant adds a member to the bill.
func (s *BillService) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	role := models.Role(req.Msg.Participant.Role)
	if req.Msg.Participant.Role == "" {
		role = models.RoleStandard
	} else if !models.ValidRole(role) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown role %q", req.Msg.Participant.Role))
	}

	var added *models.Participant
	err := s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		var err error
		added, err = l.AddParticipant(req.Msg.Participant.Name, req.Msg.Participant.Email, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Participant added", "bill_id", req.Msg.BillID, "participant_id", added.ID)
	return connect.NewResponse(&AddParticipantResponse{Participant: participantToWire(added)}), nil
}

// RemoveParticipant removes a member with no splits who is not a payer.
func (s *BillService) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	err := s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		return l.RemoveParticipant(req.Msg.ParticipantID)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Participant removed", "bill_id", req.Msg.BillID, "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&RemoveParticipantResponse{}), nil
}

// AddExpense resolves the draft's splits and stores the expense.
func (s *BillService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	draft, err := draftFromWire(req.Msg.Expense)
	if err != nil {
		return nil, err
	}

	var added *models.Expense
	err = s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		var err error
		added, err = l.AddExpense(draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.ExpensesCreatedTotal.WithLabelValues(string(draft.Rule)).Inc()
	slog.Info("Expense added",
		"bill_id", req.Msg.BillID,
		"expense_id", added.ID,
		"amount", added.Amount,
		"rule", added.Rule,
	)
	return connect.NewResponse(&AddExpenseResponse{Expense: expenseToWire(added)}), nil
}

// UpdateExpense re-resolves the draft and replaces the stored expense
// atomically.
func (s *BillService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	draft, err := draftFromWire(req.Msg.Expense)
	if err != nil {
		return nil, err
	}

	var updated *models.Expense
	err = s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		var err error
		updated, err = l.UpdateExpense(req.Msg.ExpenseID, draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense updated", "bill_id", req.Msg.BillID, "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&UpdateExpenseResponse{Expense: expenseToWire(updated)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *BillService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	err := s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		return l.RemoveExpense(req.Msg.ExpenseID)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense deleted", "bill_id", req.Msg.BillID, "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}

// MarkSplitPaid flips one split's caller-owned paid flag.
func (s *BillService) MarkSplitPaid(ctx context.Context, req *connect.Request[MarkSplitPaidRequest]) (*connect.Response[MarkSplitPaidResponse], error) {
	err := s.withLedger(ctx, req.Msg.BillID, func(l *ledger.Ledger) error {
		return l.SetSplitPaid(req.Msg.ExpenseID, req.Msg.ParticipantID, req.Msg.Paid)
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MarkSplitPaidResponse{}), nil
}

// ResolveSplits previews a draft's splits without touching any bill. The
// form UI calls this while the user types.
func (s *BillService) ResolveSplits(ctx context.Context, req *connect.Request[ResolveSplitsRequest]) (*connect.Response[ResolveSplitsResponse], error) {
	rule := models.SplitRule(req.Msg.Rule)
	if !models.ValidSplitRule(rule) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported split rule %q", req.Msg.Rule))
	}
	splits, err := calculator.ResolveSplits(req.Msg.Amount, rule, req.Msg.ParticipantIDs, req.Msg.CustomAmounts)
	if err != nil {
		return nil, errToConnect(err)
	}

	out := make([]Split, len(splits))
	for i, sp := range splits {
		out[i] = Split{ParticipantID: sp.ParticipantID, Amount: sp.Amount, Paid: sp.Paid}
	}
	return connect.NewResponse(&ResolveSplitsResponse{Splits: out}), nil
}

// GetBalances returns balances and the settlement plan without the bill
// body.
func (s *BillService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Error("GetBalances failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	balances, transfers := derive(bill)
	return connect.NewResponse(&GetBalancesResponse{
		Balances:   balances,
		Settlement: transfers,
	}), nil
}

// withLedger loads a bill into a ledger, applies one mutation, and persists
// the new snapshot. A failed mutation leaves storage untouched.
func (s *BillService) withLedger(ctx context.Context, billID string, fn func(*ledger.Ledger) error) error {
	if billID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id required"))
	}
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return connect.NewError(connect.CodeNotFound, err)
	}
	l, err := ledger.New(bill)
	if err != nil {
		slog.Error("Stored bill failed validation", "bill_id", billID, "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
	if err := fn(l); err != nil {
		return errToConnect(err)
	}
	if err := s.store.UpdateBill(ctx, l.Snapshot()); err != nil {
		slog.Error("Failed to persist bill", "bill_id", billID, "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
	return nil
}

// derive recomputes the balance and settlement views from a bill snapshot.
func derive(bill *models.Bill) ([]Balance, []Transfer) {
	participantBalances := calculator.ComputeParticipantBalances(bill)
	balances := make([]Balance, len(participantBalances))
	netByID := make(map[string]money.Amount, len(participantBalances))
	for i, pb := range participantBalances {
		balances[i] = Balance{
			ParticipantID: pb.ParticipantID,
			TotalPaid:     pb.TotalPaid,
			TotalOwed:     pb.TotalOwed,
			Net:           pb.Net,
		}
		netByID[pb.ParticipantID] = pb.Net
	}

	plan := calculator.PlanSettlement(netByID)
	metrics.SettlementTransfers.Observe(float64(len(plan)))
	transfers := make([]Transfer, len(plan))
	for i, tr := range plan {
		transfers[i] = Transfer{FromID: tr.FromID, ToID: tr.ToID, Amount: tr.Amount}
	}
	return balances, transfers
}

// errToConnect maps core validation errors onto Connect codes.
func errToConnect(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrInvariantViolation):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrEmptyParticipants),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrDuplicateParticipant),
		errors.Is(err, calculator.ErrNegativeRemainder),
		errors.Is(err, calculator.ErrOverAllocated),
		errors.Is(err, calculator.ErrUnderAllocated),
		errors.Is(err, calculator.ErrAmbiguousRemainder):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// draftFromWire validates a wire draft into the ledger's draft form.
func draftFromWire(draft ExpenseDraft) (ledger.ExpenseDraft, error) {
	rule := models.SplitRule(draft.Rule)
	if !models.ValidSplitRule(rule) {
		return ledger.ExpenseDraft{}, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported split rule %q", draft.Rule))
	}
	return ledger.ExpenseDraft{
		Description:    draft.Description,
		Amount:         draft.Amount,
		PayerID:        draft.PayerID,
		Date:           draft.Date,
		Rule:           rule,
		ParticipantIDs: draft.ParticipantIDs,
		CustomAmounts:  draft.CustomAmounts,
	}, nil
}

func participantToWire(p *models.Participant) Participant {
	return Participant{ID: p.ID, Name: p.Name, Email: p.Email, Role: string(p.Role)}
}

func expenseToWire(e *models.Expense) Expense {
	splits := make([]Split, len(e.Splits))
	for i, sp := range e.Splits {
		splits[i] = Split{ParticipantID: sp.ParticipantID, Amount: sp.Amount, Paid: sp.Paid}
	}
	return Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerID:     e.PayerID,
		Date:        e.Date,
		Rule:        string(e.Rule),
		Splits:      splits,
	}
}

func billToWire(b *models.Bill) Bill {
	participants := make([]Participant, len(b.Participants))
	for i := range b.Participants {
		participants[i] = participantToWire(&b.Participants[i])
	}
	expenses := make([]Expense, len(b.Expenses))
	for i := range b.Expenses {
		expenses[i] = expenseToWire(&b.Expenses[i])
	}
	return Bill{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		CreatedBy:    b.CreatedBy,
		Participants: participants,
		Expenses:     expenses,
		Total:        b.Total(),
		Archived:     b.Archived,
		CreatedAt:    b.CreatedAt,
	}
}
