package calculator

import (
	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

// ParticipantBalance is one participant's position across a whole bill.
type ParticipantBalance struct {
	ParticipantID string
	TotalPaid     money.Amount // everything this participant fronted
	TotalOwed     money.Amount // everything this participant's splits add up to
	Net           money.Amount // TotalPaid - TotalOwed
}

// ComputeBalances folds every expense on the bill into one net balance per
// participant. The payer of an expense is credited its full amount; each
// split debits its participant. Positive net means the participant is owed
// money, negative means they owe.
//
// The fold assumes the bill already satisfies the ledger's invariants: it
// does not check that payers or split participants are members. Summation
// is exact, so the result is independent of expense and split order, and
// the nets always sum to zero.
func ComputeBalances(bill *models.Bill) map[string]money.Amount {
	balances := make(map[string]money.Amount, len(bill.Participants))
	for i := range bill.Participants {
		balances[bill.Participants[i].ID] = 0
	}

	for i := range bill.Expenses {
		e := &bill.Expenses[i]
		balances[e.PayerID] += e.Amount
		for j := range e.Splits {
			balances[e.Splits[j].ParticipantID] -= e.Splits[j].Amount
		}
	}
	return balances
}

// ComputeParticipantBalances is ComputeBalances plus the paid/owed totals
// the summary views render, ordered like the bill's participant list.
func ComputeParticipantBalances(bill *models.Bill) []ParticipantBalance {
	index := make(map[string]int, len(bill.Participants))
	out := make([]ParticipantBalance, len(bill.Participants))
	for i := range bill.Participants {
		id := bill.Participants[i].ID
		index[id] = i
		out[i] = ParticipantBalance{ParticipantID: id}
	}

	for i := range bill.Expenses {
		e := &bill.Expenses[i]
		out[index[e.PayerID]].TotalPaid += e.Amount
		for j := range e.Splits {
			out[index[e.Splits[j].ParticipantID]].TotalOwed += e.Splits[j].Amount
		}
	}
	for i := range out {
		out[i].Net = out[i].TotalPaid - out[i].TotalOwed
	}
	return out
}
