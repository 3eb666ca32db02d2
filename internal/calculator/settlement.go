package calculator

import (
	"container/heap"

	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

// PlanSettlement turns a balance map into an ordered list of peer-to-peer
// transfers that drives every balance to zero. It greedily matches the
// largest outstanding debtor with the largest outstanding creditor,
// consuming both as it goes, which settles K participants with non-zero
// balances in at most K-1 transfers.
//
// Balances within money.Epsilon of zero are treated as already settled and
// excluded, and any residual below the tolerance after matching is dropped
// rather than emitted. Ties on magnitude break by participant ID ascending,
// so the plan is deterministic for identical inputs.
func PlanSettlement(balances map[string]money.Amount) []models.Transfer {
	debtors := &partyHeap{}
	creditors := &partyHeap{}
	for id, bal := range balances {
		switch {
		case bal.IsZero():
			// settled
		case bal < 0:
			debtors.parties = append(debtors.parties, party{id: id, remaining: -bal})
		default:
			creditors.parties = append(creditors.parties, party{id: id, remaining: bal})
		}
	}
	heap.Init(debtors)
	heap.Init(creditors)

	var transfers []models.Transfer
	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := &debtors.parties[0]
		creditor := &creditors.parties[0]

		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}
		transfers = append(transfers, models.Transfer{
			FromID: debtor.id,
			ToID:   creditor.id,
			Amount: amount,
		})

		debtor.remaining -= amount
		creditor.remaining -= amount
		if debtor.remaining.IsZero() {
			heap.Pop(debtors)
		} else {
			heap.Fix(debtors, 0)
		}
		if creditor.remaining.IsZero() {
			heap.Pop(creditors)
		} else {
			heap.Fix(creditors, 0)
		}
	}
	return transfers
}

// party is one side of an unsettled balance.
type party struct {
	id        string
	remaining money.Amount // always positive
}

// partyHeap is a max-heap on remaining amount, participant ID ascending on
// ties.
type partyHeap struct {
	parties []party
}

func (h *partyHeap) Len() int { return len(h.parties) }

func (h *partyHeap) Less(i, j int) bool {
	if h.parties[i].remaining != h.parties[j].remaining {
		return h.parties[i].remaining > h.parties[j].remaining
	}
	return h.parties[i].id < h.parties[j].id
}

func (h *partyHeap) Swap(i, j int) {
	h.parties[i], h.parties[j] = h.parties[j], h.parties[i]
}

func (h *partyHeap) Push(x any) { h.parties = append(h.parties, x.(party)) }

func (h *partyHeap) Pop() any {
	last := h.parties[len(h.parties)-1]
	h.parties = h.parties[:len(h.parties)-1]
	return last
}
