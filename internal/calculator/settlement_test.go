package calculator

import (
	"reflect"
	"testing"

	"github.com/JaiAnoba/bs-v1/internal/models"
	"github.com/JaiAnoba/bs-v1/internal/money"
)

// applyTransfers plays a plan back against a copy of the balances.
func applyTransfers(balances map[string]money.Amount, transfers []models.Transfer) map[string]money.Amount {
	out := make(map[string]money.Amount, len(balances))
	for id, bal := range balances {
		out[id] = bal
	}
	for _, tr := range transfers {
		out[tr.FromID] += tr.Amount
		out[tr.ToID] -= tr.Amount
	}
	return out
}

func TestPlanSettlement(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]money.Amount
		want     []models.Transfer
	}{
		{
			name:     "two debtors one creditor",
			balances: map[string]money.Amount{"a": cents(9500), "b": cents(-2500), "c": cents(-7000)},
			want: []models.Transfer{
				{FromID: "c", ToID: "a", Amount: cents(7000)},
				{FromID: "b", ToID: "a", Amount: cents(2500)},
			},
		},
		{
			name:     "all settled yields empty plan",
			balances: map[string]money.Amount{"a": 0, "b": 0, "c": 0},
			want:     nil,
		},
		{
			name:     "single pair",
			balances: map[string]money.Amount{"a": cents(1234), "b": cents(-1234)},
			want: []models.Transfer{
				{FromID: "b", ToID: "a", Amount: cents(1234)},
			},
		},
		{
			name:     "equal magnitudes break ties by participant id",
			balances: map[string]money.Amount{"d1": cents(-500), "d2": cents(-500), "c1": cents(500), "c2": cents(500)},
			want: []models.Transfer{
				{FromID: "d1", ToID: "c1", Amount: cents(500)},
				{FromID: "d2", ToID: "c2", Amount: cents(500)},
			},
		},
		{
			name:     "sub-epsilon balances are dropped",
			balances: map[string]money.Amount{"a": cents(1), "b": cents(-1)},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlement(tt.balances)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanSettlement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanSettlementZeroesBalances(t *testing.T) {
	balances := map[string]money.Amount{
		"a": cents(9500),
		"b": cents(-2500),
		"c": cents(-7000),
		"d": cents(12345),
		"e": cents(-12345),
		"f": 0,
	}
	transfers := PlanSettlement(balances)
	after := applyTransfers(balances, transfers)
	for id, bal := range after {
		if !bal.IsZero() {
			t.Errorf("balance[%s] = %s after settlement, want zero", id, bal)
		}
	}
}

func TestPlanSettlementTransferBound(t *testing.T) {
	// Five participants with non-zero balances; the greedy matcher must
	// settle them in at most four transfers.
	balances := map[string]money.Amount{
		"a": cents(10000),
		"b": cents(5000),
		"c": cents(-4000),
		"d": cents(-5000),
		"e": cents(-6000),
	}
	transfers := PlanSettlement(balances)
	if len(transfers) > 4 {
		t.Errorf("got %d transfers, want at most 4", len(transfers))
	}
	after := applyTransfers(balances, transfers)
	for id, bal := range after {
		if !bal.IsZero() {
			t.Errorf("balance[%s] = %s after settlement, want zero", id, bal)
		}
	}
}

func TestPlanSettlementDeterministic(t *testing.T) {
	balances := map[string]money.Amount{
		"a": cents(3100), "b": cents(-3100),
		"c": cents(2000), "d": cents(-2000),
		"e": cents(700), "f": cents(-700),
	}
	first := PlanSettlement(balances)
	for i := 0; i < 50; i++ {
		if again := PlanSettlement(balances); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestPlanSettlementEndToEnd(t *testing.T) {
	// Balances derived from the ledger fold feed straight into the planner.
	bill := dinnerBill()
	transfers := PlanSettlement(ComputeBalances(bill))

	want := []models.Transfer{
		{FromID: "c", ToID: "a", Amount: cents(7000)},
		{FromID: "b", ToID: "a", Amount: cents(2500)},
	}
	if !reflect.DeepEqual(transfers, want) {
		t.Errorf("PlanSettlement() = %v, want %v", transfers, want)
	}
}
