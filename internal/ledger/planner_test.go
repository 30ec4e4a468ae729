package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"gamyartha/internal/models"
)

func snapshot(balances map[int]string) []models.GroupBalance {
	var out []models.GroupBalance
	for id, b := range balances {
		out = append(out, models.GroupBalance{GroupID: 1, UserID: id, Balance: d(b)})
	}
	return out
}

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances map[int]string
		want     []Suggestion
	}{
		{
			name:     "two debtors one creditor",
			balances: map[int]string{1: "3000", 2: "-1500", 3: "-1500"},
			want: []Suggestion{
				{FromUserID: 2, ToUserID: 1, Amount: d("1500")},
				{FromUserID: 3, ToUserID: 1, Amount: d("1500")},
			},
		},
		{
			name:     "single pair",
			balances: map[int]string{1: "40", 2: "-40"},
			want: []Suggestion{
				{FromUserID: 2, ToUserID: 1, Amount: d("40")},
			},
		},
		{
			name:     "largest matched first",
			balances: map[int]string{1: "100", 2: "50", 3: "-120", 4: "-30"},
			want: []Suggestion{
				{FromUserID: 3, ToUserID: 1, Amount: d("100")},
				{FromUserID: 3, ToUserID: 2, Amount: d("20")},
				{FromUserID: 4, ToUserID: 2, Amount: d("30")},
			},
		},
		{
			name:     "all settled up",
			balances: map[int]string{1: "0", 2: "0", 3: "0"},
			want:     nil,
		},
		{
			name:     "empty snapshot",
			balances: map[int]string{},
			want:     nil,
		},
		{
			name:     "zero balance member excluded",
			balances: map[int]string{1: "25", 2: "0", 3: "-25"},
			want: []Suggestion{
				{FromUserID: 3, ToUserID: 1, Amount: d("25")},
			},
		},
		{
			name:     "tied balances ordered by user id",
			balances: map[int]string{4: "10", 2: "10", 3: "-10", 1: "-10"},
			want: []Suggestion{
				{FromUserID: 1, ToUserID: 2, Amount: d("10")},
				{FromUserID: 3, ToUserID: 4, Amount: d("10")},
			},
		},
		{
			name: "rounding drift nets what it can",
			// Sums to -0.01; the leftover debt has no creditor to route to.
			balances: map[int]string{1: "10.00", 2: "-10.01"},
			want: []Suggestion{
				{FromUserID: 2, ToUserID: 1, Amount: d("10.00")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlements(snapshot(tt.balances))
			if len(got) != len(tt.want) {
				t.Fatalf("PlanSettlements returned %d suggestions, want %d: %v", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				if got[i].FromUserID != want.FromUserID || got[i].ToUserID != want.ToUserID || !got[i].Amount.Equal(want.Amount) {
					t.Errorf("suggestion %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestPlanSettlementsSuggestionBound(t *testing.T) {
	balances := map[int]string{1: "100", 2: "60", 3: "-50", 4: "-50", 5: "-60"}
	got := PlanSettlements(snapshot(balances))

	nonZero := len(balances)
	if len(got) > nonZero-1 {
		t.Errorf("plan has %d suggestions, want at most %d", len(got), nonZero-1)
	}

	// Every creditor receives exactly their balance; every debtor pays theirs.
	in := map[int]decimal.Decimal{}
	out := map[int]decimal.Decimal{}
	for _, s := range got {
		in[s.ToUserID] = in[s.ToUserID].Add(s.Amount)
		out[s.FromUserID] = out[s.FromUserID].Add(s.Amount)
	}
	for id, b := range balances {
		bal := d(b)
		if bal.IsPositive() && !in[id].Equal(bal) {
			t.Errorf("creditor %d routed %s, want %s", id, in[id], bal)
		}
		if bal.IsNegative() && !out[id].Equal(bal.Neg()) {
			t.Errorf("debtor %d pays %s, want %s", id, out[id], bal.Neg())
		}
	}
}

func TestPlanSettlementsIsPure(t *testing.T) {
	input := snapshot(map[int]string{1: "3000", 2: "-1500", 3: "-1500"})

	first := PlanSettlements(input)
	second := PlanSettlements(input)

	if len(first) != len(second) {
		t.Fatalf("plans differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].FromUserID != second[i].FromUserID || first[i].ToUserID != second[i].ToUserID || !first[i].Amount.Equal(second[i].Amount) {
			t.Errorf("plan changed between calls: %+v vs %+v", first[i], second[i])
		}
	}

	// Input snapshot must be untouched.
	for _, b := range input {
		switch b.UserID {
		case 1:
			if !b.Balance.Equal(d("3000")) {
				t.Errorf("input balance for user 1 mutated to %s", b.Balance)
			}
		case 2, 3:
			if !b.Balance.Equal(d("-1500")) {
				t.Errorf("input balance for user %d mutated to %s", b.UserID, b.Balance)
			}
		}
	}
}
