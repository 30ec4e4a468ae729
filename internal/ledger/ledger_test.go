package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sumDeltas(deltas map[int]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range deltas {
		sum = sum.Add(v)
	}
	return sum
}

func TestSplitDeltas(t *testing.T) {
	tests := []struct {
		name    string
		payerID int
		total   decimal.Decimal
		members []int
		want    map[int]string
		wantErr error
	}{
		{
			name:    "three way even split",
			payerID: 1,
			total:   d("9000"),
			members: []int{1, 2, 3},
			want:    map[int]string{1: "6000", 2: "-3000", 3: "-3000"},
		},
		{
			name:    "payer not among split targets",
			payerID: 1,
			total:   d("100"),
			members: []int{2, 3},
			want:    map[int]string{1: "100", 2: "-50", 3: "-50"},
		},
		{
			name:    "two people",
			payerID: 5,
			total:   d("80"),
			members: []int{5, 7},
			want:    map[int]string{5: "40", 7: "-40"},
		},
		{
			name:    "payer absorbs rounding remainder",
			payerID: 1,
			total:   d("100"),
			members: []int{1, 2, 3},
			// share = 33.33 each, payer's own share carries the extra cent
			want: map[int]string{1: "66.66", 2: "-33.33", 3: "-33.33"},
		},
		{
			name:    "single member pays for themselves",
			payerID: 1,
			total:   d("50"),
			members: []int{1},
			want:    map[int]string{1: "0"},
		},
		{
			name:    "zero amount rejected",
			payerID: 1,
			total:   d("0"),
			members: []int{1, 2},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			payerID: 1,
			total:   d("-10"),
			members: []int{1, 2},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "empty member set rejected",
			payerID: 1,
			total:   d("10"),
			members: []int{},
			wantErr: ErrNoMembers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := SplitDeltas(tt.payerID, tt.total, tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitDeltas error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitDeltas returned error: %v", err)
			}
			if !sumDeltas(deltas).IsZero() {
				t.Errorf("deltas sum to %s, want 0", sumDeltas(deltas))
			}
			for userID, want := range tt.want {
				if got := deltas[userID]; !got.Equal(d(want)) {
					t.Errorf("delta for user %d = %s, want %s", userID, got, want)
				}
			}
		})
	}
}

func TestSplitDeltasUnevenAmountsSumToZero(t *testing.T) {
	// Amounts that do not divide evenly must still produce zero-sum deltas.
	amounts := []string{"100", "0.01", "99.99", "1000.01", "33.34", "7"}
	memberSets := [][]int{{1, 2, 3}, {1, 2, 3, 4, 5, 6, 7}, {2, 3, 4}}

	for _, amt := range amounts {
		for _, members := range memberSets {
			deltas, err := SplitDeltas(1, d(amt), members)
			if err != nil {
				t.Fatalf("SplitDeltas(%s, %v) returned error: %v", amt, members, err)
			}
			if !sumDeltas(deltas).IsZero() {
				t.Errorf("SplitDeltas(%s, %v) deltas sum to %s, want 0", amt, members, sumDeltas(deltas))
			}
		}
	}
}

func TestSplitDeltasTinyAmounts(t *testing.T) {
	// When the total is smaller than half a cent per member, the per-member
	// share rounds down to zero and the whole amount stays with the bearer.
	members := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	deltas, err := SplitDeltas(1, d("0.05"), members)
	if err != nil {
		t.Fatalf("SplitDeltas returned error: %v", err)
	}
	for userID, delta := range deltas {
		if !delta.IsZero() {
			t.Errorf("delta for user %d = %s, want 0", userID, delta)
		}
	}

	// Payer outside the split targets: the first member carries the full
	// share and the payer is credited the total.
	deltas, err = SplitDeltas(1, d("0.05"), []int{2, 3, 4, 5, 6, 7, 8, 9, 10})
	if err != nil {
		t.Fatalf("SplitDeltas returned error: %v", err)
	}
	if !deltas[1].Equal(d("0.05")) {
		t.Errorf("payer delta = %s, want 0.05", deltas[1])
	}
	if !deltas[2].Equal(d("-0.05")) {
		t.Errorf("first member delta = %s, want -0.05", deltas[2])
	}
	if !sumDeltas(deltas).IsZero() {
		t.Errorf("deltas sum to %s, want 0", sumDeltas(deltas))
	}
}

func TestSplitDeltasPayerCreditBounded(t *testing.T) {
	// The payer's credit is the sum of the other members' shares, so it must
	// stay within [0, total] and no other member may come out ahead.
	amounts := []string{"0.01", "0.05", "0.09", "0.97", "10.01", "4999.99"}
	memberSets := [][]int{{1, 2}, {1, 2, 3}, {1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}

	for _, amt := range amounts {
		for _, members := range memberSets {
			total := d(amt)
			deltas, err := SplitDeltas(1, total, members)
			if err != nil {
				t.Fatalf("SplitDeltas(%s, %v) returned error: %v", amt, members, err)
			}
			if deltas[1].IsNegative() || deltas[1].GreaterThan(total) {
				t.Errorf("SplitDeltas(%s, %v) payer delta = %s, want within [0, %s]", amt, members, deltas[1], amt)
			}
			for _, id := range members[1:] {
				if deltas[id].IsPositive() {
					t.Errorf("SplitDeltas(%s, %v) member %d delta = %s, want <= 0", amt, members, id, deltas[id])
				}
			}
			if !sumDeltas(deltas).IsZero() {
				t.Errorf("SplitDeltas(%s, %v) deltas sum to %s, want 0", amt, members, sumDeltas(deltas))
			}
		}
	}
}

func TestExactDeltas(t *testing.T) {
	tests := []struct {
		name    string
		payerID int
		total   decimal.Decimal
		shares  map[int]decimal.Decimal
		want    map[int]string
		wantErr error
	}{
		{
			name:    "uneven shares",
			payerID: 1,
			total:   d("100"),
			shares:  map[int]decimal.Decimal{1: d("20"), 2: d("30"), 3: d("50")},
			want:    map[int]string{1: "80", 2: "-30", 3: "-50"},
		},
		{
			name:    "payer has no share",
			payerID: 1,
			total:   d("60"),
			shares:  map[int]decimal.Decimal{2: d("60")},
			want:    map[int]string{1: "60", 2: "-60"},
		},
		{
			name:    "shares not summing to total rejected",
			payerID: 1,
			total:   d("100"),
			shares:  map[int]decimal.Decimal{1: d("20"), 2: d("30")},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative share rejected",
			payerID: 1,
			total:   d("10"),
			shares:  map[int]decimal.Decimal{1: d("20"), 2: d("-10")},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "empty shares rejected",
			payerID: 1,
			total:   d("10"),
			shares:  map[int]decimal.Decimal{},
			wantErr: ErrNoMembers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := ExactDeltas(tt.payerID, tt.total, tt.shares)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExactDeltas error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExactDeltas returned error: %v", err)
			}
			if !sumDeltas(deltas).IsZero() {
				t.Errorf("deltas sum to %s, want 0", sumDeltas(deltas))
			}
			for userID, want := range tt.want {
				if got := deltas[userID]; !got.Equal(d(want)) {
					t.Errorf("delta for user %d = %s, want %s", userID, got, want)
				}
			}
		})
	}
}

func TestSettlementDeltas(t *testing.T) {
	deltas, err := SettlementDeltas(2, 1, d("1500"))
	if err != nil {
		t.Fatalf("SettlementDeltas returned error: %v", err)
	}
	if !deltas[2].Equal(d("1500")) {
		t.Errorf("debtor delta = %s, want 1500", deltas[2])
	}
	if !deltas[1].Equal(d("-1500")) {
		t.Errorf("creditor delta = %s, want -1500", deltas[1])
	}
	if !sumDeltas(deltas).IsZero() {
		t.Errorf("deltas sum to %s, want 0", sumDeltas(deltas))
	}

	if _, err := SettlementDeltas(1, 1, d("10")); !errors.Is(err, ErrSameParty) {
		t.Errorf("same party error = %v, want ErrSameParty", err)
	}
	if _, err := SettlementDeltas(1, 2, d("0")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := SettlementDeltas(1, 2, d("-5")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
}

func TestSettlementSequencePreservesZeroSum(t *testing.T) {
	// A:+3000, B:-1500, C:-1500 then B settles 1500 with A.
	balances := map[int]decimal.Decimal{}
	apply := func(deltas map[int]decimal.Decimal) {
		for id, delta := range deltas {
			balances[id] = balances[id].Add(delta)
		}
	}

	split, err := SplitDeltas(1, d("4500"), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("SplitDeltas returned error: %v", err)
	}
	apply(split)

	settle, err := SettlementDeltas(2, 1, d("1500"))
	if err != nil {
		t.Fatalf("SettlementDeltas returned error: %v", err)
	}
	apply(settle)

	want := map[int]string{1: "1500", 2: "0", 3: "-1500"}
	for id, w := range want {
		if !balances[id].Equal(d(w)) {
			t.Errorf("balance for user %d = %s, want %s", id, balances[id], w)
		}
	}
	if !sumDeltas(balances).IsZero() {
		t.Errorf("balances sum to %s, want 0", sumDeltas(balances))
	}
}
