package groups

import (
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

func TestReconcileShares(t *testing.T) {
	tests := []struct {
		name    string
		shares  map[int]decimal.Decimal
		total   decimal.Decimal
		payerID int
		want    map[int]decimal.Decimal
	}{
		{
			name:    "already exact",
			shares:  map[int]decimal.Decimal{1: d("50.00"), 2: d("50.00")},
			total:   d("100.00"),
			payerID: 1,
			want:    map[int]decimal.Decimal{1: d("50.00"), 2: d("50.00")},
		},
		{
			name:    "payer absorbs rounding shortfall",
			shares:  map[int]decimal.Decimal{1: d("33.33"), 2: d("33.33"), 3: d("33.33")},
			total:   d("100.00"),
			payerID: 1,
			want:    map[int]decimal.Decimal{1: d("33.34"), 2: d("33.33"), 3: d("33.33")},
		},
		{
			name:    "payer absorbs rounding excess",
			shares:  map[int]decimal.Decimal{1: d("33.34"), 2: d("33.34"), 3: d("33.34")},
			total:   d("100.00"),
			payerID: 2,
			want:    map[int]decimal.Decimal{1: d("33.34"), 2: d("33.32"), 3: d("33.34")},
		},
		{
			name:    "payer outside shares falls to largest",
			shares:  map[int]decimal.Decimal{2: d("66.67"), 3: d("33.32")},
			total:   d("100.00"),
			payerID: 9,
			want:    map[int]decimal.Decimal{2: d("66.68"), 3: d("33.32")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconcileShares(tt.shares, tt.total, tt.payerID)

			sum := decimal.Zero
			for id, want := range tt.want {
				got, ok := tt.shares[id]
				if !ok {
					t.Fatalf("member %d missing from shares", id)
				}
				if !got.Equal(want) {
					t.Errorf("member %d share = %s, want %s", id, got, want)
				}
				sum = sum.Add(got)
			}
			if !sum.Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sum, tt.total)
			}
		})
	}
}
