package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// RecurringPayment is a standing obligation (rent, subscription) that the cron
// layer materializes as a transaction each time it falls due.
type RecurringPayment struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string          `json:"name,omitempty" db:"name,omitempty"`
	Category  string          `json:"category,omitempty" db:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Frequency string          `json:"frequency,omitempty" db:"frequency,omitempty"` // weekly | monthly | yearly
	NextDue   string          `json:"next_due,omitempty" db:"next_due,omitempty"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
