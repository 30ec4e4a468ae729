package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type GroupExpenseShare struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Share     decimal.Decimal `json:"share,omitempty" db:"share,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
