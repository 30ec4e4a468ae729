package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Category  string          `json:"category,omitempty" db:"category,omitempty"`
	Limit     decimal.Decimal `json:"limit_amount,omitempty" db:"limit_amount,omitempty"`
	Month     string          `json:"month,omitempty" db:"month,omitempty"` // YYYY-MM
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
