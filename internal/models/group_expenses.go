package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// GroupExpense is an append-only event row. A regular expense distributes a
// shared cost across the group; a settlement (IsSettlement true, PaidTo set)
// records a direct payment from PaidBy to PaidTo.
type GroupExpense struct {
	ID             int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID        int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	PaidBy         int             `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	PaidTo         sql.NullInt64   `json:"paid_to,omitempty" db:"paid_to,omitempty"`
	Description    string          `json:"description,omitempty" db:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	SplitMethod    string          `json:"split_method,omitempty" db:"split_method,omitempty"`
	SplitRequestID sql.NullInt64   `json:"split_request_id,omitempty" db:"split_request_id,omitempty"`
	IsSettlement   bool            `json:"is_settlement,omitempty" db:"is_settlement,omitempty"`
	CreatedAt      sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
