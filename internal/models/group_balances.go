package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// GroupBalance is one member's signed net balance within a group. Positive
// means the member is owed money, negative means they owe. The sum of all
// balances in a group is always zero.
type GroupBalance struct {
	GroupID   int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	UpdatedAt sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
