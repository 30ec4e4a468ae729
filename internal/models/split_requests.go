package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// SplitRequest is a member's ask to have an expense they covered split across
// the group. Status: pending -> approved | declined | expired.
type SplitRequest struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID     int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	RequestedBy int             `json:"requested_by,omitempty" db:"requested_by,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Status      string          `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
