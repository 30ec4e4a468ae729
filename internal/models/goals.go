package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID           int             `json:"id,omitempty" db:"id,omitempty"`
	UserID       int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name         string          `json:"name,omitempty" db:"name,omitempty"`
	TargetAmount decimal.Decimal `json:"target_amount,omitempty" db:"target_amount,omitempty"`
	SavedAmount  decimal.Decimal `json:"saved_amount" db:"saved_amount"`
	Deadline     sql.NullString  `json:"deadline,omitempty" db:"deadline,omitempty"`
	IsCompleted  bool            `json:"is_completed,omitempty" db:"is_completed,omitempty"`
	CreatedAt    sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
