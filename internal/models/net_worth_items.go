package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type NetWorthItem struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string          `json:"name,omitempty" db:"name,omitempty"`
	ItemType  string          `json:"item_type,omitempty" db:"item_type,omitempty"` // asset | liability
	Value     decimal.Decimal `json:"value,omitempty" db:"value,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
