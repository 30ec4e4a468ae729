package models

import "database/sql"

type Badge struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	UserID    int            `json:"user_id,omitempty" db:"user_id,omitempty"`
	Code      string         `json:"code,omitempty" db:"code,omitempty"`
	Title     string         `json:"title,omitempty" db:"title,omitempty"`
	AwardedAt sql.NullString `json:"awarded_at,omitempty" db:"awarded_at,omitempty"`
}
