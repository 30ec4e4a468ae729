// Package gamification awards badges when users hit financial milestones.
package gamification

import (
	"context"
	"database/sql"
)

// Badge codes. Each code may be awarded to a user at most once; the
// badges table enforces this with a unique (user_id, code) key.
const (
	CodeFirstExpense  = "first_group_expense"
	CodeGoalCompleted = "goal_completed"
	CodeAllSettledUp  = "all_settled_up"
)

var badgeTitles = map[string]string{
	CodeFirstExpense:  "Ice Breaker",
	CodeGoalCompleted: "Goal Getter",
	CodeAllSettledUp:  "Clean Slate",
}

func award(ctx context.Context, db *sql.DB, userID int, code string) error {
	title, ok := badgeTitles[code]
	if !ok {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT IGNORE INTO badges (user_id, code, title, awarded_at)
		VALUES (?, ?, ?, UTC_TIMESTAMP())
	`, userID, code, title)
	return err
}

// AwardFirstExpense gives the badge for recording a first shared expense.
func AwardFirstExpense(ctx context.Context, db *sql.DB, userID int) error {
	return award(ctx, db, userID, CodeFirstExpense)
}

// AwardGoalCompleted gives the badge for fully funding a savings goal.
func AwardGoalCompleted(ctx context.Context, db *sql.DB, userID int) error {
	return award(ctx, db, userID, CodeGoalCompleted)
}

// AwardSettledUp gives the badge when the user's balance in the group has
// come back to zero after a settlement.
func AwardSettledUp(ctx context.Context, db *sql.DB, groupID, userID int) error {
	var balance string
	err := db.QueryRowContext(ctx,
		"SELECT balance FROM group_balances WHERE group_id = ? AND user_id = ?",
		groupID, userID).Scan(&balance)
	if err != nil {
		return err
	}
	if balance != "0.00" && balance != "0" {
		return nil
	}
	return award(ctx, db, userID, CodeAllSettledUp)
}
