package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"gamyartha/internal/services"
	"gamyartha/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours — expire stale invitations and split requests
	_, err := c.AddFunc("0 */6 * * *", func() {
		if err := ExpireStaleInvitations(db); err != nil {
			utils.Logger.Errorf("Cron job failed to expire invitations: %v", err)
		}
		if err := ExpireStaleSplitRequests(db); err != nil {
			utils.Logger.Errorf("Cron job failed to expire split requests: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule expiry job: %v", err)
	}

	// Runs daily at midnight — send reminders to group debtors
	_, err = c.AddFunc("0 0 * * *", func() {
		if err := SendReminderEmailsToDebtors(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debtor reminder job: %v", err)
	}

	// Runs daily at 1am — materialize due recurring payments
	_, err = c.AddFunc("0 1 * * *", func() {
		if err := ProcessDueRecurringPayments(db); err != nil {
			utils.Logger.Errorf("Cron job failed to process recurring payments: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule recurring payments job: %v", err)
	}

	// Runs Mondays at 7am — weekly summary emails
	_, err = c.AddFunc("0 7 * * 1", func() {
		if err := SendWeeklySummaries(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send weekly summaries: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule weekly summary job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (expiry every 6h, debtor reminders daily, recurring payments daily, summaries weekly)")
	return c
}

// -------------------------------------------------------------
// Expire stale group invitations
// -------------------------------------------------------------
func ExpireStaleInvitations(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE group_invitations
		SET status = 'expired'
		WHERE expires_at < ? AND status = 'pending'
	`, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		utils.Logger.Infof("Marked %d invitations as expired", rowsAffected)
	}
	return nil
}

// -------------------------------------------------------------
// Expire split requests left pending for over a week
// -------------------------------------------------------------
func ExpireStaleSplitRequests(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE split_requests
		SET status = 'expired'
		WHERE status = 'pending' AND created_at < DATE_SUB(UTC_TIMESTAMP(), INTERVAL 7 DAY)
	`)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		utils.Logger.Infof("Marked %d split requests as expired", rowsAffected)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders to members with negative group balances
// -------------------------------------------------------------
func SendReminderEmailsToDebtors(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT u.email, u.first_name, g.name AS group_name, b.balance
		FROM group_balances b
		JOIN users u ON b.user_id = u.id
		JOIN groups g ON b.group_id = g.id
		WHERE b.balance < 0
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var sends []func() error
	for rows.Next() {
		var email, firstName, groupName string
		var balance decimal.Decimal

		if err := rows.Scan(&email, &firstName, &groupName, &balance); err != nil {
			utils.Logger.Errorf("Failed to scan debtor row: %v", err)
			continue
		}

		owed := balance.Neg()
		sends = append(sends, func() error {
			if err := utils.SendDebtorReminderEmail(email, firstName, owed.StringFixed(2), groupName); err != nil {
				return fmt.Errorf("failed to send reminder email to %s: %v", email, err)
			}
			utils.Logger.Infof("Sent reminder to %s (%s), owes %s in '%s'", firstName, email, owed.StringFixed(2), groupName)
			return nil
		})
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating debtor rows: %v", err)
		return err
	}

	sendAll(sends)
	return nil
}

// sendAll fans out the sends and waits for every one, logging failures
// inside each goroutine so a slow or failing batch can never stall the job.
func sendAll(sends []func() error) {
	var wg sync.WaitGroup
	for _, send := range sends {
		wg.Add(1)
		go func(send func() error) {
			defer wg.Done()
			if err := send(); err != nil {
				utils.Logger.Error(err)
			}
		}(send)
	}
	wg.Wait()
}

// -------------------------------------------------------------
// Materialize due recurring payments as transactions
// -------------------------------------------------------------
func ProcessDueRecurringPayments(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, category, amount, frequency, next_due
		FROM recurring_payments
		WHERE is_active = TRUE AND next_due <= CURDATE()
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type duePayment struct {
		id, userID              int
		name, category, nextDue string
		frequency               string
		amount                  decimal.Decimal
	}

	var due []duePayment
	for rows.Next() {
		var p duePayment
		if err := rows.Scan(&p.id, &p.userID, &p.name, &p.category, &p.amount, &p.frequency, &p.nextDue); err != nil {
			utils.Logger.Errorf("Failed to scan recurring payment: %v", err)
			continue
		}
		due = append(due, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range due {
		nextDue, err := advanceDueDate(p.nextDue, p.frequency)
		if err != nil {
			utils.Logger.Errorf("Skipping recurring payment %d, bad due date %q: %v", p.id, p.nextDue, err)
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		reference := services.GenerateReference("REC")
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, transaction_type, category, amount, reference, description, created_at)
			VALUES (?, 'expense', ?, ?, ?, ?, UTC_TIMESTAMP())
		`, p.userID, p.category, p.amount, reference, "recurring: "+p.name)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("Failed to record recurring payment %d: %v", p.id, err)
			continue
		}

		_, err = tx.ExecContext(ctx, "UPDATE recurring_payments SET next_due = ? WHERE id = ?", nextDue, p.id)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("Failed to advance due date for recurring payment %d: %v", p.id, err)
			continue
		}

		if err := tx.Commit(); err != nil {
			utils.Logger.Errorf("Failed to commit recurring payment %d: %v", p.id, err)
			continue
		}
		utils.Logger.Infof("Processed recurring payment '%s' for user %d, next due %s", p.name, p.userID, nextDue)
	}
	return nil
}

func advanceDueDate(current, frequency string) (string, error) {
	t, err := time.Parse("2006-01-02", current)
	if err != nil {
		return "", err
	}
	switch frequency {
	case "weekly":
		t = t.AddDate(0, 0, 7)
	case "yearly":
		t = t.AddDate(1, 0, 0)
	default:
		t = t.AddDate(0, 1, 0)
	}
	return t.Format("2006-01-02"), nil
}

// -------------------------------------------------------------
// Weekly income/expense summary emails
// -------------------------------------------------------------
func SendWeeklySummaries(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT u.email, u.first_name,
			COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN t.transaction_type = 'expense' THEN t.amount ELSE 0 END), 0) AS expenses
		FROM users u
		JOIN transactions t ON t.user_id = u.id
		WHERE t.created_at >= DATE_SUB(UTC_TIMESTAMP(), INTERVAL 7 DAY)
		GROUP BY u.id, u.email, u.first_name
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var sends []func() error
	for rows.Next() {
		var email, firstName string
		var income, expenses decimal.Decimal

		if err := rows.Scan(&email, &firstName, &income, &expenses); err != nil {
			utils.Logger.Errorf("Failed to scan summary row: %v", err)
			continue
		}

		net := income.Sub(expenses)
		sends = append(sends, func() error {
			if err := utils.SendWeeklySummaryEmail(email, firstName, income.StringFixed(2), expenses.StringFixed(2), net.StringFixed(2)); err != nil {
				return fmt.Errorf("failed to send weekly summary to %s: %v", email, err)
			}
			return nil
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sendAll(sends)
	return nil
}
