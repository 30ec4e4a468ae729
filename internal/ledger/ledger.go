// Package ledger maintains per-group member balances and plans settlements.
//
// Every committed operation preserves the zero-sum invariant: the balances of
// a group's members always sum to exactly zero. Only this package writes to
// the group_balances table; everything else treats it as read-only.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/models"
)

const (
	MethodEqual      = "equal"
	MethodExact      = "exact"
	MethodPercentage = "percentage"
	MethodSettlement = "settlement"
)

// Maintainer applies expense splits and settlements against the persisted
// balance rows. It holds an injected handle rather than a package global so
// callers control the pool it runs on.
type Maintainer struct {
	db *sql.DB
}

func NewMaintainer(db *sql.DB) *Maintainer {
	return &Maintainer{db: db}
}

// SplitDeltas computes the balance changes for an equal split of total across
// memberIDs, paid for by payerID. Every member other than the payer is debited
// their share; the payer is credited total minus their own share. Per-member
// shares are rounded down to 2 decimal places and the non-negative remainder
// lands on the payer's own share (or the first member when the payer is not
// among the split targets), so the deltas always sum to exactly zero and the
// payer's credit never exceeds total.
func SplitDeltas(payerID int, total decimal.Decimal, memberIDs []int) (map[int]decimal.Decimal, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	shares, err := equalShares(payerID, total, memberIDs)
	if err != nil {
		return nil, err
	}
	return shareDeltas(payerID, total, shares), nil
}

// ExactDeltas computes balance changes from caller-supplied per-member share
// amounts (exact or percentage splits resolved to amounts by the caller).
// Shares must be non-negative and sum to total.
func ExactDeltas(payerID int, total decimal.Decimal, shares map[int]decimal.Decimal) (map[int]decimal.Decimal, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if len(shares) == 0 {
		return nil, ErrNoMembers
	}

	sum := decimal.Zero
	for _, share := range shares {
		if share.IsNegative() {
			return nil, ErrInvalidAmount
		}
		sum = sum.Add(share)
	}
	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: shares sum to %s, expense total is %s", ErrInvalidAmount, sum, total)
	}

	return shareDeltas(payerID, total, shares), nil
}

// shareDeltas turns per-member owed shares into signed balance deltas. The
// payer's own share cancels against the credit, so the payer's delta is
// total minus their share and the deltas sum to zero by construction.
func shareDeltas(payerID int, total decimal.Decimal, shares map[int]decimal.Decimal) map[int]decimal.Decimal {
	deltas := make(map[int]decimal.Decimal, len(shares)+1)
	payerShare := decimal.Zero
	for id, share := range shares {
		if id == payerID {
			payerShare = share
			continue
		}
		deltas[id] = deltas[id].Sub(share)
	}
	deltas[payerID] = deltas[payerID].Add(total.Sub(payerShare))
	return deltas
}

// SettlementDeltas computes the two balance changes for a direct payment from
// debtor to creditor: the debtor's debt shrinks, the creditor's credit shrinks.
func SettlementDeltas(debtorID, creditorID int, amount decimal.Decimal) (map[int]decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if debtorID == creditorID {
		return nil, ErrSameParty
	}
	return map[int]decimal.Decimal{
		debtorID:   amount,
		creditorID: amount.Neg(),
	}, nil
}

// ApplyExpenseSplit records a shared expense and applies its balance deltas in
// one transaction. For the equal method memberIDs defaults to every current
// group member when nil; for exact and percentage methods shares carries the
// per-member amounts. Returns the id of the immutable expense event row.
func (m *Maintainer) ApplyExpenseSplit(ctx context.Context, groupID, payerID int, total decimal.Decimal, description, method string, memberIDs []int, shares map[int]decimal.Decimal, splitRequestID int) (int64, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidAmount
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	members, err := lockGroupMembers(ctx, tx, groupID)
	if err != nil {
		return 0, err
	}
	if _, ok := members[payerID]; !ok {
		return 0, ErrMemberNotFound
	}

	var deltas map[int]decimal.Decimal
	switch method {
	case MethodExact, MethodPercentage:
		for id := range shares {
			if _, ok := members[id]; !ok {
				return 0, ErrMemberNotFound
			}
		}
		deltas, err = ExactDeltas(payerID, total, shares)
	default:
		if memberIDs == nil {
			for id := range members {
				memberIDs = append(memberIDs, id)
			}
		} else {
			for _, id := range memberIDs {
				if _, ok := members[id]; !ok {
					return 0, ErrMemberNotFound
				}
			}
		}
		method = MethodEqual
		shares, err = equalShares(payerID, total, memberIDs)
		if err == nil {
			deltas = shareDeltas(payerID, total, shares)
		}
	}
	if err != nil {
		return 0, err
	}

	var requestID sql.NullInt64
	if splitRequestID > 0 {
		requestID = sql.NullInt64{Int64: int64(splitRequestID), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO group_expenses (group_id, paid_by, description, amount, split_method, split_request_id, is_settlement, created_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?)
	`, groupID, payerID, description, total, method, requestID, now())
	if err != nil {
		return 0, fmt.Errorf("failed to record expense: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO group_expense_shares (expense_id, user_id, share, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare share insert: %w", err)
	}
	defer stmt.Close()

	for userID, share := range shares {
		if _, err := stmt.ExecContext(ctx, eventID, userID, share, now()); err != nil {
			return 0, fmt.Errorf("failed to record share for user %d: %w", userID, err)
		}
	}

	if err := applyDeltas(ctx, tx, groupID, deltas); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit expense split: %w", err)
	}
	return eventID, nil
}

// ApplySettlement records a direct debtor-to-creditor payment and nets it
// against both balances in one transaction. Over-settlement is permitted and
// simply flips the sign; the calling layer enforces who may settle.
func (m *Maintainer) ApplySettlement(ctx context.Context, groupID, debtorID, creditorID int, amount decimal.Decimal) (int64, error) {
	deltas, err := SettlementDeltas(debtorID, creditorID, amount)
	if err != nil {
		return 0, err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	members, err := lockGroupMembers(ctx, tx, groupID)
	if err != nil {
		return 0, err
	}
	if _, ok := members[debtorID]; !ok {
		return 0, ErrMemberNotFound
	}
	if _, ok := members[creditorID]; !ok {
		return 0, ErrMemberNotFound
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO group_expenses (group_id, paid_by, paid_to, description, amount, split_method, is_settlement, created_at)
		VALUES (?, ?, ?, 'settle up', ?, ?, TRUE, ?)
	`, groupID, debtorID, creditorID, amount, MethodSettlement, now())
	if err != nil {
		return 0, fmt.Errorf("failed to record settlement: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read settlement id: %w", err)
	}

	if err := applyDeltas(ctx, tx, groupID, deltas); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return eventID, nil
}

// Balances returns the latest committed per-member net balances for a group.
func (m *Maintainer) Balances(ctx context.Context, groupID int) ([]models.GroupBalance, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT group_id, user_id, balance, updated_at
		FROM group_balances
		WHERE group_id = ?
		ORDER BY user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	defer rows.Close()

	var balances []models.GroupBalance
	for rows.Next() {
		var b models.GroupBalance
		if err := rows.Scan(&b.GroupID, &b.UserID, &b.Balance, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// lockGroupMembers verifies the group exists and locks its balance rows for
// the duration of the transaction, serializing concurrent ledger operations
// on the same group. Returns the set of member ids.
func lockGroupMembers(ctx context.Context, tx *sql.Tx, groupID int) (map[int]struct{}, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	rows, err := tx.QueryContext(ctx, "SELECT user_id FROM group_balances WHERE group_id = ? FOR UPDATE", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balances: %w", err)
	}
	defer rows.Close()

	members := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}
	return members, nil
}

// applyDeltas writes one deltas map against the balance rows. All rows move or
// none do; the surrounding transaction provides the all-or-nothing contract.
func applyDeltas(ctx context.Context, tx *sql.Tx, groupID int, deltas map[int]decimal.Decimal) error {
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE group_balances SET balance = balance + ?, updated_at = ? WHERE group_id = ? AND user_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare balance update: %w", err)
	}
	defer stmt.Close()

	for userID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		res, err := stmt.ExecContext(ctx, delta, now(), groupID, userID)
		if err != nil {
			return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to verify balance update: %w", err)
		}
		if affected == 0 {
			return ErrMemberNotFound
		}
	}
	return nil
}

func equalShares(payerID int, total decimal.Decimal, memberIDs []int) (map[int]decimal.Decimal, error) {
	n := len(memberIDs)
	if n == 0 {
		return nil, ErrNoMembers
	}
	// Rounding down keeps the remainder non-negative: the bearer's share is
	// total minus the others' rounded shares, and can never exceed total.
	base := total.Div(decimal.NewFromInt(int64(n))).RoundDown(2)

	bearer := memberIDs[0]
	for _, id := range memberIDs {
		if id == payerID {
			bearer = payerID
			break
		}
	}

	shares := make(map[int]decimal.Decimal, n)
	others := decimal.Zero
	for _, id := range memberIDs {
		if id == bearer {
			continue
		}
		shares[id] = base
		others = others.Add(base)
	}
	shares[bearer] = total.Sub(others)
	return shares, nil
}

func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
