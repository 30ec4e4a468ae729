package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/gamification"
	"gamyartha/internal/ledger"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

// writeLedgerError maps the ledger error taxonomy onto HTTP responses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrGroupNotFound):
		utils.WriteError(w, "group not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrMemberNotFound):
		utils.WriteError(w, "member not found in group", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidAmount):
		utils.WriteError(w, "amount must be greater than 0 and shares must add up", http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNoMembers):
		utils.WriteError(w, "no members to split expense with", http.StatusBadRequest)
	case errors.Is(err, ledger.ErrSameParty):
		utils.WriteError(w, "you cannot settle up with yourself", http.StatusBadRequest)
	default:
		utils.Logger.Errorf("ledger operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// FUNC TO CREATE GROUP EXPENSES
func CreateGroupExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		GroupID     int                        `json:"group_id"`
		Description string                     `json:"description"`
		Amount      decimal.Decimal            `json:"amount"`
		SplitMethod string                     `json:"split_method"`
		Shares      map[string]decimal.Decimal `json:"shares"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		utils.WriteError(w, "description is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isGroupMember(ctx, db, req.GroupID, userID, w) {
		return
	}

	var shares map[int]decimal.Decimal
	if req.SplitMethod == ledger.MethodExact || req.SplitMethod == ledger.MethodPercentage {
		shares = make(map[int]decimal.Decimal, len(req.Shares))
		for idStr, share := range req.Shares {
			memberID, err := strconv.Atoi(idStr)
			if err != nil {
				utils.WriteError(w, "invalid member id in shares", http.StatusBadRequest)
				return
			}
			if req.SplitMethod == ledger.MethodPercentage {
				// Percentages are resolved to amounts here; the ledger only
				// ever sees concrete per-member amounts.
				share = req.Amount.Mul(share).Div(decimal.NewFromInt(100)).Round(2)
			}
			shares[memberID] = share
		}
		if req.SplitMethod == ledger.MethodPercentage {
			reconcileShares(shares, req.Amount, userID)
		}
	}

	maintainer := ledger.NewMaintainer(db)
	eventID, err := maintainer.ApplyExpenseSplit(ctx, req.GroupID, userID, req.Amount, req.Description, req.SplitMethod, nil, shares, 0)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	if err := gamification.AwardFirstExpense(ctx, db, userID); err != nil {
		utils.Logger.Warnf("failed to award badge: %v", err)
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "expense recorded and split across the group",
		"data": map[string]interface{}{
			"expense_id": eventID,
			"amount":     req.Amount,
		},
	})
}

// reconcileShares nudges the payer's share (or the largest share) so rounded
// percentage amounts add up to the expense total again.
func reconcileShares(shares map[int]decimal.Decimal, total decimal.Decimal, payerID int) {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	diff := total.Sub(sum)
	if diff.IsZero() {
		return
	}

	target := payerID
	if _, ok := shares[target]; !ok {
		largest := decimal.Zero
		for id, s := range shares {
			if s.GreaterThan(largest) {
				largest = s
				target = id
			}
		}
	}
	shares[target] = shares[target].Add(diff)
}

// FUNC TO GET ALL GROUP EXPENSES
func GetGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists)
	if err != nil || !exists {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := `
		SELECT e.id, e.description, e.amount, e.split_method, e.is_settlement, u.username AS paid_by, e.created_at
		FROM group_expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = ?
		ORDER BY e.created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type Expense struct {
		ID           int             `json:"id"`
		Description  string          `json:"description"`
		Amount       decimal.Decimal `json:"amount"`
		SplitMethod  string          `json:"split_method"`
		IsSettlement bool            `json:"is_settlement"`
		PaidBy       string          `json:"paid_by"`
		CreatedAt    sql.NullString  `json:"created_at"`
	}

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.SplitMethod, &e.IsSettlement, &e.PaidBy, &e.CreatedAt); err != nil {
			utils.Logger.Errorf("error reading expenses: %v", err)
			utils.WriteError(w, "error reading expenses", http.StatusInternalServerError)
			return
		}
		expenses = append(expenses, e)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing expenses read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"count":    len(expenses),
		"page":     page,
		"expenses": expenses,
	})
}

// FUNC TO GET ONE EXPENSE WITH ITS SHARE BREAKDOWN
func GetExpenseByIdHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var expense models.GroupExpense
	err = db.QueryRowContext(ctx, `
		SELECT id, group_id, paid_by, paid_to, description, amount, split_method, is_settlement, created_at
		FROM group_expenses WHERE id = ?
	`, expenseID).Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.PaidTo, &expense.Description,
		&expense.Amount, &expense.SplitMethod, &expense.IsSettlement, &expense.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if !isGroupMember(ctx, db, expense.GroupID, userID, w) {
		return
	}

	type shareView struct {
		models.GroupExpenseShare
		Username string `json:"username"`
	}

	query := `
		SELECT s.id, s.user_id, u.username, s.share
		FROM group_expense_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = ?
		ORDER BY s.user_id
	`
	rows, err := db.QueryContext(ctx, query, expenseID)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve expense shares: %v", err)
		utils.WriteError(w, "failed to retrieve expense shares", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var shares []shareView
	for rows.Next() {
		var s shareView
		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.Share); err != nil {
			utils.Logger.Errorf("error scanning share: %v", err)
			continue
		}
		s.ExpenseID = expenseID
		shares = append(shares, s)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"expense": expense,
			"shares":  shares,
		},
	})
}

// FUNC TO SETTLE UP WITH ANOTHER MEMBER
func SettleUpHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		CreditorID int             `json:"creditor_id"`
		Amount     decimal.Decimal `json:"amount"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	// Only the debtor may settle on their own behalf, so the authenticated
	// user is always the paying side.
	maintainer := ledger.NewMaintainer(db)
	eventID, err := maintainer.ApplySettlement(ctx, groupID, userID, req.CreditorID, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	var payerName, receiverEmail, receiverFirstName, groupName string
	db.QueryRowContext(ctx, "SELECT username FROM users WHERE id = ?", userID).Scan(&payerName)
	db.QueryRowContext(ctx, "SELECT email, first_name FROM users WHERE id = ?", req.CreditorID).Scan(&receiverEmail, &receiverFirstName)
	db.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", groupID).Scan(&groupName)

	go func(email, payer, amount, group string, eventID int64) {
		if err := utils.SendPaymentReceivedEmail(email, payer, amount, group, eventID, time.Now()); err != nil {
			utils.Logger.Errorf("failed to send payment received email to %s: %v", email, err)
		}
	}(receiverEmail, payerName, req.Amount.String(), groupName, eventID)

	if err := gamification.AwardSettledUp(ctx, db, groupID, userID); err != nil {
		utils.Logger.Warnf("failed to award badge: %v", err)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("settlement of %s recorded", req.Amount),
		"data": map[string]interface{}{
			"settlement_id": eventID,
			"amount":        req.Amount,
		},
	})
}

// FUNC TO GET GROUP BALANCES
func GetGroupBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	maintainer := ledger.NewMaintainer(db)
	balances, err := maintainer.Balances(ctx, groupID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"balances": balances,
	})
}

// FUNC TO GET SUGGESTED SETTLEMENTS FOR A GROUP
func GetSettlementSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	maintainer := ledger.NewMaintainer(db)
	balances, err := maintainer.Balances(ctx, groupID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	suggestions := ledger.PlanSettlements(balances)

	utils.WriteJSON(w, map[string]interface{}{
		"status":      "success",
		"group_id":    groupID,
		"count":       len(suggestions),
		"suggestions": suggestions,
	})
}
