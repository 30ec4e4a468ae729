package transactions

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/internal/services"
	"gamyartha/pkg/utils"
)

// FUNC TO RECORD A PERSONAL TRANSACTION
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
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
		TransactionType string          `json:"transaction_type"`
		Category        string          `json:"category"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.TransactionType != "income" && req.TransactionType != "expense" {
		utils.WriteError(w, "transaction_type must be income or expense", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		utils.WriteError(w, "category is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reference := services.GenerateReference("TXN")
	result, err := db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, transaction_type, category, amount, reference, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())
	`, userID, req.TransactionType, req.Category, req.Amount, reference, req.Description)
	if err != nil {
		utils.Logger.Errorf("failed to record transaction: %v", err)
		utils.WriteError(w, "failed to record transaction", http.StatusInternalServerError)
		return
	}

	txnID, _ := result.LastInsertId()

	go checkBudgetAlert(userID, req.TransactionType, req.Category)

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "transaction recorded",
		"data": map[string]interface{}{
			"transaction_id": txnID,
			"reference":      reference,
		},
	})
}

// checkBudgetAlert emails the user when an expense pushes month-to-date
// spending in a category past the alert threshold of its budget.
func checkBudgetAlert(userID int, txnType, category string) {
	if txnType != "expense" {
		return
	}

	db := sqlconnect.DB
	cfg := handlers.AppConfig
	if db == nil || cfg == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var limit decimal.Decimal
	err := db.QueryRowContext(ctx, `
		SELECT limit_amount FROM budgets
		WHERE user_id = ? AND category = ? AND month = DATE_FORMAT(UTC_TIMESTAMP(), '%Y-%m')
	`, userID, category).Scan(&limit)
	if err != nil {
		return
	}

	var spent decimal.Decimal
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = ? AND category = ? AND transaction_type = 'expense'
		  AND created_at >= DATE_FORMAT(UTC_TIMESTAMP(), '%Y-%m-01')
	`, userID, category).Scan(&spent)
	if err != nil {
		return
	}

	threshold := limit.Mul(decimal.NewFromInt(int64(cfg.BudgetAlertPct))).Div(decimal.NewFromInt(100))
	if spent.LessThan(threshold) {
		return
	}

	var email, firstName string
	if err := db.QueryRowContext(ctx, "SELECT email, first_name FROM users WHERE id = ?", userID).Scan(&email, &firstName); err != nil {
		return
	}
	if err := utils.SendBudgetAlertEmail(email, firstName, category, spent.StringFixed(2), limit.StringFixed(2)); err != nil {
		utils.Logger.Errorf("failed to send budget alert email to %s: %v", email, err)
	}
}

// FUNC TO GET ALL TRANSACTIONS OF THE LOGGED IN USER
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
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

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := `
		SELECT id, user_id, transaction_type, category, amount, reference, description, created_at
		FROM transactions
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	if txnType := r.URL.Query().Get("type"); txnType != "" {
		query += " AND transaction_type = ?"
		args = append(args, txnType)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	sorted := utils.AddSorting(r, query)
	if sorted == query {
		sorted = query + " ORDER BY created_at DESC"
	}
	query = sorted + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve transactions: %v", err)
		utils.WriteError(w, "failed to retrieve transactions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.TransactionType, &t.Category, &t.Amount, &t.Reference, &t.Description, &t.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning transaction: %v", err)
			utils.WriteError(w, "error reading transactions", http.StatusInternalServerError)
			return
		}
		txns = append(txns, t)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing transactions read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":       "success",
		"count":        len(txns),
		"page":         page,
		"transactions": txns,
	})
}

// FUNC TO GET ONE TRANSACTION
func GetTransactionByIdHandler(w http.ResponseWriter, r *http.Request) {
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
	txnID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var t models.Transaction
	err = db.QueryRowContext(ctx, `
		SELECT id, user_id, transaction_type, category, amount, reference, description, created_at
		FROM transactions WHERE id = ? AND user_id = ?
	`, txnID, userID).Scan(&t.ID, &t.UserID, &t.TransactionType, &t.Category, &t.Amount, &t.Reference, &t.Description, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "transaction not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   t,
	})
}

// FUNC TO DELETE A TRANSACTION
func DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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
	txnID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", txnID, userID)
	if err != nil {
		utils.WriteError(w, "failed to delete transaction", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "transaction not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "transaction deleted",
	})
}

// FUNC TO GET A MONTHLY INCOME/EXPENSE SUMMARY
func GetMonthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
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

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		utils.WriteError(w, "month must be in YYYY-MM format", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var income, expenses decimal.Decimal
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND DATE_FORMAT(created_at, '%Y-%m') = ?
	`, userID, month).Scan(&income, &expenses)
	if err != nil {
		utils.Logger.Errorf("failed to compute monthly summary: %v", err)
		utils.WriteError(w, "failed to compute monthly summary", http.StatusInternalServerError)
		return
	}

	type categoryTotal struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}

	rows, err := db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE user_id = ? AND transaction_type = 'expense' AND DATE_FORMAT(created_at, '%Y-%m') = ?
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`, userID, month)
	if err != nil {
		utils.WriteError(w, "failed to compute category breakdown", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var byCategory []categoryTotal
	for rows.Next() {
		var ct categoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			utils.Logger.Errorf("error scanning category total: %v", err)
			continue
		}
		byCategory = append(byCategory, ct)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"month":       month,
			"income":      income,
			"expenses":    expenses,
			"net":         income.Sub(expenses),
			"by_category": byCategory,
		},
	})
}
