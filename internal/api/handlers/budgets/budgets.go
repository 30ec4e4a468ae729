package budgets

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

// FUNC TO CREATE OR REPLACE A MONTHLY BUDGET
func SetBudgetHandler(w http.ResponseWriter, r *http.Request) {
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
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit_amount"`
		Month    string          `json:"month"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		utils.WriteError(w, "category is required", http.StatusBadRequest)
		return
	}
	if req.Limit.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "limit_amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Month == "" {
		req.Month = time.Now().UTC().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		utils.WriteError(w, "month must be in YYYY-MM format", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// One budget per user+category+month; setting it again replaces the limit.
	_, err := db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_amount, month, created_at)
		VALUES (?, ?, ?, ?, UTC_TIMESTAMP())
		ON DUPLICATE KEY UPDATE limit_amount = VALUES(limit_amount)
	`, userID, req.Category, req.Limit, req.Month)
	if err != nil {
		utils.Logger.Errorf("failed to set budget: %v", err)
		utils.WriteError(w, "failed to set budget", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "budget set",
		"data": map[string]interface{}{
			"category":     req.Category,
			"limit_amount": req.Limit,
			"month":        req.Month,
		},
	})
}

// FUNC TO GET BUDGETS WITH SPENDING PROGRESS
func GetBudgetsHandler(w http.ResponseWriter, r *http.Request) {
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

	query := `
		SELECT b.id, b.category, b.limit_amount, b.month,
		       COALESCE(SUM(t.amount), 0) AS spent
		FROM budgets b
		LEFT JOIN transactions t
		  ON t.user_id = b.user_id
		 AND t.category = b.category
		 AND t.transaction_type = 'expense'
		 AND DATE_FORMAT(t.created_at, '%Y-%m') = b.month
		WHERE b.user_id = ? AND b.month = ?
		GROUP BY b.id, b.category, b.limit_amount, b.month
		ORDER BY b.category
	`
	rows, err := db.QueryContext(ctx, query, userID, month)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve budgets: %v", err)
		utils.WriteError(w, "failed to retrieve budgets", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type budgetView struct {
		models.Budget
		Spent     decimal.Decimal `json:"spent"`
		Remaining decimal.Decimal `json:"remaining"`
	}

	var budgets []budgetView
	for rows.Next() {
		var bv budgetView
		if err := rows.Scan(&bv.ID, &bv.Category, &bv.Limit, &bv.Month, &bv.Spent); err != nil {
			utils.Logger.Errorf("error scanning budget: %v", err)
			utils.WriteError(w, "error reading budgets", http.StatusInternalServerError)
			return
		}
		bv.UserID = userID
		bv.Remaining = bv.Limit.Sub(bv.Spent)
		budgets = append(budgets, bv)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing budgets read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"month":   month,
		"count":   len(budgets),
		"budgets": budgets,
	})
}

// FUNC TO DELETE A BUDGET
func DeleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
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
	budgetID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid budget ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ? AND user_id = ?", budgetID, userID)
	if err != nil {
		utils.WriteError(w, "failed to delete budget", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "budget not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget deleted",
	})
}
