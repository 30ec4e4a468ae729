package recurring

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

var validFrequencies = map[string]bool{
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

// FUNC TO CREATE A RECURRING PAYMENT
func CreateRecurringPaymentHandler(w http.ResponseWriter, r *http.Request) {
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
		Name      string          `json:"name"`
		Category  string          `json:"category"`
		Amount    decimal.Decimal `json:"amount"`
		Frequency string          `json:"frequency"`
		NextDue   string          `json:"next_due"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" || req.Category == "" {
		utils.WriteError(w, "name and category are required", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if !validFrequencies[req.Frequency] {
		utils.WriteError(w, "frequency must be weekly, monthly or yearly", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.NextDue); err != nil {
		utils.WriteError(w, "next_due must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		INSERT INTO recurring_payments (user_id, name, category, amount, frequency, next_due, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, TRUE, UTC_TIMESTAMP())
	`, userID, req.Name, req.Category, req.Amount, req.Frequency, req.NextDue)
	if err != nil {
		utils.Logger.Errorf("failed to create recurring payment: %v", err)
		utils.WriteError(w, "failed to create recurring payment", http.StatusInternalServerError)
		return
	}

	paymentID, _ := result.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "recurring payment scheduled",
		"data": map[string]interface{}{
			"payment_id": paymentID,
			"next_due":   req.NextDue,
		},
	})
}

// FUNC TO GET RECURRING PAYMENTS OF THE LOGGED IN USER
func GetRecurringPaymentsHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, category, amount, frequency, next_due, is_active, created_at
		FROM recurring_payments
		WHERE user_id = ?
		ORDER BY next_due
	`, userID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve recurring payments", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var payments []models.RecurringPayment
	for rows.Next() {
		var p models.RecurringPayment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &p.Amount, &p.Frequency, &p.NextDue, &p.IsActive, &p.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning recurring payment: %v", err)
			utils.WriteError(w, "error reading recurring payments", http.StatusInternalServerError)
			return
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing recurring payments read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"count":    len(payments),
		"payments": payments,
	})
}

// FUNC TO PAUSE OR RESUME A RECURRING PAYMENT
func ToggleRecurringPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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
	paymentID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid payment ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE recurring_payments SET is_active = NOT is_active
		WHERE id = ? AND user_id = ?
	`, paymentID, userID)
	if err != nil {
		utils.WriteError(w, "failed to update recurring payment", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "recurring payment not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "recurring payment updated",
	})
}

// FUNC TO DELETE A RECURRING PAYMENT
func DeleteRecurringPaymentHandler(w http.ResponseWriter, r *http.Request) {
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
	paymentID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid payment ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, "DELETE FROM recurring_payments WHERE id = ? AND user_id = ?", paymentID, userID)
	if err != nil {
		utils.WriteError(w, "failed to delete recurring payment", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "recurring payment not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "recurring payment deleted",
	})
}
