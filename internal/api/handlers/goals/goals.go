package goals

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/gamification"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/internal/services"
	"gamyartha/pkg/utils"
)

// FUNC TO CREATE A SAVINGS GOAL
func CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
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
		Name         string          `json:"name"`
		TargetAmount decimal.Decimal `json:"target_amount"`
		Deadline     string          `json:"deadline"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "target_amount must be greater than 0", http.StatusBadRequest)
		return
	}

	var deadline interface{}
	if req.Deadline != "" {
		if _, err := time.Parse("2006-01-02", req.Deadline); err != nil {
			utils.WriteError(w, "deadline must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
		deadline = req.Deadline
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		INSERT INTO goals (user_id, name, target_amount, saved_amount, deadline, is_completed, created_at)
		VALUES (?, ?, ?, 0.00, ?, FALSE, UTC_TIMESTAMP())
	`, userID, req.Name, req.TargetAmount, deadline)
	if err != nil {
		utils.Logger.Errorf("failed to create goal: %v", err)
		utils.WriteError(w, "failed to create goal", http.StatusInternalServerError)
		return
	}

	goalID, _ := result.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "goal created",
		"data": map[string]interface{}{
			"goal_id": goalID,
		},
	})
}

// FUNC TO GET ALL GOALS OF THE LOGGED IN USER
func GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
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
		SELECT id, user_id, name, target_amount, saved_amount, deadline, is_completed, created_at
		FROM goals WHERE user_id = ?
		ORDER BY is_completed, created_at DESC
	`, userID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve goals", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.Deadline, &g.IsCompleted, &g.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning goal: %v", err)
			utils.WriteError(w, "error reading goals", http.StatusInternalServerError)
			return
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing goals read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(goals),
		"goals":  goals,
	})
}

// FUNC TO CONTRIBUTE TOWARDS A GOAL
func ContributeToGoalHandler(w http.ResponseWriter, r *http.Request) {
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
	goalID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid goal ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Amount decimal.Decimal `json:"amount"`
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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	var goal models.Goal
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, target_amount, saved_amount, is_completed
		FROM goals WHERE id = ? AND user_id = ? FOR UPDATE
	`, goalID, userID).Scan(&goal.ID, &goal.Name, &goal.TargetAmount, &goal.SavedAmount, &goal.IsCompleted)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			utils.WriteError(w, "goal not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve goal", http.StatusInternalServerError)
		return
	}
	if goal.IsCompleted {
		tx.Rollback()
		utils.WriteError(w, "goal is already completed", http.StatusConflict)
		return
	}

	newSaved := goal.SavedAmount.Add(req.Amount)
	completed := newSaved.GreaterThanOrEqual(goal.TargetAmount)

	_, err = tx.ExecContext(ctx, `
		UPDATE goals SET saved_amount = ?, is_completed = ? WHERE id = ?
	`, newSaved, completed, goalID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to update goal", http.StatusInternalServerError)
		return
	}

	// Every contribution is also a personal expense so the monthly summary
	// reflects money moved into savings.
	reference := services.GenerateReference("GOAL")
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, transaction_type, category, amount, reference, description, created_at)
		VALUES (?, 'expense', 'savings', ?, ?, ?, UTC_TIMESTAMP())
	`, userID, req.Amount, reference, "contribution to goal: "+goal.Name)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to record contribution", http.StatusInternalServerError)
		return
	}

	if err = tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit contribution", http.StatusInternalServerError)
		return
	}

	if completed {
		if err := gamification.AwardGoalCompleted(ctx, db, userID); err != nil {
			utils.Logger.Warnf("failed to award badge: %v", err)
		}
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "contribution recorded",
		"data": map[string]interface{}{
			"goal_id":      goalID,
			"saved_amount": newSaved,
			"is_completed": completed,
			"reference":    reference,
		},
	})
}

// FUNC TO DELETE A GOAL
func DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
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
	goalID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid goal ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", goalID, userID)
	if err != nil {
		utils.WriteError(w, "failed to delete goal", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "goal not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "goal deleted",
	})
}
