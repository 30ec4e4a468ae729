package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/ledger"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

// FUNC TO CREATE A SPLIT REQUEST
func CreateSplitRequestHandler(w http.ResponseWriter, r *http.Request) {
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
		GroupID     int             `json:"group_id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
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

	result, err := db.ExecContext(ctx, `
		INSERT INTO split_requests (group_id, requested_by, description, amount, status, created_at)
		VALUES (?, ?, ?, ?, 'pending', UTC_TIMESTAMP())
	`, req.GroupID, userID, req.Description, req.Amount)
	if err != nil {
		utils.Logger.Errorf("failed to create split request: %v", err)
		utils.WriteError(w, "failed to create split request", http.StatusInternalServerError)
		return
	}

	requestID, _ := result.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "split request submitted for approval",
		"data": map[string]interface{}{
			"request_id": requestID,
		},
	})
}

// FUNC TO GET PENDING SPLIT REQUESTS FOR A GROUP
func GetPendingSplitRequestsHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx, `
		SELECT id, group_id, requested_by, description, amount, status, created_at
		FROM split_requests
		WHERE group_id = ? AND status = 'pending'
		ORDER BY created_at DESC
	`, groupID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve split requests", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var requests []models.SplitRequest
	for rows.Next() {
		var sr models.SplitRequest
		if err := rows.Scan(&sr.ID, &sr.GroupID, &sr.RequestedBy, &sr.Description, &sr.Amount, &sr.Status, &sr.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning split request: %v", err)
			utils.WriteError(w, "error reading split requests", http.StatusInternalServerError)
			return
		}
		requests = append(requests, sr)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing split requests read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"count":    len(requests),
		"requests": requests,
	})
}

// loadPendingRequest fetches a split request and verifies it is still pending.
func loadPendingRequest(ctx context.Context, db *sql.DB, requestID int, w http.ResponseWriter) (models.SplitRequest, bool) {
	var sr models.SplitRequest
	err := db.QueryRowContext(ctx, `
		SELECT id, group_id, requested_by, description, amount, status
		FROM split_requests WHERE id = ?
	`, requestID).Scan(&sr.ID, &sr.GroupID, &sr.RequestedBy, &sr.Description, &sr.Amount, &sr.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "split request not found", http.StatusNotFound)
		} else {
			utils.WriteError(w, "failed to retrieve split request", http.StatusInternalServerError)
		}
		return sr, false
	}
	if sr.Status != "pending" {
		utils.WriteError(w, "split request has already been resolved", http.StatusConflict)
		return sr, false
	}
	return sr, true
}

// FUNC TO APPROVE A SPLIT REQUEST
func ApproveSplitRequestHandler(w http.ResponseWriter, r *http.Request) {
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
	requestID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid request ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sr, ok := loadPendingRequest(ctx, db, requestID, w)
	if !ok {
		return
	}

	if !isGroupAdmin(ctx, db, sr.GroupID, userID, w) {
		return
	}

	// Approving materializes the request as an equal-split expense paid
	// by the requester.
	maintainer := ledger.NewMaintainer(db)
	eventID, err := maintainer.ApplyExpenseSplit(ctx, sr.GroupID, sr.RequestedBy, sr.Amount, sr.Description, ledger.MethodEqual, nil, nil, sr.ID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	_, err = db.ExecContext(ctx, "UPDATE split_requests SET status = 'approved' WHERE id = ?", sr.ID)
	if err != nil {
		utils.Logger.Errorf("expense %d created but request %d not marked approved: %v", eventID, sr.ID, err)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "split request approved and expense recorded",
		"data": map[string]interface{}{
			"request_id": sr.ID,
			"expense_id": eventID,
		},
	})
}

// FUNC TO DECLINE A SPLIT REQUEST
func DeclineSplitRequestHandler(w http.ResponseWriter, r *http.Request) {
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
	requestID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid request ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sr, ok := loadPendingRequest(ctx, db, requestID, w)
	if !ok {
		return
	}

	if !isGroupAdmin(ctx, db, sr.GroupID, userID, w) {
		return
	}

	_, err = db.ExecContext(ctx, "UPDATE split_requests SET status = 'declined' WHERE id = ?", sr.ID)
	if err != nil {
		utils.WriteError(w, "failed to decline split request", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "split request declined",
	})
}
