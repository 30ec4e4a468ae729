package networth

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

// FUNC TO ADD AN ASSET OR LIABILITY
func CreateNetWorthItemHandler(w http.ResponseWriter, r *http.Request) {
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
		Name     string          `json:"name"`
		ItemType string          `json:"item_type"`
		Value    decimal.Decimal `json:"value"`
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
	if req.ItemType != "asset" && req.ItemType != "liability" {
		utils.WriteError(w, "item_type must be asset or liability", http.StatusBadRequest)
		return
	}
	if req.Value.LessThan(decimal.Zero) {
		utils.WriteError(w, "value cannot be negative", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		INSERT INTO net_worth_items (user_id, name, item_type, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())
	`, userID, req.Name, req.ItemType, req.Value)
	if err != nil {
		utils.Logger.Errorf("failed to create net worth item: %v", err)
		utils.WriteError(w, "failed to create item", http.StatusInternalServerError)
		return
	}

	itemID, _ := result.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "item added",
		"data": map[string]interface{}{
			"item_id": itemID,
		},
	})
}

// FUNC TO GET THE NET WORTH OVERVIEW
func GetNetWorthHandler(w http.ResponseWriter, r *http.Request) {
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
		SELECT id, user_id, name, item_type, value, created_at, updated_at
		FROM net_worth_items
		WHERE user_id = ?
		ORDER BY item_type, value DESC
	`, userID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve items", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var items []models.NetWorthItem
	assets := decimal.Zero
	liabilities := decimal.Zero
	for rows.Next() {
		var item models.NetWorthItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.ItemType, &item.Value, &item.CreatedAt, &item.UpdatedAt); err != nil {
			utils.Logger.Errorf("error scanning net worth item: %v", err)
			utils.WriteError(w, "error reading items", http.StatusInternalServerError)
			return
		}
		if item.ItemType == "asset" {
			assets = assets.Add(item.Value)
		} else {
			liabilities = liabilities.Add(item.Value)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing items read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"assets":      assets,
			"liabilities": liabilities,
			"net_worth":   assets.Sub(liabilities),
			"items":       items,
		},
	})
}

// FUNC TO UPDATE THE VALUE OF AN ITEM
func UpdateNetWorthItemHandler(w http.ResponseWriter, r *http.Request) {
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
	itemID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Value decimal.Decimal `json:"value"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Value.LessThan(decimal.Zero) {
		utils.WriteError(w, "value cannot be negative", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE net_worth_items SET value = ?, updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND user_id = ?
	`, req.Value, itemID, userID)
	if err != nil {
		utils.WriteError(w, "failed to update item", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "item not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "item updated",
	})
}

// FUNC TO DELETE AN ITEM
func DeleteNetWorthItemHandler(w http.ResponseWriter, r *http.Request) {
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
	itemID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, "DELETE FROM net_worth_items WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		utils.WriteError(w, "failed to delete item", http.StatusInternalServerError)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "item not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "item deleted",
	})
}
