package badges

import (
	"context"
	"net/http"
	"time"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

// FUNC TO GET BADGES EARNED BY THE LOGGED IN USER
func GetMyBadgesHandler(w http.ResponseWriter, r *http.Request) {
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
		SELECT id, user_id, code, title, awarded_at
		FROM badges WHERE user_id = ?
		ORDER BY awarded_at DESC
	`, userID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve badges", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var earned []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Code, &b.Title, &b.AwardedAt); err != nil {
			utils.Logger.Errorf("error scanning badge: %v", err)
			utils.WriteError(w, "error reading badges", http.StatusInternalServerError)
			return
		}
		earned = append(earned, b)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing badges read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(earned),
		"badges": earned,
	})
}
