package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/ledger"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/internal/services"
	"gamyartha/pkg/utils"
)

// FUNC TO CHAT WITH THE FINANCE ASSISTANT
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	cfg := handlers.AppConfig
	if db == nil || cfg == nil {
		utils.Logger.Error("DB or config is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if cfg.OpenRouterKey == "" {
		utils.WriteError(w, "assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Question string `json:"question"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		utils.WriteError(w, "question is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	financialContext, err := buildFinancialContext(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to build assistant context: %v", err)
		utils.WriteError(w, "failed to gather financial context", http.StatusInternalServerError)
		return
	}

	svc := services.NewAssistantService(cfg.OpenRouterKey, cfg.AssistantModel)
	answer, err := svc.Chat(ctx, financialContext, req.Question)
	if err != nil {
		utils.Logger.Errorf("assistant chat failed: %v", err)
		utils.WriteError(w, "assistant is unavailable right now", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"question": req.Question,
			"answer":   answer,
		},
	})
}

// buildFinancialContext condenses the user's month-to-date figures, group
// balances and pending settlements into plain text the model can reason over.
func buildFinancialContext(ctx context.Context, userID int) (string, error) {
	db := sqlconnect.DB
	var sb strings.Builder

	month := time.Now().UTC().Format("2006-01")
	var income, expenses decimal.Decimal
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND DATE_FORMAT(created_at, '%Y-%m') = ?
	`, userID, month).Scan(&income, &expenses)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "This month (%s): income %s, expenses %s, net %s.\n",
		month, income.StringFixed(2), expenses.StringFixed(2), income.Sub(expenses).StringFixed(2))

	rows, err := db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE user_id = ? AND transaction_type = 'expense' AND DATE_FORMAT(created_at, '%Y-%m') = ?
		GROUP BY category
		ORDER BY SUM(amount) DESC
		LIMIT 5
	`, userID, month)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	sb.WriteString("Top spending categories:\n")
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", category, total.StringFixed(2))
	}

	groupRows, err := db.QueryContext(ctx, `
		SELECT g.id, g.name, b.balance
		FROM group_balances b
		JOIN groups g ON g.id = b.group_id
		WHERE b.user_id = ?
	`, userID)
	if err != nil {
		return "", err
	}
	defer groupRows.Close()

	maintainer := ledger.NewMaintainer(db)
	sb.WriteString("Group positions (positive means owed to the user):\n")
	for groupRows.Next() {
		var groupID int
		var name string
		var balance decimal.Decimal
		if err := groupRows.Scan(&groupID, &name, &balance); err != nil {
			continue
		}
		fmt.Fprintf(&sb, "- %s: balance %s\n", name, balance.StringFixed(2))

		balances, err := maintainer.Balances(ctx, groupID)
		if err != nil {
			continue
		}
		for _, s := range ledger.PlanSettlements(balances) {
			if s.FromUserID == userID {
				fmt.Fprintf(&sb, "  suggested: pay %s to user %d in %s\n", s.Amount.StringFixed(2), s.ToUserID, name)
			} else if s.ToUserID == userID {
				fmt.Fprintf(&sb, "  suggested: collect %s from user %d in %s\n", s.Amount.StringFixed(2), s.FromUserID, name)
			}
		}
	}

	return sb.String(), nil
}
