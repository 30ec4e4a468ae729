package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/badges"
	"gamyartha/internal/api/handlers/budgets"
	"gamyartha/internal/api/handlers/goals"
	"gamyartha/internal/api/handlers/networth"
	"gamyartha/internal/api/handlers/recurring"
)

// planningRouter bundles the personal planning surfaces: budgets, goals,
// recurring payments, net worth and badges.
func planningRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/budgets/set", budgets.SetBudgetHandler)
	mux.HandleFunc("/budgets/", budgets.GetBudgetsHandler)
	mux.HandleFunc("/budgets/delete/{id}", budgets.DeleteBudgetHandler)

	mux.HandleFunc("/goals/create", goals.CreateGoalHandler)
	mux.HandleFunc("/goals/", goals.GetGoalsHandler)
	mux.HandleFunc("/goals/{id}/contribute", goals.ContributeToGoalHandler)
	mux.HandleFunc("/goals/delete/{id}", goals.DeleteGoalHandler)

	mux.HandleFunc("/recurring/create", recurring.CreateRecurringPaymentHandler)
	mux.HandleFunc("/recurring/", recurring.GetRecurringPaymentsHandler)
	mux.HandleFunc("/recurring/{id}/toggle", recurring.ToggleRecurringPaymentHandler)
	mux.HandleFunc("/recurring/delete/{id}", recurring.DeleteRecurringPaymentHandler)

	mux.HandleFunc("/networth/create", networth.CreateNetWorthItemHandler)
	mux.HandleFunc("/networth/", networth.GetNetWorthHandler)
	mux.HandleFunc("/networth/{id}/update", networth.UpdateNetWorthItemHandler)
	mux.HandleFunc("/networth/delete/{id}", networth.DeleteNetWorthItemHandler)

	mux.HandleFunc("/badges/", badges.GetMyBadgesHandler)

	return mux
}
