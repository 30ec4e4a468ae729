package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/groups"
)

func groupExpenseRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/group-expense/create", groups.CreateGroupExpenseHandler)

	mux.HandleFunc("/group-expense/{id}/expenses", groups.GetGroupExpensesHandler)

	mux.HandleFunc("/group-expense/details/{id}/expense", groups.GetExpenseByIdHandler)

	mux.HandleFunc("/group-expense/{id}/balances", groups.GetGroupBalancesHandler)

	mux.HandleFunc("/group-expense/{id}/settle", groups.SettleUpHandler)

	mux.HandleFunc("/group-expense/{id}/suggestions", groups.GetSettlementSuggestionsHandler)

	return mux
}
