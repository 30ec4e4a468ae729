package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/transactions"
)

func transactionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions/create", transactions.CreateTransactionHandler)

	mux.HandleFunc("/transactions/", transactions.GetTransactionsHandler)

	mux.HandleFunc("/transactions/{id}", transactions.GetTransactionByIdHandler)

	mux.HandleFunc("/transactions/delete/{id}", transactions.DeleteTransactionHandler)

	mux.HandleFunc("/transactions/summary/monthly", transactions.GetMonthlySummaryHandler)

	return mux
}
