package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	gRouter := groupsRouter()
	mux.Handle("/groups/", gRouter)

	eRouter := groupExpenseRouter()
	mux.Handle("/group-expense/", eRouter)

	sRouter := splitRequestsRouter()
	mux.Handle("/split-requests/", sRouter)

	tRouter := transactionsRouter()
	mux.Handle("/transactions/", tRouter)

	pRouter := planningRouter()
	mux.Handle("/budgets/", pRouter)
	mux.Handle("/goals/", pRouter)
	mux.Handle("/recurring/", pRouter)
	mux.Handle("/networth/", pRouter)
	mux.Handle("/badges/", pRouter)

	aRouter := assistantRouter()
	mux.Handle("/assistant/", aRouter)

	return mux
}
