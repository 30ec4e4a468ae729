package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/groups"
)

func splitRequestsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/split-requests/create", groups.CreateSplitRequestHandler)

	mux.HandleFunc("/split-requests/group/{id}/pending", groups.GetPendingSplitRequestsHandler)

	mux.HandleFunc("/split-requests/{id}/approve", groups.ApproveSplitRequestHandler)

	mux.HandleFunc("/split-requests/{id}/decline", groups.DeclineSplitRequestHandler)

	return mux
}
