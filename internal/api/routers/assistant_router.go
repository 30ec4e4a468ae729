package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/assistant"
)

func assistantRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/assistant/chat", assistant.ChatHandler)

	return mux
}
