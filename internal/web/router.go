package web

import (
	"github.com/gorilla/mux"
)

func (h *Handler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", h.AuthLogin).Methods("POST")
	r.HandleFunc("/clients/connected", h.ConnectedClients).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/admin/restart", h.AdminRestart).Methods("POST")

	return r
}
