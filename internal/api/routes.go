package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Trade and lot routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/trades", handler.RecordTrade).Methods("POST")
	api.HandleFunc("/trades", handler.GetTrades).Methods("GET")
	api.HandleFunc("/trades/summary", handler.GetStockSummary).Methods("GET")
	api.HandleFunc("/lots", handler.GetLots).Methods("GET")

	return r
}
