package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/fintrack/web"
)

// RegisterRoutes registers all pages and API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Pages
	r.Handle("/", http.RedirectHandler("/dashboard", http.StatusFound)).Methods("GET")
	r.HandleFunc("/dashboard", deps.PageHandler.Dashboard).Methods("GET")
	r.HandleFunc("/reports", deps.PageHandler.Reports).Methods("GET")
	r.HandleFunc("/transactions", deps.PageHandler.Transactions).Methods("GET")
	r.HandleFunc("/transactions/new", deps.PageHandler.NewTransaction).Methods("GET")

	// Charts
	r.HandleFunc("/api/charts/trend", deps.ChartHandler.GetTrend).Methods("GET")
	r.HandleFunc("/api/charts/categories/{kind}", deps.ChartHandler.GetCategories).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transactions/validate", deps.TransactionHandler.Validate).Methods("POST")

	// Static assets
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
}
