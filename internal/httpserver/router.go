package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"sweetshop/internal/auth"
	"sweetshop/internal/catalog"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	sweetStore catalog.SweetStore,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Auth
	mux.Handle("/api/auth/register", &auth.RegisterHandler{Service: authSvc, Logger: logger})
	mux.Handle("/api/auth/login", &auth.LoginHandler{Service: authSvc, Logger: logger})

	// Catalog
	secured := auth.JWTMiddleware(authSvc, logger)

	collectionHandler := &catalog.CollectionHandler{Store: sweetStore, Logger: logger}
	searchHandler := &catalog.SearchHandler{Store: sweetStore, Logger: logger}
	itemHandler := &catalog.ItemHandler{Store: sweetStore, Logger: logger}

	mux.Handle("/api/sweets", secured(collectionHandler))
	mux.Handle("/api/sweets/search", secured(searchHandler))
	mux.Handle("/api/sweets/", secured(auth.RequireAdmin(itemHandler)))

	return mux
}
