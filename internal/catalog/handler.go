package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"sweetshop/internal/auth"
)

// SweetStore is the slice of the catalog store the handlers need.
// *Store satisfies it; tests substitute fakes.
type SweetStore interface {
	List(ctx context.Context, f Filter) ([]Sweet, error)
	Create(ctx context.Context, sw *Sweet) error
	Update(ctx context.Context, id int64, p Patch) (*Sweet, error)
	Delete(ctx context.Context, id int64) error
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// CollectionHandler serves /api/sweets: GET lists for any authenticated
// user, POST creates and is admin-only.
type CollectionHandler struct {
	Store  SweetStore
	Logger *slog.Logger
}

func (h *CollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CollectionHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := Filter{Search: r.URL.Query().Get("search")}
	sweets, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("list sweets", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

func (h *CollectionHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if user.Role != auth.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin privileges required")
		return
	}
	var payload struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
		Quantity *int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == nil || payload.Category == nil || payload.Price == nil || payload.Quantity == nil {
		writeError(w, http.StatusBadRequest, "name, category, price and quantity are required")
		return
	}
	if *payload.Price < 0 || *payload.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "price and quantity must be non-negative")
		return
	}
	sw := Sweet{
		Name:     *payload.Name,
		Category: *payload.Category,
		Price:    *payload.Price,
		Quantity: *payload.Quantity,
	}
	if err := h.Store.Create(r.Context(), &sw); err != nil {
		h.Logger.Error("create sweet", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

// SearchHandler serves /api/sweets/search with ANDed optional filters.
type SearchHandler struct {
	Store  SweetStore
	Logger *slog.Logger
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	filter := Filter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}
	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_price must be a number")
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_price must be a number")
			return
		}
		filter.MaxPrice = &v
	}
	sweets, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("search sweets", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

// ItemHandler serves /api/sweets/{id}: PUT applies a partial update,
// DELETE removes the row. Both are admin-only, gated in the router.
type ItemHandler struct {
	Store  SweetStore
	Logger *slog.Logger
}

func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Path is exactly /api/sweets/{id}; anything deeper is not a route.
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodDelete {
		if err := h.Store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "sweet not found")
				return
			}
			h.Logger.Error("delete sweet", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Sweet deleted"})
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (patch.Price != nil && *patch.Price < 0) || (patch.Quantity != nil && *patch.Quantity < 0) {
		writeError(w, http.StatusBadRequest, "price and quantity must be non-negative")
		return
	}
	sw, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "sweet not found")
			return
		}
		h.Logger.Error("update sweet", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}
