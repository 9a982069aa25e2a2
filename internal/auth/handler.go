package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type RegisterHandler struct {
	Service *Service
	Logger  *slog.Logger
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := h.Service.Register(r.Context(), payload.Username, payload.Password, ParseRole(payload.Role))
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			writeError(w, http.StatusBadRequest, "username already registered")
			return
		}
		h.Logger.Error("register user", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type LoginHandler struct {
	Service *Service
	Logger  *slog.Logger
}

// Login credentials arrive form-encoded, matching the OAuth2 password
// flow the frontend speaks.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	user, token, err := h.Service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "incorrect username or password")
			return
		}
		h.Logger.Error("login", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"role":         user.Role,
	})
}
