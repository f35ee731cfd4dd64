package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"notes-api/internals/models"
	"notes-api/internals/storage"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authenticate resolves the request credentials against the store.
// Unknown email and wrong password produce distinct 401 messages; the
// wording is part of the contract.
func authenticate(w http.ResponseWriter, r *http.Request, store *storage.Store) (*models.User, bool) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return nil, false
	}
	user, err := store.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Email does not exist", http.StatusUnauthorized)
		return nil, false
	}
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return nil, false
	}
	if user.Password != req.Password {
		http.Error(w, "Wrong email or password", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

// RegisterHandler handles user registration
func RegisterHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Email and password required", http.StatusBadRequest)
			return
		}
		user, err := store.CreateUser(r.Context(), req.Email, req.Password)
		if errors.Is(err, storage.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("create user failed", "error", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		slog.Info("user registered", "user_id", user.Id)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(user)
	}
}

// LoginHandler handles user login. The token it hands out is the user id
// as a decimal string; there is no signature or expiry.
func LoginHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate(w, r, store)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": strconv.FormatInt(user.Id, 10),
		})
	}
}

// LogoutHandler re-checks credentials and clears the client cookie. There
// is no server-side session to tear down.
func LogoutHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authenticate(w, r, store); !ok {
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:   "user_id",
			Value:  "",
			MaxAge: -1,
		})
		w.WriteHeader(http.StatusOK)
	}
}
