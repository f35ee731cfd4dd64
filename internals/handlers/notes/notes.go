package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"notes-api/internals/storage"
)

const dateLayout = "2006-01-02"

// userIDFromRequest decodes the bearer token. The token is the user id as
// a decimal string; anything that parses as an integer is accepted.
func userIDFromRequest(r *http.Request) (int64, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return 0, errors.New("missing bearer token")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
	if err != nil {
		return 0, errors.New("token is not an integer")
	}
	return id, nil
}

// CreateHandler handles POST /me/notes.
func CreateHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		var req struct {
			Title string   `json:"title"`
			Body  string   `json:"body"`
			Tags  []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		note, err := store.CreateNote(r.Context(), userID, req.Title, req.Body, req.Tags)
		if err != nil {
			slog.Error("create note failed", "user_id", userID, "error", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		slog.Info("note created", "user_id", userID, "note_id", note.Id)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(note)
	}
}

// ListHandler handles GET /me/notes with optional query, after, before
// and repeatable tags parameters.
func ListHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		params := r.URL.Query()
		filter := storage.NoteFilter{
			Query: params.Get("query"),
			Tags:  params["tags"],
		}
		if v := params.Get("after"); v != "" {
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "Invalid after date", http.StatusBadRequest)
				return
			}
			filter.After = &t
		}
		if v := params.Get("before"); v != "" {
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "Invalid before date", http.StatusBadRequest)
				return
			}
			filter.Before = &t
		}
		notes, err := store.ListNotes(r.Context(), userID, filter)
		if err != nil {
			slog.Error("list notes failed", "user_id", userID, "error", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(notes)
	}
}

// GetHandler handles GET /notes/{note_id}. The note's owner is not
// checked against the token.
func GetHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := userIDFromRequest(r); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		noteID, err := strconv.ParseInt(r.PathValue("note_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid note id", http.StatusBadRequest)
			return
		}
		note, err := store.NoteByID(r.Context(), noteID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Note does not exist", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("get note failed", "note_id", noteID, "error", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(note)
	}
}

// DeleteHandler handles DELETE /notes/{note_id}. Deleting a missing id
// succeeds with no effect.
func DeleteHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := userIDFromRequest(r); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		noteID, err := strconv.ParseInt(r.PathValue("note_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid note id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteNote(r.Context(), noteID); err != nil {
			slog.Error("delete note failed", "note_id", noteID, "error", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
