package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/studysection/notes-backend/internal/auth"
	"github.com/studysection/notes-backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NoteStore defines the owner-scoped persistence operations the
// handlers depend on. The owner id is part of every filter, so notes
// belonging to another user come back as models.ErrNotFound.
type NoteStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Note, error)
	Create(ctx context.Context, userID string, req models.CreateNoteRequest) (*models.Note, error)
	Delete(ctx context.Context, userID, noteID string) (*models.Note, error)
	UpdateTitle(ctx context.Context, userID, noteID, title string) (*models.Note, error)
	UpdateContent(ctx context.Context, userID, noteID, content string) (*models.Note, error)
	ToggleFavorite(ctx context.Context, userID, noteID string) (*models.Note, error)
	PushImage(ctx context.Context, userID, noteID string, img models.NoteImage) error
	PullImage(ctx context.Context, userID, noteID, filename string) error
}

// Handler holds note HTTP handlers.
type Handler struct {
	store NoteStore
	log   zerolog.Logger
}

func NewHandler(store NoteStore, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// List returns all notes for the current user, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	notes, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("list notes failed")
		http.Error(w, `{"error":"Error fetching notes"}`, http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// Create validates the request and stores a new note.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	note, err := h.store.Create(r.Context(), userID, req)
	if err != nil {
		h.log.Error().Err(err).Msg("create note failed")
		http.Error(w, `{"error":"Error creating note"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete removes a note and echoes the deleted document.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	note, err := h.store.Delete(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("delete note failed")
		http.Error(w, `{"error":"Error deleting note"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Note deleted successfully",
		"deletedNote": note,
	})
}

// UpdateTitle renames a note.
func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	note, err := h.store.UpdateTitle(r.Context(), userID, noteID, req.Title)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("update title failed")
		http.Error(w, `{"error":"Error updating note"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateContent replaces a note's content. Empty content is rejected.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, `{"error":"Content cannot be empty"}`, http.StatusBadRequest)
		return
	}

	note, err := h.store.UpdateContent(r.Context(), userID, noteID, req.Content)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("update content failed")
		http.Error(w, `{"error":"Error updating note"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ToggleFavorite inverts a note's favorite flag.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	note, err := h.store.ToggleFavorite(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("toggle favorite failed")
		http.Error(w, `{"error":"Error toggling favorite status"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, note)
}
