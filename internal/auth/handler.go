package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/studysection/notes-backend/internal/models"
)

type contextKey string

// UserIDKey is the context key under which the auth middleware binds
// the verified subject id.
const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, or "" when the
// request did not pass through the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	TouchUpdatedAt(ctx context.Context, id primitive.ObjectID) (time.Time, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenService
	log    zerolog.Logger
}

func NewHandler(users UserStore, tokens *TokenService, log zerolog.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, log: log}
}

// Signup creates a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"name, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			http.Error(w, `{"error":"Email already exists"}`, http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("signup failed")
		http.Error(w, `{"error":"Server error"}`, http.StatusInternalServerError)
		return
	}
	h.log.Info().Str("user_id", user.ID.Hex()).Msg("user registered")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "User registered successfully",
		"timestamp": user.CreatedAt,
	})
}

// Login authenticates a user and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"User not found"}`, http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("login lookup failed")
		http.Error(w, `{"error":"Server error"}`, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex(), req.RememberMe)
	if err != nil {
		h.log.Error().Err(err).Msg("token issue failed")
		http.Error(w, `{"error":"Server error"}`, http.StatusInternalServerError)
		return
	}

	lastLogin, err := h.users.TouchUpdatedAt(r.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("login timestamp update failed")
		http.Error(w, `{"error":"Server error"}`, http.StatusInternalServerError)
		return
	}
	h.log.Info().Str("user_id", user.ID.Hex()).Bool("remember_me", req.RememberMe).Msg("user logged in")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"name":      user.Name,
			"email":     user.Email,
			"lastLogin": lastLogin,
		},
	})
}

// Dashboard greets the authenticated user.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Welcome to the dashboard",
		"userId":  UserIDFromContext(r.Context()),
	})
}
