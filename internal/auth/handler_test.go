package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/studysection/notes-backend/internal/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, hashedPassword string) (*models.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, models.ErrDuplicateEmail
	}
	now := time.Now()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) TouchUpdatedAt(_ context.Context, id primitive.ObjectID) (time.Time, error) {
	now := time.Now()
	for _, u := range f.byEmail {
		if u.ID == id {
			u.UpdatedAt = now
		}
	}
	return now, nil
}

func newTestHandler() (*Handler, *TokenService) {
	tokens := NewTokenService("test-secret")
	return NewHandler(newFakeUserStore(), tokens, zerolog.Nop()), tokens
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func signup(t *testing.T, h *Handler, name, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return postJSON(t, h.Signup, "/signup", models.SignupRequest{
		Name: name, Email: email, Password: password,
	})
}

func TestSignup(t *testing.T) {
	h, _ := newTestHandler()

	w := signup(t, h, "Ada", "a@x.com", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message   string    `json:"message"`
		Timestamp time.Time `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler()
	signup(t, h, "Ada", "a@x.com", "s3cret")

	w := signup(t, h, "Eve", "a@x.com", "other")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestSignupMissingFields(t *testing.T) {
	h, _ := newTestHandler()
	w := postJSON(t, h.Signup, "/signup", models.SignupRequest{Email: "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h, _ := newTestHandler()
	w := postJSON(t, h.Login, "/login", models.LoginRequest{Email: "nobody@x.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestHandler()
	signup(t, h, "Ada", "a@x.com", "s3cret")

	w := postJSON(t, h.Login, "/login", models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginSuccess(t *testing.T) {
	h, tokens := newTestHandler()
	signup(t, h, "Ada", "a@x.com", "s3cret")

	w := postJSON(t, h.Login, "/login", models.LoginRequest{Email: "a@x.com", Password: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Name      string    `json:"name"`
			Email     string    `json:"email"`
			LastLogin time.Time `json:"lastLogin"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.False(t, resp.User.LastLogin.IsZero())

	subject, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
}
