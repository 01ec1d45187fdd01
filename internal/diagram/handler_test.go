package diagram

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	resp []byte
	err  error
}

func (s stubProcessor) ProcessImage(_ context.Context, _ string, _ []byte) ([]byte, error) {
	return s.resp, s.err
}

func uploadRequest(t *testing.T, field string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "sketch.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/diagrams/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadPassesResponseThrough(t *testing.T) {
	h := NewHandler(stubProcessor{resp: []byte(`{"text":"extracted"}`)}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "image"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":"extracted"}`, w.Body.String())
}

func TestUploadNoFile(t *testing.T) {
	h := NewHandler(stubProcessor{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "wrong-field"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadUpstreamFailure(t *testing.T) {
	h := NewHandler(stubProcessor{err: errors.New("connection refused")}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "image"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process image")
}
