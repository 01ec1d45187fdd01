package notes

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studysection/notes-backend/internal/auth"
	"github.com/studysection/notes-backend/internal/models"
)

const (
	maxImageSize   = 5 << 20 // 5 MiB
	imageFormField = "image"
)

// allowedImageExts is the upload allow-list, keyed by lowercase extension.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// newImageFilename builds a collision-resistant filename from the
// upload time, a random suffix, and the original name.
func newImageFilename(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString()[:8], filepath.Base(original))
}

// encodeImage wraps raw bytes in a data URL so the stored entry carries
// its own content type.
func encodeImage(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// UploadImage attaches an uploaded image to a note. The extension is
// checked against the allow-list and the size cap is enforced before
// anything is read or persisted.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20) // payload cap plus form overhead

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		http.Error(w, `{"error":"No file uploaded"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		http.Error(w, `{"error":"Unsupported image type"}`, http.StatusBadRequest)
		return
	}
	if header.Size > maxImageSize {
		http.Error(w, `{"error":"Image exceeds the 5 MiB limit"}`, http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("read upload failed")
		http.Error(w, `{"error":"Error reading upload"}`, http.StatusInternalServerError)
		return
	}

	// The extension passed the allow-list, so it maps to a real image
	// type; the part header is only a fallback.
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = header.Header.Get("Content-Type")
	}

	img := models.NoteImage{
		Data:        encodeImage(data, contentType),
		ContentType: contentType,
		Filename:    newImageFilename(time.Now(), header.Filename),
	}

	if err := h.store.PushImage(r.Context(), userID, noteID, img); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("attach image failed")
		http.Error(w, `{"error":"Error attaching image"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":         img.Data,
		"filename":    img.Filename,
		"contentType": img.ContentType,
	})
}

// DeleteImage removes every image entry matching the filename. A
// filename with no match is a no-op success as long as the note exists.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "id")
	filename := chi.URLParam(r, "filename")

	if err := h.store.PullImage(r.Context(), userID, noteID, filename); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"Note not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("detach image failed")
		http.Error(w, `{"error":"Error removing image"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Image removed successfully"})
}
