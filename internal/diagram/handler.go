package diagram

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Processor is the outbound OCR call the handler depends on.
type Processor interface {
	ProcessImage(ctx context.Context, filename string, data []byte) ([]byte, error)
}

// Handler proxies diagram uploads to the external processing service.
type Handler struct {
	ocr Processor
	log zerolog.Logger
}

func NewHandler(ocr Processor, log zerolog.Logger) *Handler {
	return &Handler{ocr: ocr, log: log}
}

// Upload forwards the uploaded image to the processing service and
// passes its JSON response through unchanged.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, `{"error":"No file uploaded"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("read upload failed")
		http.Error(w, `{"error":"Error reading upload"}`, http.StatusInternalServerError)
		return
	}

	body, err := h.ocr.ProcessImage(r.Context(), header.Filename, data)
	if err != nil {
		h.log.Error().Err(err).Msg("diagram processing failed")
		http.Error(w, `{"error":"Failed to process image"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
