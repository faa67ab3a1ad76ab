package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"proshop/internal/model"
	"proshop/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 10 << 20 // 10 MiB

// allowedImageExtensions lists the accepted upload file types.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// UploadHandler handles product image uploads.
type UploadHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/upload requests (admin only).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "No file uploaded", h.logger)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid file type", h.logger)
		return
	}

	contents, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Failed to read uploaded file", h.logger)
		return
	}

	name := uuid.New().String() + ext
	path, err := h.store.Save(r.Context(), name, contents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "Failed to save file", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "File uploaded successfully",
		"image":   path,
	})
}
