package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"equipos-backend/internal/logger"
	"equipos-backend/internal/storage"
)

// FileHandler serves the URLs handed out by the local attachment store.
type FileHandler struct {
	store   *storage.LocalStore
	maxSize int64
}

func NewFileHandler(store *storage.LocalStore, maxSize int64) *FileHandler {
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &FileHandler{store: store, maxSize: maxSize}
}

// Upload handles PUT requests carrying the raw file body.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := h.store.SaveFile(key, body); err != nil {
		logger.Warn("Failed to save file", "key", key, "error", err)
		http.Error(w, "Failed to save file", http.StatusBadRequest)
		return
	}

	w.Header().Set("ETag", `"`+mux.Vars(r)["hash"]+`"`)
	w.WriteHeader(http.StatusOK)
}

// Download streams the stored file.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.store.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", storage.ContentTypeFor(key))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream file", "key", key, "error", err)
	}
}

// RegisterFileRoutes mounts the local store endpoints.
func RegisterFileRoutes(router *mux.Router, store *storage.LocalStore, maxSize int64) {
	handler := NewFileHandler(store, maxSize)
	router.HandleFunc("/api/v1/files/{hash}", handler.Upload).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/files/{hash}", handler.Download).Methods(http.MethodGet)
}
