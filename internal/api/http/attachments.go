package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

const conduceField = "file"

// UploadConduce accepts a multipart form with the file under "file".
func (h *Handler) UploadConduce(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile(conduceField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	url, err := h.attachments.AttachConduce(r.Context(), mux.Vars(r)["id"], header.Filename, file)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) GetConduceURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.attachments.ConduceURL(r.Context(), mux.Vars(r)["id"], h.signedURLTTL)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) DeleteConduce(w http.ResponseWriter, r *http.Request) {
	if err := h.attachments.RemoveConduce(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
