package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/t0mer/transcribing-service/internal/transcribe"
)

type Handler struct {
	svc *transcribe.Service
	log *zap.Logger
}

func NewHandler(svc *transcribe.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

type transcribeRequest struct {
	Filename string `json:"filename"`
}

// POST /transcribe
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Transcribe(r.Context(), req.Filename)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeError maps every pipeline error kind to its status and detail body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ufe *transcribe.UnsupportedFormatError
		ce  *transcribe.ConversionError
		te  *transcribe.TranscriptionError
	)

	switch {
	case errors.Is(err, transcribe.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "File not found")
	case errors.As(err, &ufe):
		writeDetail(w, http.StatusBadRequest, "Unsupported file format: "+ufe.Ext)
	case errors.As(err, &ce):
		writeDetail(w, http.StatusInternalServerError, "Audio conversion failed: "+ce.Diagnostic())
	case errors.As(err, &te):
		writeDetail(w, http.StatusInternalServerError, "Transcription failed: "+te.Diagnostic())
	default:
		h.log.Error("unclassified pipeline error",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
