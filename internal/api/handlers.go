package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mailcast/internal/model"
	"mailcast/internal/repo"
	"mailcast/internal/scheduler"
	"mailcast/internal/service"
)

// Broadcaster is the slice of the broadcast service the HTTP layer needs.
type Broadcaster interface {
	CreateBroadcast(ctx context.Context, doc model.Document) (service.FanOutResult, error)
	AudienceCount(ctx context.Context, audience string) (int64, error)
	Stats(ctx context.Context, slug string) (repo.BroadcastStats, error)
}

type Handler struct {
	sched      *scheduler.Scheduler
	broadcasts Broadcaster
	messages   repo.MessageRepository
}

func NewHandler(s *scheduler.Scheduler, b Broadcaster, m repo.MessageRepository) *Handler {
	return &Handler{sched: s, broadcasts: b, messages: m}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) WorkerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) WorkerStart(w http.ResponseWriter, r *http.Request) {
	h.sched.Start()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) WorkerStop(w http.ResponseWriter, r *http.Request) {
	h.sched.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

// CreateBroadcast accepts a rendered document and fans it out. Validation
// failures come back as 400 with the reason; anything else failed atomically
// and is a 500.
func (h *Handler) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
		return
	}

	res, err := h.broadcasts.CreateBroadcast(r.Context(), doc)
	if err != nil {
		if errors.Is(err, model.ErrInvalidDocument) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// ValidateBroadcast checks a document without writing anything and reports
// how many contacts its filter currently matches.
func (h *Handler) ValidateBroadcast(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
		return
	}

	if err := doc.Validate(); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}

	count, err := h.broadcasts.AudienceCount(r.Context(), doc.Audience())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"slug":     doc.EffectiveSlug(),
		"contacts": count,
	})
}

func (h *Handler) BroadcastStats(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stats, err := h.broadcasts.Stats(r.Context(), slug)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListSentMessages(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	offset := parseInt(r.URL.Query().Get("offset"), 0)

	items, err := h.messages.ListSent(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
