package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/v1/health", h.Health)

	r.Get("/v1/worker/status", h.WorkerStatus)
	r.Post("/v1/worker/start", h.WorkerStart)
	r.Post("/v1/worker/stop", h.WorkerStop)

	r.Post("/v1/broadcasts", h.CreateBroadcast)
	r.Post("/v1/broadcasts/validate", h.ValidateBroadcast)
	r.Get("/v1/broadcasts/{slug}/stats", h.BroadcastStats)

	r.Get("/v1/messages/sent", h.ListSentMessages)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("mailcast"))
	})

	return r
}
