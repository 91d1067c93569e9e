package webhook

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach/internal/pkg/httputil"
	"github.com/ignite/outreach/internal/pkg/logger"
)

// maxBatchBytes caps the webhook payload. Provider batches top out around
// 1MB; anything bigger is not a legitimate event post.
const maxBatchBytes = 5 * 1024 * 1024

// Handler is the HTTP surface of the event receiver.
type Handler struct {
	processor *Processor
}

// NewHandler creates the webhook HTTP handler.
func NewHandler(p *Processor) *Handler {
	return &Handler{processor: p}
}

// Routes returns the receiver's router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/webhooks/sendgrid", h.HandleEvents)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleEvents ingests one event batch. Always 200: the provider retries
// non-2xx responses and would redeliver a malformed batch forever.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBytes)

	events, err := ParseEvents(r.Body)
	if err != nil {
		logger.Warn("[Webhook] unparseable batch", "error", err.Error())
		httputil.OK(w, &Result{})
		return
	}

	res := h.processor.Process(r.Context(), events)
	logger.Info("[Webhook] batch processed",
		"received", res.Received, "applied", res.Applied,
		"ignored", res.Ignored, "errors", res.Errors)
	httputil.OK(w, res)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
