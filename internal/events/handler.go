package events

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/ordergroove-connector/internal/platform/httpx"
)

// Handler wires the push delivery endpoint.
type Handler struct {
	logger     *slog.Logger
	dispatcher *Dispatcher
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, dispatcher *Dispatcher) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, dispatcher: dispatcher}
}

// MountRoutes registers event routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Post)
}

// Post acknowledges every structurally valid delivery with 200, whatever the
// processor outcome.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))

	var body = r.Body
	if r.Body == http.NoBody {
		body = nil
	}
	env, err := ReadEnvelope(body)
	if err != nil {
		logger.Warn("rejecting push delivery", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	logger = logger.With(slog.String("message_id", env.Message.MessageID))

	payload, err := DecodePayload(*env.Message)
	if err != nil {
		logger.Warn("rejecting push delivery", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	// Processing runs to completion even if the caller goes away.
	outcome := h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), payload)
	logger.Info("push delivery handled",
		slog.String("event_type", string(payload.Type)),
		slog.String("outcome", outcome),
	)
	httpx.Ack(w)
}
