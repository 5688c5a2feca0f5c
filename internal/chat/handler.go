// Package chat serves the JSON chat endpoints shared by every flow.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/chatlookup/internal/observability/metrics"
	"github.com/wolfman30/chatlookup/internal/transcript"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// GenericError is the only error text callers ever see.
const GenericError = "An error occurred while processing your request."

// maxBodyBytes caps a chat request body.
const maxBodyBytes = 64 << 10

var errBlankMessage = errors.New("chat: message is required")

type Request struct {
	Message string `json:"message"`
}

type Reply struct {
	Reply string `json:"reply"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

// Responder answers one user message for a flow.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// TranscriptLog records exchanges. *transcript.Store satisfies it.
type TranscriptLog interface {
	Append(ctx context.Context, flow string, entry transcript.Entry) error
}

type Handler struct {
	flow       string
	responder  Responder
	logger     *logging.Logger
	metrics    *metrics.ChatMetrics
	transcript TranscriptLog
}

// Options holds the optional collaborators of a Handler.
type Options struct {
	Logger     *logging.Logger
	Metrics    *metrics.ChatMetrics
	Transcript TranscriptLog
}

func NewHandler(flow string, responder Responder, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Handler{
		flow:       flow,
		responder:  responder,
		logger:     opts.Logger.With("flow", flow),
		metrics:    opts.Metrics,
		transcript: opts.Transcript,
	}
}

func (h *Handler) Flow() string { return h.flow }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("read chat body failed", "error", err)
		body = nil
	}
	status, payload := h.Handle(r.Context(), body, middleware.GetReqID(r.Context()))
	writeJSON(w, status, payload)
}

// Handle runs one chat exchange from a raw JSON body and returns the HTTP
// status and the value to encode as the response.
func (h *Handler) Handle(ctx context.Context, body []byte, requestID string) (int, any) {
	start := time.Now()
	message, reply, status, outcome := h.exchange(ctx, body)
	h.metrics.ObserveRequest(h.flow, outcome, time.Since(start).Seconds())

	if h.transcript != nil {
		if err := h.transcript.Append(ctx, h.flow, transcript.Entry{
			RequestID: requestID,
			Message:   message,
			Reply:     reply,
			Status:    status,
		}); err != nil {
			h.logger.Warn("append chat transcript failed", "request_id", requestID, "error", err)
		}
	}

	if status != http.StatusOK {
		return status, ErrorBody{Error: GenericError}
	}
	return status, Reply{Reply: reply}
}

func (h *Handler) exchange(ctx context.Context, body []byte) (message, reply string, status int, outcome string) {
	message, err := decodeMessage(body)
	if err != nil {
		h.logger.Warn("invalid chat request", "error", err)
		return message, GenericError, http.StatusInternalServerError, "invalid"
	}

	reply, err = h.responder.Respond(ctx, message)
	if err != nil {
		h.logger.Error("chat responder failed", "error", err)
		return message, GenericError, http.StatusInternalServerError, "error"
	}
	h.logger.Debug("chat reply sent", "reply_len", len(reply))
	return message, reply, http.StatusOK, "ok"
}

func decodeMessage(body []byte) (string, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", errBlankMessage
	}
	return message, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
