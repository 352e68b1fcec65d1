// Package handler implements the HTTP boundary of the certificate
// delivery service. It validates request shape, queues delivery jobs, and
// answers immediately; delivery outcomes surface in logs, not responses.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/certsend/certsend/pkg/mailer"
	"github.com/certsend/certsend/pkg/queue"
)

const defaultBatchDelay = time.Second

// Handler holds the boundary's dependencies.
type Handler struct {
	mailer     *mailer.Mailer
	queue      *queue.Queue
	log        *slog.Logger
	batchDelay time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithBatchDelay sets the pause between recipients of a batch job.
func WithBatchDelay(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.batchDelay = d
		}
	}
}

// New creates a Handler.
func New(m *mailer.Mailer, q *queue.Queue, opts ...Option) *Handler {
	h := &Handler{
		mailer:     m,
		queue:      q,
		log:        slog.New(slog.DiscardHandler),
		batchDelay: defaultBatchDelay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the certificate endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/certificates/send", h.handleSend)
	r.Post("/api/certificates/send-batch", h.handleSendBatch)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	delivery, problems := req.toDelivery()
	if len(problems) > 0 {
		writeErrors(w, http.StatusBadRequest, problems)
		return
	}

	jobID, err := h.queue.Enqueue(queue.Job{
		Name: "certificate.send",
		Run: func(ctx context.Context) error {
			return h.mailer.DeliverCertificate(ctx, delivery)
		},
	})
	if err != nil {
		h.enqueueFailed(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queuedResponse{Success: true, Status: "queued", JobID: jobID})
}

func (h *Handler) handleSendBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Recipients) == 0 {
		writeError(w, http.StatusBadRequest, "recipients must not be empty")
		return
	}

	deliveries := make([]mailer.DeliveryRequest, 0, len(req.Recipients))
	var problems []string
	for i, recipient := range req.Recipients {
		delivery, recipientProblems := recipient.toDelivery()
		for _, p := range recipientProblems {
			problems = append(problems, fmt.Sprintf("recipient %d: %s", i, p))
		}
		deliveries = append(deliveries, delivery)
	}
	if len(problems) > 0 {
		writeErrors(w, http.StatusBadRequest, problems)
		return
	}

	delay := h.batchDelay
	jobID, err := h.queue.Enqueue(queue.Job{
		Name: "certificate.send-batch",
		Run: func(ctx context.Context) error {
			h.mailer.DeliverBatch(ctx, deliveries, delay)
			return nil
		},
	})
	if err != nil {
		h.enqueueFailed(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queuedResponse{
		Success:    true,
		Status:     "queued",
		JobID:      jobID,
		Recipients: len(deliveries),
	})
}

func (h *Handler) enqueueFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "enqueue failed", slog.String("error", err.Error()))
	if errors.Is(err, queue.ErrQueueFull) {
		writeError(w, http.StatusServiceUnavailable, "delivery queue is full, try again later")
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to queue delivery")
}
