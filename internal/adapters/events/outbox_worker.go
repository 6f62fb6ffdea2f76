package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
)

// OutboxWorker drains the outbox on a fixed cadence. The inline flush after
// each mutation keeps latency low in the happy path; this loop covers broker
// outages and process restarts.
type OutboxWorker struct {
	service  *application.Service
	interval time.Duration
	logger   *slog.Logger
}

func NewOutboxWorker(service *application.Service, interval time.Duration, logger *slog.Logger) *OutboxWorker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxWorker{service: service, interval: interval, logger: logger}
}

func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "outbox worker started",
		"module", "events",
		"layer", "worker",
		"operation", "outbox_flush",
		"interval", w.interval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "outbox worker stopped",
				"module", "events",
				"layer", "worker",
				"operation", "outbox_flush",
			)
			return
		case <-ticker.C:
			if err := w.service.FlushOutbox(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox flush failed",
					"module", "events",
					"layer", "worker",
					"operation", "outbox_flush",
					"outcome", "error",
					"error", err,
				)
			}
		}
	}
}
