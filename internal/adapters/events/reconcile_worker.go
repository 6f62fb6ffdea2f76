package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
)

// ReconcileWorker periodically settles pending orders against the gateway's
// view. Cadence is deliberately slow; the webhook path handles the common
// case and this loop only mops up.
type ReconcileWorker struct {
	service      *application.Service
	interval     time.Duration
	olderThan    time.Duration
	abandonAfter time.Duration
	batchSize    int
	logger       *slog.Logger
}

func NewReconcileWorker(service *application.Service, interval, olderThan, abandonAfter time.Duration, batchSize int, logger *slog.Logger) *ReconcileWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if olderThan <= 0 {
		olderThan = 15 * time.Minute
	}
	if abandonAfter <= 0 {
		abandonAfter = 24 * time.Hour
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileWorker{
		service:      service,
		interval:     interval,
		olderThan:    olderThan,
		abandonAfter: abandonAfter,
		batchSize:    batchSize,
		logger:       logger,
	}
}

func (w *ReconcileWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "reconcile worker started",
		"module", "events",
		"layer", "worker",
		"operation", "reconcile_pending_orders",
		"interval", w.interval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "reconcile worker stopped",
				"module", "events",
				"layer", "worker",
				"operation", "reconcile_pending_orders",
			)
			return
		case <-ticker.C:
			reconciled, err := w.service.ReconcilePendingOrders(ctx, w.olderThan, w.abandonAfter, w.batchSize)
			if err != nil {
				w.logger.ErrorContext(ctx, "reconcile pass failed",
					"module", "events",
					"layer", "worker",
					"operation", "reconcile_pending_orders",
					"outcome", "error",
					"reconciled", reconciled,
					"error", err,
				)
				continue
			}
			if reconciled > 0 {
				w.logger.InfoContext(ctx, "reconcile pass settled orders",
					"module", "events",
					"layer", "worker",
					"operation", "reconcile_pending_orders",
					"outcome", "success",
					"reconciled", reconciled,
				)
			}
		}
	}
}
