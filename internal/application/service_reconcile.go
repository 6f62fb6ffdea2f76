package application

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ReconcilePendingOrders re-queries the gateway for local pending rows that
// never heard back. Orders the gateway reports paid are completed; orders
// still unpaid past the abandonment cutoff are failed; everything else stays
// pending. This closes the gap left by the non-atomic remote-create /
// local-insert pair.
func (s *Service) ReconcilePendingOrders(ctx context.Context, olderThan, abandonAfter time.Duration, limit int) (int, error) {
	now := s.nowFn()
	stale, err := s.transactions.ListStalePending(ctx, now.Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, transaction := range stale {
		order, err := s.gateway.FetchOrder(ctx, transaction.GatewayOrderID)
		if err != nil {
			slog.Default().WarnContext(ctx, "reconcile fetch failed",
				"module", "application",
				"operation", "reconcile_pending_orders",
				"outcome", "failure",
				"gateway_order_id", transaction.GatewayOrderID,
				"error", err,
			)
			continue
		}
		switch strings.ToLower(order.Status) {
		case "paid":
			if _, err := s.completePayment(ctx, transaction.GatewayOrderID, "", "", ""); err != nil {
				return reconciled, err
			}
			reconciled++
		default:
			if now.Sub(transaction.CreatedAt) < abandonAfter {
				continue
			}
			if _, err := s.ProcessFailedPayment(ctx, PaymentFailureInput{
				GatewayOrderID:   transaction.GatewayOrderID,
				ErrorCode:        "order_abandoned",
				ErrorDescription: "no payment received before abandonment cutoff",
			}); err != nil {
				return reconciled, err
			}
			reconciled++
		}
	}
	return reconciled, nil
}
