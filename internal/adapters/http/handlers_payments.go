package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

const webhookSignatureHeader = "X-Razorpay-Signature"
const webhookEventIDHeader = "X-Razorpay-Event-Id"

func transactionPayload(t domain.Transaction) contracts.TransactionPayload {
	return contracts.TransactionPayload{
		ID:           t.TransactionID,
		Amount:       t.Amount,
		Currency:     t.Currency,
		Status:       string(t.Status),
		ProjectID:    t.ProjectID,
		PlatformFee:  t.PlatformFee,
		SellerPayout: t.SellerPayout,
		RefundID:     t.RefundID,
		RefundAmount: t.RefundAmount,
		CompletedAt:  t.CompletedAt,
		FailedAt:     t.FailedAt,
		RefundedAt:   t.RefundedAt,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.service.CreatePaymentOrder(r.Context(), actorFrom(r), application.CreateOrderInput{
		ProjectID:   req.ProjectID,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "payment order created", contracts.CreateOrderResponse{
		Order: contracts.OrderPayload{
			ID:       out.Order.OrderID,
			Amount:   out.Order.Amount,
			Currency: out.Order.Currency,
			Receipt:  out.Order.Receipt,
		},
		Transaction:  transactionPayload(out.Transaction),
		GatewayKeyID: out.KeyID,
	})
}

func (h *Handler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req contracts.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	transaction, err := h.service.ProcessSuccessfulPayment(r.Context(), application.VerifyPaymentInput{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		GatewaySignature: req.GatewaySignature,
		PaymentMethod:    req.PaymentMethod,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "payment verified", transactionPayload(transaction))
}

func (h *Handler) handlePaymentFailure(w http.ResponseWriter, r *http.Request) {
	var req contracts.PaymentFailureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	transaction, err := h.service.ProcessFailedPayment(r.Context(), application.PaymentFailureInput{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		ErrorCode:        req.ErrorCode,
		ErrorDescription: req.ErrorDescription,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "payment failure recorded", transactionPayload(transaction))
}

// handleWebhook verifies the gateway HMAC over the raw body before anything
// is parsed; a bad signature is rejected without touching state.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, r, domain.ErrInvalidInput)
		return
	}
	if !h.verifier.VerifyWebhook(body, r.Header.Get(webhookSignatureHeader)) {
		writeError(w, r, domain.ErrInvalidSignature)
		return
	}

	var event contracts.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, r, domain.ErrInvalidInput)
		return
	}
	eventID := r.Header.Get(webhookEventIDHeader)
	if eventID == "" {
		eventID = event.EventID
	}
	orderID := event.Payload.Payment.Entity.OrderID
	if orderID == "" {
		orderID = event.Payload.Order.Entity.ID
	}

	_, err = h.service.HandleGatewayWebhook(r.Context(), application.WebhookInput{
		EventID:          eventID,
		EventType:        event.Event,
		GatewayOrderID:   orderID,
		GatewayPaymentID: event.Payload.Payment.Entity.ID,
		PaymentMethod:    event.Payload.Payment.Entity.Method,
		ErrorCode:        event.Payload.Payment.Entity.ErrorCode,
		ErrorDescription: event.Payload.Payment.Entity.ErrorDescription,
	})
	switch {
	case err == nil, errors.Is(err, domain.ErrWebhookHandled):
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrNotFound):
		// Stale, out-of-order, or unmatched delivery. The transaction state
		// machine already converged, so a non-2xx here would only make the
		// gateway retry forever. Ack and record what was skipped.
		slog.Default().WarnContext(r.Context(), "webhook delivery skipped",
			"module", "http",
			"layer", "adapter",
			"operation", "POST /v1/payments/webhook",
			"event_type", event.Event,
			"gateway_order_id", orderID,
			"error", err,
		)
	default:
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "webhook processed", nil)
}

func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req contracts.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	transaction, err := h.service.InitiateRefund(r.Context(), actorFrom(r), application.RefundInput{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Reason:        req.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "refund initiated", transactionPayload(transaction))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.GetPaymentStatus(r.Context(), actorFrom(r), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", transactionPayload(transaction))
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	query := ports.TransactionListQuery{
		ProjectID: r.URL.Query().Get("project_id"),
		BuyerID:   r.URL.Query().Get("buyer_id"),
		Limit:     limit,
		Offset:    offset,
	}.Normalized()
	transactions, total, err := h.service.ListTransactions(r.Context(), actorFrom(r), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payloads := make([]contracts.TransactionPayload, 0, len(transactions))
	for _, t := range transactions {
		payloads = append(payloads, transactionPayload(t))
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"transactions": payloads,
		"pagination":   contracts.Pagination{Limit: query.Limit, Offset: query.Offset, Total: total},
	})
}
