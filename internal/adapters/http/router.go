package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.SignatureVerifier
}

// NewRouter assembles the public surface. The webhook and the two token-only
// download endpoints sit outside the bearer middleware on purpose; everything
// else requires an authenticated Actor.
func NewRouter(service *application.Service, verifier ports.SignatureVerifier, logger *slog.Logger, ready func(ctx context.Context) error) http.Handler {
	h := &Handler{service: service, verifier: verifier}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			if err := ready(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("not ready"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Post("/payments/webhook", h.handleWebhook)
		r.Post("/downloads/validate", h.handleValidateToken)
		r.Get("/downloads/file", h.handleDownloadFile)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(service))

			r.Post("/payments/orders", h.handleCreateOrder)
			r.Get("/payments/orders/{orderID}", h.handleGetOrder)
			r.Post("/payments/verify", h.handleVerifyPayment)
			r.Post("/payments/failure", h.handlePaymentFailure)
			r.Post("/payments/refund", h.handleRefund)
			r.Get("/payments/transactions", h.handleListTransactions)

			r.Get("/downloads/projects/{projectID}/purchase-status", h.handlePurchaseStatus)
			r.Post("/downloads/projects/{projectID}/session", h.handleCreateSession)
			r.Get("/downloads", h.handleListDownloads)
			r.Delete("/downloads/sessions/{sessionID}", h.handleRevokeSession)
		})
	})

	return r
}
