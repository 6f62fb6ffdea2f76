package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

func actorFrom(r *http.Request) application.Actor {
	actor, _ := r.Context().Value(actorKey).(application.Actor)
	return actor
}

// requireAuth resolves the bearer token into an Actor or rejects the request.
func requireAuth(service *application.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			actor, err := service.ResolveToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			actor.RequestID = middleware.GetReqID(r.Context())
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger emits one structured line per request once the response is
// written.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			outcome := "success"
			if ww.Status() >= http.StatusBadRequest {
				outcome = "failure"
			}
			logger.InfoContext(r.Context(), "request handled",
				"module", "http",
				"layer", "adapter",
				"operation", r.Method+" "+r.URL.Path,
				"outcome", outcome,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
