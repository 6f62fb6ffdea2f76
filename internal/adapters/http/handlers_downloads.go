package http

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

func (h *Handler) handlePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.CheckPurchaseStatus(r.Context(), actorFrom(r), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", contracts.PurchaseStatusResponse{
		HasPurchased: status.HasPurchased,
		AccessType:   string(status.AccessType),
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CreateDownloadSession(r.Context(), actorFrom(r), application.DownloadRequestInput{
		ProjectID: chi.URLParam(r, "projectID"),
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "download session created", contracts.CreateSessionResponse{
		DownloadID: session.SessionID,
		Token:      session.Token,
		ExpiresAt:  session.ExpiresAt,
		AccessType: string(session.AccessType),
	})
}

// handleValidateToken always answers 200; validity lives in the body so the
// endpoint leaks nothing about why a token is unusable.
func (h *Handler) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req contracts.ValidateTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusOK, contracts.ValidateTokenResponse{})
		return
	}
	result := h.service.ValidateDownloadAccess(r.Context(), req.Token)
	if !result.IsValid {
		writeJSON(w, http.StatusOK, contracts.ValidateTokenResponse{})
		return
	}
	writeJSON(w, http.StatusOK, contracts.ValidateTokenResponse{
		IsValid: true,
		Project: &contracts.ProjectPayload{
			ID:       result.Project.ProjectID,
			Title:    result.Project.Title,
			FileName: result.Project.FileName,
			FileSize: result.Project.FileSize,
		},
		Session: &contracts.SessionPayload{
			ID:            result.Session.SessionID,
			AccessType:    string(result.Session.AccessType),
			DownloadCount: result.Session.DownloadCount,
			MaxDownloads:  result.Session.MaxDownloads,
			ExpiresAt:     result.Session.ExpiresAt,
		},
	})
}

// handleDownloadFile streams the project archive. Once the first byte is on
// the wire no JSON error can follow, so the outcome is recorded instead:
// a short write or client disconnect completes the session as failed with the
// bytes actually sent.
func (h *Handler) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, r, domain.ErrInvalidInput)
		return
	}
	session, info, reader, err := h.service.StartDownload(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", info.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name}))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	written, copyErr := io.Copy(w, reader)
	success := copyErr == nil && written == info.Size

	// Recording must survive a canceled request context.
	recordCtx := context.WithoutCancel(r.Context())
	if err := h.service.CompleteDownload(recordCtx, session.SessionID, success, written); err != nil {
		slog.Default().ErrorContext(recordCtx, "download outcome not recorded",
			"module", "http",
			"layer", "adapter",
			"operation", "download_file",
			"outcome", "error",
			"session_id", session.SessionID,
			"error", err,
		)
	}
	if copyErr != nil {
		slog.Default().WarnContext(recordCtx, "download stream interrupted",
			"module", "http",
			"layer", "adapter",
			"operation", "download_file",
			"outcome", "failure",
			"session_id", session.SessionID,
			"bytes_sent", written,
			"error", copyErr,
		)
	}
}

func (h *Handler) handleListDownloads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	sessions, err := h.service.ListDownloads(r.Context(), actorFrom(r), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"downloads": sessions})
}

func (h *Handler) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokeDownloadSession(r.Context(), actorFrom(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "download session revoked", nil)
}
