package application

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

type PurchaseStatus struct {
	HasPurchased bool
	AccessType   domain.AccessType
}

// CheckPurchaseStatus resolves how (and whether) a user may download a
// project: admins and the project's own seller always may, buyers need a
// completed transaction, and approved zero-price projects are open.
func (s *Service) CheckPurchaseStatus(ctx context.Context, actor Actor, projectID string) (PurchaseStatus, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return PurchaseStatus{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateDownloadRequest(actor.UserID, projectID); err != nil {
		return PurchaseStatus{}, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return PurchaseStatus{}, err
	}
	if actor.IsAdmin() {
		return PurchaseStatus{HasPurchased: true, AccessType: domain.AccessAdmin}, nil
	}
	if project.SellerID == actor.UserID {
		return PurchaseStatus{HasPurchased: true, AccessType: domain.AccessOwner}, nil
	}
	purchased, err := s.transactions.HasCompletedPurchase(ctx, actor.UserID, project.ProjectID)
	if err != nil {
		return PurchaseStatus{}, err
	}
	if purchased {
		return PurchaseStatus{HasPurchased: true, AccessType: domain.AccessPurchase}, nil
	}
	if project.Free() {
		return PurchaseStatus{HasPurchased: true, AccessType: domain.AccessFree}, nil
	}
	return PurchaseStatus{}, nil
}

// CreateDownloadSession mints a fresh opaque token bound to a verified
// purchase. No session row is written when the purchase check fails.
func (s *Service) CreateDownloadSession(ctx context.Context, actor Actor, input DownloadRequestInput) (domain.DownloadSession, error) {
	status, err := s.CheckPurchaseStatus(ctx, actor, input.ProjectID)
	if err != nil {
		return domain.DownloadSession{}, err
	}
	if !status.HasPurchased {
		return domain.DownloadSession{}, domain.ErrNotPurchased
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return domain.DownloadSession{}, err
	}
	now := s.nowFn()
	session := domain.DownloadSession{
		SessionID:    uuid.NewString(),
		Token:        token,
		UserID:       actor.UserID,
		ProjectID:    strings.TrimSpace(input.ProjectID),
		AccessType:   status.AccessType,
		Status:       domain.DownloadStatusActive,
		MaxDownloads: s.cfg.MaxDownloads,
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.DownloadTTL),
	}
	if err := s.downloads.Create(ctx, session); err != nil {
		return domain.DownloadSession{}, err
	}
	if s.sessionCache != nil {
		_ = s.sessionCache.Set(ctx, session, s.cfg.DownloadTTL)
	}
	return session, nil
}

type DownloadValidation struct {
	IsValid bool
	Session domain.DownloadSession
	Project domain.Project
}

// ValidateDownloadAccess fails closed: any missing, expired, exhausted, or
// revoked token comes back as IsValid=false rather than an error, so the
// unauthenticated validate endpoint never leaks internal failure detail.
func (s *Service) ValidateDownloadAccess(ctx context.Context, token string) DownloadValidation {
	token = strings.TrimSpace(token)
	if token == "" {
		return DownloadValidation{}
	}
	session, err := s.lookupSession(ctx, token)
	if err != nil {
		return DownloadValidation{}
	}
	if err := session.Usable(s.nowFn()); err != nil {
		return DownloadValidation{}
	}
	project, err := s.projects.GetByID(ctx, session.ProjectID)
	if err != nil {
		return DownloadValidation{}
	}
	return DownloadValidation{IsValid: true, Session: session, Project: project}
}

func (s *Service) lookupSession(ctx context.Context, token string) (domain.DownloadSession, error) {
	if s.sessionCache != nil {
		if cached, err := s.sessionCache.Get(ctx, token); err == nil && cached != nil {
			return *cached, nil
		}
	}
	return s.downloads.GetByToken(ctx, token)
}

// StartDownload re-validates the session immediately before opening the file
// stream, then counts the attempt. The returned reader is owned by the caller.
func (s *Service) StartDownload(ctx context.Context, token string) (domain.DownloadSession, ports.FileInfo, io.ReadCloser, error) {
	session, err := s.lookupSession(ctx, strings.TrimSpace(token))
	if err != nil {
		return domain.DownloadSession{}, ports.FileInfo{}, nil, err
	}
	if err := session.Usable(s.nowFn()); err != nil {
		return domain.DownloadSession{}, ports.FileInfo{}, nil, err
	}
	project, err := s.projects.GetByID(ctx, session.ProjectID)
	if err != nil {
		return domain.DownloadSession{}, ports.FileInfo{}, nil, err
	}

	reader, info, err := s.files.Open(ctx, project.FileKey)
	if err != nil {
		return domain.DownloadSession{}, ports.FileInfo{}, nil, err
	}
	if info.Name == "" {
		info.Name = project.FileName
	}
	if info.MimeType == "" {
		info.MimeType = project.MimeType
	}

	now := s.nowFn()
	session.DownloadCount++
	session.LastAccessAt = &now
	if err := s.downloads.Update(ctx, session); err != nil {
		_ = reader.Close()
		return domain.DownloadSession{}, ports.FileInfo{}, nil, err
	}
	if s.sessionCache != nil {
		_ = s.sessionCache.Invalidate(ctx, session.Token)
	}
	return session, info, reader, nil
}

// CompleteDownload records the outcome of one stream attempt, success or
// failure, with the bytes actually sent. It is best-effort from the caller's
// perspective; recording errors must not fail an already-streamed response.
func (s *Service) CompleteDownload(ctx context.Context, sessionID string, success bool, bytesTransferred int64) error {
	session, err := s.downloads.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	session.BytesTransferred = bytesTransferred
	if success {
		session.Status = domain.DownloadStatusCompleted
	} else {
		session.Status = domain.DownloadStatusFailed
	}
	now := s.nowFn()
	session.LastAccessAt = &now
	if err := s.downloads.Update(ctx, session); err != nil {
		return err
	}
	if s.sessionCache != nil {
		_ = s.sessionCache.Invalidate(ctx, session.Token)
	}

	var fileSize int64
	if project, perr := s.projects.GetByID(ctx, session.ProjectID); perr == nil {
		fileSize = project.FileSize
	}
	if err := s.enqueueDownloadOutcome(ctx, session, success, fileSize); err != nil {
		return err
	}
	return s.FlushOutbox(ctx)
}

// RevokeDownloadSession invalidates a grant before its natural expiry.
func (s *Service) RevokeDownloadSession(ctx context.Context, actor Actor, sessionID string) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return domain.ErrUnauthorized
	}
	session, err := s.downloads.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && session.UserID != actor.UserID {
		return domain.ErrForbidden
	}
	session.Status = domain.DownloadStatusRevoked
	session.ExpiresAt = s.nowFn()
	if err := s.downloads.Update(ctx, session); err != nil {
		return err
	}
	if s.sessionCache != nil {
		_ = s.sessionCache.Invalidate(ctx, session.Token)
	}
	return nil
}

// ListDownloads returns the caller's download history, newest first.
func (s *Service) ListDownloads(ctx context.Context, actor Actor, limit, offset int) ([]domain.DownloadSession, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.downloads.ListByUser(ctx, actor.UserID, limit, offset)
}
