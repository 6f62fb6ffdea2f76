package postgres

import (
	"encoding/json"

	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

func transactionToModel(t domain.Transaction) transactionModel {
	return transactionModel{
		TransactionID:    t.TransactionID,
		BuyerID:          t.BuyerID,
		SellerID:         t.SellerID,
		ProjectID:        t.ProjectID,
		Amount:           t.Amount,
		Currency:         t.Currency,
		PlatformFee:      t.PlatformFee,
		SellerPayout:     t.SellerPayout,
		Status:           string(t.Status),
		PaymentMethod:    t.PaymentMethod,
		GatewayOrderID:   t.GatewayOrderID,
		GatewayPaymentID: t.GatewayPaymentID,
		GatewaySignature: t.GatewaySignature,
		RefundID:         t.RefundID,
		RefundAmount:     t.RefundAmount,
		RefundReason:     t.RefundReason,
		FailureCode:      t.FailureCode,
		FailureReason:    t.FailureReason,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		CompletedAt:      t.CompletedAt,
		FailedAt:         t.FailedAt,
		RefundedAt:       t.RefundedAt,
	}
}

func transactionFromModel(m transactionModel) domain.Transaction {
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		BuyerID:          m.BuyerID,
		SellerID:         m.SellerID,
		ProjectID:        m.ProjectID,
		Amount:           m.Amount,
		Currency:         m.Currency,
		PlatformFee:      m.PlatformFee,
		SellerPayout:     m.SellerPayout,
		Status:           domain.TransactionStatus(m.Status),
		PaymentMethod:    m.PaymentMethod,
		GatewayOrderID:   m.GatewayOrderID,
		GatewayPaymentID: m.GatewayPaymentID,
		GatewaySignature: m.GatewaySignature,
		RefundID:         m.RefundID,
		RefundAmount:     m.RefundAmount,
		RefundReason:     m.RefundReason,
		FailureCode:      m.FailureCode,
		FailureReason:    m.FailureReason,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      m.CompletedAt,
		FailedAt:         m.FailedAt,
		RefundedAt:       m.RefundedAt,
	}
}

func sessionToModel(s domain.DownloadSession) downloadSessionModel {
	return downloadSessionModel{
		SessionID:        s.SessionID,
		Token:            s.Token,
		UserID:           s.UserID,
		ProjectID:        s.ProjectID,
		AccessType:       string(s.AccessType),
		Status:           string(s.Status),
		DownloadCount:    s.DownloadCount,
		MaxDownloads:     s.MaxDownloads,
		BytesTransferred: s.BytesTransferred,
		IPAddress:        s.IPAddress,
		UserAgent:        s.UserAgent,
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
		LastAccessAt:     s.LastAccessAt,
	}
}

func sessionFromModel(m downloadSessionModel) domain.DownloadSession {
	return domain.DownloadSession{
		SessionID:        m.SessionID,
		Token:            m.Token,
		UserID:           m.UserID,
		ProjectID:        m.ProjectID,
		AccessType:       domain.AccessType(m.AccessType),
		Status:           domain.DownloadStatus(m.Status),
		DownloadCount:    m.DownloadCount,
		MaxDownloads:     m.MaxDownloads,
		BytesTransferred: m.BytesTransferred,
		IPAddress:        m.IPAddress,
		UserAgent:        m.UserAgent,
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
		LastAccessAt:     m.LastAccessAt,
	}
}

func projectFromModel(m projectModel) domain.Project {
	return domain.Project{
		ProjectID: m.ProjectID,
		SellerID:  m.SellerID,
		Title:     m.Title,
		Price:     m.Price,
		Currency:  m.Currency,
		License:   domain.LicenseType(m.License),
		Status:    domain.ProjectStatus(m.Status),
		FileKey:   m.FileKey,
		FileName:  m.FileName,
		FileSize:  m.FileSize,
		MimeType:  m.MimeType,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func userToModel(u domain.User) userModel {
	return userModel{
		UserID:       u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m userModel) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func outboxToModel(r ports.OutboxRecord) (outboxModel, error) {
	raw, err := json.Marshal(r.Envelope)
	if err != nil {
		return outboxModel{}, err
	}
	return outboxModel{
		RecordID:  r.RecordID,
		EventType: r.Envelope.EventType,
		Envelope:  string(raw),
		CreatedAt: r.CreatedAt,
		SentAt:    r.SentAt,
	}, nil
}

func outboxFromModel(m outboxModel) (ports.OutboxRecord, error) {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal([]byte(m.Envelope), &envelope); err != nil {
		return ports.OutboxRecord{}, err
	}
	return ports.OutboxRecord{
		RecordID:  m.RecordID,
		Envelope:  envelope,
		CreatedAt: m.CreatedAt,
		SentAt:    m.SentAt,
	}, nil
}
