package domain

import (
	"strings"
	"time"
)

type AccessType string

const (
	AccessPurchase AccessType = "purchase"
	AccessOwner    AccessType = "owner"
	AccessAdmin    AccessType = "admin"
	AccessFree     AccessType = "free"
)

type DownloadStatus string

const (
	DownloadStatusActive    DownloadStatus = "active"
	DownloadStatusCompleted DownloadStatus = "completed"
	DownloadStatusFailed    DownloadStatus = "failed"
	DownloadStatusRevoked   DownloadStatus = "revoked"
)

// DownloadSession is a short-lived access grant minted against a verified
// purchase. The token is opaque and single-purpose; it is never reused
// across sessions.
type DownloadSession struct {
	SessionID        string         `json:"session_id"`
	Token            string         `json:"-"`
	UserID           string         `json:"user_id"`
	ProjectID        string         `json:"project_id"`
	AccessType       AccessType     `json:"access_type"`
	Status           DownloadStatus `json:"status"`
	DownloadCount    int            `json:"download_count"`
	MaxDownloads     int            `json:"max_downloads"`
	BytesTransferred int64          `json:"bytes_transferred"`
	IPAddress        string         `json:"ip_address,omitempty"`
	UserAgent        string         `json:"user_agent,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	ExpiresAt        time.Time      `json:"expires_at"`
	LastAccessAt     *time.Time     `json:"last_access_at,omitempty"`
}

// Usable reports whether the session still authorizes a stream at the given
// instant. Checked when the session is looked up and re-checked immediately
// before the file stream opens to keep the check/use gap minimal.
func (s DownloadSession) Usable(now time.Time) error {
	switch s.Status {
	case DownloadStatusRevoked:
		return ErrSessionRevoked
	case DownloadStatusActive, DownloadStatusCompleted, DownloadStatusFailed:
	default:
		return ErrSessionRevoked
	}
	if now.After(s.ExpiresAt) {
		return ErrSessionExpired
	}
	if s.MaxDownloads > 0 && s.DownloadCount >= s.MaxDownloads {
		return ErrSessionExhausted
	}
	return nil
}

func ValidateDownloadRequest(userID, projectID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(projectID) == "" {
		return ErrInvalidInput
	}
	return nil
}
