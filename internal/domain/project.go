package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusApproved  ProjectStatus = "approved"
	ProjectStatusRejected  ProjectStatus = "rejected"
	ProjectStatusSuspended ProjectStatus = "suspended"
)

type LicenseType string

const (
	LicenseSingle   LicenseType = "single"
	LicenseMulti    LicenseType = "multi"
	LicenseExtended LicenseType = "extended"
)

// Project is the sellable artifact. Price is in the smallest currency unit
// (paise for INR) to match the gateway's wire contract exactly.
type Project struct {
	ProjectID string        `json:"project_id"`
	SellerID  string        `json:"seller_id"`
	Title     string        `json:"title"`
	Price     int64         `json:"price"`
	Currency  string        `json:"currency"`
	License   LicenseType   `json:"license"`
	Status    ProjectStatus `json:"status"`
	FileKey   string        `json:"file_key"`
	FileName  string        `json:"file_name"`
	FileSize  int64         `json:"file_size"`
	MimeType  string        `json:"mime_type"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Purchasable reports whether new payment orders may target the project.
func (p Project) Purchasable() bool {
	return p.Status == ProjectStatusApproved && p.Price > 0
}

// Free projects skip the purchase gate entirely.
func (p Project) Free() bool {
	return p.Status == ProjectStatusApproved && p.Price == 0
}
