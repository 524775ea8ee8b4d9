package license

import (
	"time"

	"github.com/inkvault/core/internal/models"
)

// IssueLicenseDTO is what the purchase gateway hands over once a payment has
// completed. PurchaseRef is the upstream event id and drives idempotency.
type IssueLicenseDTO struct {
	Email        string
	CustomerName string
	PurchaseRef  string
	AmountPaid   int64
	Currency     string
	PurchasedAt  time.Time
}

// UpdateLicenseDTO is the admin mutation surface.
type UpdateLicenseDTO struct {
	IsActive   *bool `json:"is_active"`
	MaxDevices *int  `json:"max_devices"`
}

type licenseResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Email        string    `json:"email"`
	CustomerName string    `json:"customer_name,omitempty"`
	AmountPaid   int64     `json:"amount_paid"`
	Currency     string    `json:"currency"`
	MaxDevices   int       `json:"max_devices"`
	IsActive     bool      `json:"is_active"`
	IsRevoked    bool      `json:"is_revoked"`
	PurchasedAt  time.Time `json:"purchased_at"`
	Created      time.Time `json:"created"`
}

func toResponse(l *models.LicenseModel) licenseResponse {
	return licenseResponse{
		ID:           l.ID,
		Code:         l.Code,
		Email:        l.Email,
		CustomerName: l.CustomerName,
		AmountPaid:   l.AmountPaid,
		Currency:     l.Currency,
		MaxDevices:   l.MaxDevices,
		IsActive:     l.IsActive,
		IsRevoked:    l.IsRevoked,
		PurchasedAt:  l.PurchasedAt,
		Created:      l.CreatedAt,
	}
}
