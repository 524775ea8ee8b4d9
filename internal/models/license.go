package models

import "time"

// LicenseModel is one redeemable purchase. The code is the only credential
// the buyer holds; PurchaseRef is the idempotency key of the upstream payment
// event, so retried webhook deliveries can never mint a second license.
type LicenseModel struct {
	Base
	Code         string    `json:"code"          gorm:"uniqueIndex;not null"`
	Email        string    `json:"email"         gorm:"index;not null"`
	CustomerName string    `json:"customer_name"`
	PurchaseRef  string    `json:"purchase_ref"  gorm:"uniqueIndex;not null"`
	AmountPaid   int64     `json:"amount_paid"` // minor currency units
	Currency     string    `json:"currency"      gorm:"type:char(3)"`
	MaxDevices   int       `json:"max_devices"   gorm:"default:2"`
	IsActive     bool      `json:"is_active"     gorm:"default:true"`
	IsRevoked    bool      `json:"is_revoked"    gorm:"default:false"`
	PurchasedAt  time.Time `json:"purchased_at"`

	Activations []DeviceActivationModel `json:"activations,omitempty" gorm:"foreignKey:LicenseID"`
}

func (LicenseModel) TableName() string { return "licenses" }

// Usable reports whether the license can admit devices at all.
func (l *LicenseModel) Usable() bool { return l.IsActive && !l.IsRevoked }
