package models

import "time"

// DeviceActivationModel records one device's seat against a license. Rows are
// never deleted; IsActive flips off on deactivation and back on when the same
// fingerprint returns, so the full history of every device ever seen stays
// queryable.
type DeviceActivationModel struct {
	Base
	LicenseID         string     `json:"license_id"         gorm:"index:idx_license_fingerprint,unique;not null"`
	DeviceFingerprint string     `json:"device_fingerprint" gorm:"index:idx_license_fingerprint,unique;not null"`
	DeviceName        string     `json:"device_name"`
	DeviceType        string     `json:"device_type"        gorm:"not null"`
	IPAddress         string     `json:"ip_address"`
	UserAgent         string     `json:"user_agent"         gorm:"type:text"`
	IsActive          bool       `json:"is_active"          gorm:"default:true"`
	LastUsedAt        time.Time  `json:"last_used_at"`
	DeactivatedAt     *time.Time `json:"deactivated_at"`
}

func (DeviceActivationModel) TableName() string { return "device_activations" }
