package models

// Claim types accepted from clients.
const (
	ClaimTypeDeviceLimit     = "device_limit"
	ClaimTypeActivationIssue = "activation_issue"
	ClaimTypeLostCode        = "lost_code"
	ClaimTypeOther           = "other"
)

// SupportClaimModel is a durable escalation record. LicenseID stays empty
// when the code the user typed does not resolve; the raw code string is kept
// either way so an operator can see what was entered.
type SupportClaimModel struct {
	Base
	ClaimNumber  string `json:"claim_number" gorm:"uniqueIndex;not null"`
	LicenseID    string `json:"license_id"   gorm:"index"`
	LicenseCode  string `json:"license_code"`
	Email        string `json:"email"        gorm:"not null"`
	CustomerName string `json:"customer_name"`
	ClaimType    string `json:"claim_type"   gorm:"not null"`
	Subject      string `json:"subject"      gorm:"not null"`
	Message      string `json:"message"      gorm:"type:text"`
	DeviceInfo   string `json:"device_info"  gorm:"type:text"`
}

func (SupportClaimModel) TableName() string { return "support_claims" }
