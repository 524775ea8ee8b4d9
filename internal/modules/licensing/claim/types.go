package claim

// CreateClaimDTO is the public escalation request. A license code is optional
// and may not resolve; the claim is recorded either way.
type CreateClaimDTO struct {
	LicenseCode  string `json:"license_code"`
	Email        string `json:"email"         binding:"required,email"`
	CustomerName string `json:"customer_name"`
	ClaimType    string `json:"claim_type"    binding:"required,oneof=device_limit activation_issue lost_code other"`
	Subject      string `json:"subject"       binding:"required"`
	Message      string `json:"message"       binding:"required"`
	DeviceInfo   string `json:"device_info"`
}
