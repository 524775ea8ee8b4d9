package activation

// Policy error codes returned in-band with a 200 response. They are policy
// outcomes, not transport failures; store errors surface as 5xx instead.
const (
	ErrCodeInvalid     = "INVALID_CODE"
	ErrCodeRevoked     = "REVOKED"
	ErrCodeInactive    = "INACTIVE"
	ErrCodeDeviceLimit = "DEVICE_LIMIT_EXCEEDED"
)

// ValidateDTO is the request body for license validation.
type ValidateDTO struct {
	Code string `json:"code" binding:"required"`
}

// ActivateDTO is the request body for device activation. The client IP is
// taken from the connection, not the body.
type ActivateDTO struct {
	Code        string `json:"code"        binding:"required"`
	Fingerprint string `json:"fingerprint" binding:"required"`
	DeviceName  string `json:"device_name"`
	DeviceType  string `json:"device_type" binding:"required"`
	UserAgent   string `json:"user_agent"`
}

// ValidateResult mirrors what a client shows the user as "X of Y devices
// used". CanActivate is a coarse, user-facing approximation: real admission
// is decided by the category-scoped check in Activate, not by this flag.
type ValidateResult struct {
	Valid                bool   `json:"valid"`
	CanActivate          bool   `json:"can_activate"`
	MaxDevices           int    `json:"max_devices,omitempty"`
	ActiveDevices        int    `json:"active_devices"`
	RemainingActivations int    `json:"remaining_activations"`
	ErrorCode            string `json:"error_code,omitempty"`
}

// ActivateResult is the admission decision for one device.
type ActivateResult struct {
	Success              bool   `json:"success"`
	ActivationID         string `json:"activation_id,omitempty"`
	RemainingActivations *int   `json:"remaining_activations,omitempty"`
	ErrorCode            string `json:"error_code,omitempty"`
	Message              string `json:"message,omitempty"`
	SupportClaimURL      string `json:"support_claim_url,omitempty"`
}
