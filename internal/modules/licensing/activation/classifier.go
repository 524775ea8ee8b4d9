package activation

import "strings"

// Category is the coarse enforcement bucket a device falls into. It is
// derived on every admission decision and never stored, so changing the
// classification rule retroactively changes the effective quota for existing
// activations without a migration.
type Category string

const (
	CategoryMobile  Category = "mobile"
	CategoryDesktop Category = "desktop"
)

// Device type tags accepted from clients. Anything else is treated like
// DeviceTypeWeb and classified from the user agent.
const (
	DeviceTypeIOS     = "ios"
	DeviceTypeAndroid = "android"
	DeviceTypeWindows = "windows"
	DeviceTypeMacOS   = "macos"
	DeviceTypeLinux   = "linux"
	DeviceTypeWeb     = "web"
)

// Classifier maps a device onto its enforcement category. It must be pure:
// identical inputs always yield the identical category.
type Classifier interface {
	Classify(deviceType, userAgent string) Category
}

// SubstringClassifier is the default Classifier: native platform tags map
// directly, the generic web tag falls back to user-agent inspection against a
// fixed marker list. The marker list is effectively stored policy because
// categories are recomputed per call.
type SubstringClassifier struct {
	mobileMarkers []string
}

var defaultMobileMarkers = []string{
	"mobile",
	"android",
	"iphone",
	"ipad",
	"ipod",
	"windows phone",
	"opera mini",
	"blackberry",
	"webos",
}

func NewSubstringClassifier() *SubstringClassifier {
	return &SubstringClassifier{mobileMarkers: defaultMobileMarkers}
}

func (sc *SubstringClassifier) Classify(deviceType, userAgent string) Category {
	switch strings.ToLower(strings.TrimSpace(deviceType)) {
	case DeviceTypeIOS, DeviceTypeAndroid:
		return CategoryMobile
	case DeviceTypeWindows, DeviceTypeMacOS, DeviceTypeLinux:
		return CategoryDesktop
	}

	// Generic or unknown tag: decide from the user agent. No user agent
	// defaults to desktop.
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return CategoryDesktop
	}
	for _, marker := range sc.mobileMarkers {
		if strings.Contains(ua, marker) {
			return CategoryMobile
		}
	}
	return CategoryDesktop
}
