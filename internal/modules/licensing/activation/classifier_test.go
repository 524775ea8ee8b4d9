package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDeviceTypes(t *testing.T) {
	sc := NewSubstringClassifier()

	cases := []struct {
		name       string
		deviceType string
		userAgent  string
		want       Category
	}{
		{"ios tag", "ios", "", CategoryMobile},
		{"android tag", "android", "", CategoryMobile},
		{"windows tag", "windows", "", CategoryDesktop},
		{"macos tag", "macos", "", CategoryDesktop},
		{"linux tag", "linux", "", CategoryDesktop},
		{"tag beats user agent", "ios", "Mozilla/5.0 (Windows NT 10.0; Win64)", CategoryMobile},
		{"tag is case-insensitive", "  iOS ", "", CategoryMobile},
		{"web with iphone ua", "web", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", CategoryMobile},
		{"web with android ua", "web", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile", CategoryMobile},
		{"web with desktop ua", "web", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", CategoryDesktop},
		{"web with mac ua", "web", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", CategoryDesktop},
		{"unknown tag with mobile ua", "smartfridge", "Opera Mini something", CategoryMobile},
		{"unknown tag, no ua", "smartfridge", "", CategoryDesktop},
		{"empty everything", "", "", CategoryDesktop},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sc.Classify(tc.deviceType, tc.userAgent))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	sc := NewSubstringClassifier()
	first := sc.Classify("web", "Mozilla/5.0 (iPad; CPU OS 16_0)")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, sc.Classify("web", "Mozilla/5.0 (iPad; CPU OS 16_0)"))
	}
}
