package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPurchaseConfirmation(t *testing.T) {
	subject, html, err := render(KindPurchaseConfirmation, PurchaseMailData{
		CustomerName: "Ada Reader",
		LicenseCode:  "QK3M-7HWP-2RZD-X9FA",
		DownloadURL:  "https://read.example.com/api/v1/licenses/download?token=abc",
		MaxDevices:   2,
		AmountLabel:  "19.99 EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your reading access is ready", subject)
	assert.Contains(t, html, "QK3M-7HWP-2RZD-X9FA")
	assert.Contains(t, html, "Ada Reader")
	assert.Contains(t, html, "19.99 EUR")
	assert.Contains(t, html, "token=abc")
}

func TestRenderClaimAlert(t *testing.T) {
	subject, html, err := render(KindClaimAlert, ClaimMailData{
		ClaimNumber: "INK-20260901-0482",
		Email:       "reader@example.com",
		ClaimType:   "device_limit",
		Subject:     "Cannot add my new laptop",
		Message:     "The app says my device limit is reached.",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "INK-20260901-0482")
	assert.Contains(t, html, "reader@example.com")
	assert.Contains(t, html, "device_limit")
}

func TestRenderDailySummary(t *testing.T) {
	subject, html, err := render(KindDailySummary, SummaryMailData{
		Date:           "2026-09-01",
		LicensesIssued: 12,
		ClaimsByType:   map[string]int64{"device_limit": 3},
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "2026-09-01")
	assert.Contains(t, html, "12")
	assert.Contains(t, html, "device_limit")
}

func TestRenderRejectsWrongPayload(t *testing.T) {
	_, _, err := render(KindPurchaseConfirmation, ClaimMailData{})
	assert.Error(t, err)

	_, _, err = render(Kind("no_such_kind"), nil)
	assert.Error(t, err)
}
