package notify

import (
	"fmt"
	"html/template"
	"strings"
)

// PurchaseMailData fills the purchase-confirmation template.
type PurchaseMailData struct {
	CustomerName string
	LicenseCode  string
	DownloadURL  string
	MaxDevices   int
	AmountLabel  string
}

// ClaimMailData fills the operator claim-alert template.
type ClaimMailData struct {
	ClaimNumber  string
	Email        string
	CustomerName string
	ClaimType    string
	Subject      string
	Message      string
	LicenseCode  string
	DeviceInfo   string
}

// SummaryMailData fills the daily summary template.
type SummaryMailData struct {
	Date               string
	LicensesIssued     int64
	DevicesActivated   int64
	ClaimsOpened       int64
	ClaimsByType       map[string]int64
	ActiveLicenseTotal int64
}

func render(kind Kind, payload interface{}) (subject, html string, err error) {
	var tplSrc string
	switch kind {
	case KindPurchaseConfirmation:
		data, ok := payload.(PurchaseMailData)
		if !ok {
			return "", "", fmt.Errorf("notify: unexpected payload %T for %s", payload, kind)
		}
		subject = "Your reading access is ready"
		tplSrc = purchaseTpl
		payload = data
	case KindClaimAlert:
		data, ok := payload.(ClaimMailData)
		if !ok {
			return "", "", fmt.Errorf("notify: unexpected payload %T for %s", payload, kind)
		}
		subject = "New support claim " + data.ClaimNumber
		tplSrc = claimAlertTpl
		payload = data
	case KindDailySummary:
		data, ok := payload.(SummaryMailData)
		if !ok {
			return "", "", fmt.Errorf("notify: unexpected payload %T for %s", payload, kind)
		}
		subject = "Daily license summary " + data.Date
		tplSrc = summaryTpl
		payload = data
	default:
		return "", "", fmt.Errorf("notify: unknown message kind %q", kind)
	}

	tpl, err := template.New(string(kind)).Parse(tplSrc)
	if err != nil {
		return "", "", err
	}
	var buf strings.Builder
	if err := tpl.Execute(&buf, payload); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

const purchaseTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Thank you for your purchase{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h2>
  <p>Your license code is:</p>
  <p style="font-size:20px;letter-spacing:2px;font-family:monospace;background:#f0f0f0;border-radius:4px;padding:12px;text-align:center"><strong>{{.LicenseCode}}</strong></p>
  <p>You can read on up to <strong>{{.MaxDevices}}</strong> devices. Enter the code in the app, or start right away:</p>
  <p style="margin-top:24px;text-align:center">
    <a href="{{.DownloadURL}}" style="background:#4f46e5;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Open your library</a>
  </p>
  {{if .AmountLabel}}<p style="color:#999;font-size:12px">Amount paid: {{.AmountLabel}}</p>{{end}}
  <p style="color:#999;font-size:12px">Keep this email: the code above is your proof of purchase.</p>
</div>
</body>
</html>`

const claimAlertTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Support claim {{.ClaimNumber}}</h2>
  <table style="font-size:14px;color:#333">
    <tr><td style="padding:2px 12px 2px 0;color:#999">From</td><td>{{.Email}}{{if .CustomerName}} ({{.CustomerName}}){{end}}</td></tr>
    <tr><td style="padding:2px 12px 2px 0;color:#999">Type</td><td>{{.ClaimType}}</td></tr>
    {{if .LicenseCode}}<tr><td style="padding:2px 12px 2px 0;color:#999">License</td><td style="font-family:monospace">{{.LicenseCode}}</td></tr>{{end}}
    <tr><td style="padding:2px 12px 2px 0;color:#999">Subject</td><td>{{.Subject}}</td></tr>
  </table>
  <p style="background:#f0f0f0;border-radius:4px;padding:12px;white-space:pre-wrap">{{.Message}}</p>
  {{if .DeviceInfo}}<p style="color:#999;font-size:12px">Device info: {{.DeviceInfo}}</p>{{end}}
</div>
</body>
</html>`

const summaryTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">License summary for {{.Date}}</h2>
  <table style="font-size:14px;color:#333">
    <tr><td style="padding:2px 12px 2px 0;color:#999">Licenses issued</td><td>{{.LicensesIssued}}</td></tr>
    <tr><td style="padding:2px 12px 2px 0;color:#999">Devices activated</td><td>{{.DevicesActivated}}</td></tr>
    <tr><td style="padding:2px 12px 2px 0;color:#999">Claims opened</td><td>{{.ClaimsOpened}}</td></tr>
    <tr><td style="padding:2px 12px 2px 0;color:#999">Active licenses total</td><td>{{.ActiveLicenseTotal}}</td></tr>
  </table>
  {{if .ClaimsByType}}
  <h3 style="color:#333;font-size:14px">Claims by type</h3>
  <table style="font-size:13px;color:#333">
    {{range $type, $count := .ClaimsByType}}<tr><td style="padding:2px 12px 2px 0;color:#999">{{$type}}</td><td>{{$count}}</td></tr>{{end}}
  </table>
  {{end}}
</div>
</body>
</html>`
