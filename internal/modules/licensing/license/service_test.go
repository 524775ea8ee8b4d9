package license

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/database"
	"github.com/inkvault/core/internal/models"
	"github.com/inkvault/core/internal/modules/notify"
	"github.com/inkvault/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sinkCall struct {
	kind    notify.Kind
	to      string
	payload interface{}
}

// recordingSink captures notifications instead of delivering them.
type recordingSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (r *recordingSink) Send(kind notify.Kind, to string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, sinkCall{kind: kind, to: to, payload: payload})
}

func (r *recordingSink) snapshot() []sinkCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sinkCall(nil), r.calls...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingSink) {
	t.Helper()
	db := newTestDB(t)
	sink := &recordingSink{}
	cfg := config.LicensingConfig{
		MaxDevices:   2,
		WebBaseURL:   "https://read.example.com",
		LinkTTLHours: 72,
	}
	return NewService(db, cfg, sink, zap.NewNop()), db, sink
}

func issueDTO() *IssueLicenseDTO {
	return &IssueLicenseDTO{
		Email:        "Reader@Example.com",
		CustomerName: " Ada Reader ",
		PurchaseRef:  "evt_12345",
		AmountPaid:   1999,
		Currency:     "eur",
		PurchasedAt:  time.Now(),
	}
}

func TestIssueCreatesLicense(t *testing.T) {
	svc, _, sink := newTestService(t)

	lic, created, err := svc.Issue(issueDTO())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Regexp(t, `^[A-HJ-NP-Z2-9]{4}(-[A-HJ-NP-Z2-9]{4}){3}$`, lic.Code)
	assert.Equal(t, "reader@example.com", lic.Email)
	assert.Equal(t, "Ada Reader", lic.CustomerName)
	assert.Equal(t, "EUR", lic.Currency)
	assert.Equal(t, 2, lic.MaxDevices)
	assert.True(t, lic.IsActive)

	calls := sink.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, notify.KindPurchaseConfirmation, calls[0].kind)
	assert.Equal(t, "reader@example.com", calls[0].to)

	data, ok := calls[0].payload.(notify.PurchaseMailData)
	require.True(t, ok)
	assert.Equal(t, lic.Code, data.LicenseCode)
	assert.Contains(t, data.DownloadURL, "https://read.example.com/api/v1/licenses/download?token=")
	assert.Equal(t, "19.99 EUR", data.AmountLabel)
}

func TestIssueIsIdempotentPerPurchaseEvent(t *testing.T) {
	svc, db, sink := newTestService(t)

	first, created, err := svc.Issue(issueDTO())
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Issue(issueDTO())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Code, second.Code)

	var count int64
	require.NoError(t, db.Model(&models.LicenseModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// No second confirmation email on replay.
	assert.Len(t, sink.snapshot(), 1)
}

func TestGetByCodeIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t)

	lic, _, err := svc.Issue(issueDTO())
	require.NoError(t, err)

	found, err := svc.GetByCode("  " + strings.ToLower(lic.Code) + " ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, lic.ID, found.ID)

	missing, err := svc.GetByCode("NOPE-NOPE-NOPE-NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	jwt.SetSecret("test-secret")
	svc, _, _ := newTestService(t)

	lic, _, err := svc.Issue(issueDTO())
	require.NoError(t, err)

	link, err := svc.DownloadURL(lic.Code)
	require.NoError(t, err)
	parts := strings.SplitN(link, "token=", 2)
	require.Len(t, parts, 2)

	resolved, err := svc.ResolveDownloadToken(parts[1])
	require.NoError(t, err)
	assert.Equal(t, lic.ID, resolved.ID)

	_, err = svc.ResolveDownloadToken(parts[1] + "x")
	assert.Error(t, err)
}

func TestSetRevoked(t *testing.T) {
	svc, _, _ := newTestService(t)

	lic, _, err := svc.Issue(issueDTO())
	require.NoError(t, err)

	require.NoError(t, svc.SetRevoked(lic.ID, true))
	got, err := svc.GetByID(lic.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRevoked)

	require.NoError(t, svc.SetRevoked(lic.ID, false))
	got, err = svc.GetByID(lic.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRevoked)

	assert.ErrorIs(t, svc.SetRevoked("missing-id", true), gorm.ErrRecordNotFound)
}

func TestUpdateLicense(t *testing.T) {
	svc, _, _ := newTestService(t)

	lic, _, err := svc.Issue(issueDTO())
	require.NoError(t, err)

	inactive := false
	four := 4
	_, err = svc.Update(lic.ID, &UpdateLicenseDTO{IsActive: &inactive, MaxDevices: &four})
	require.NoError(t, err)

	got, err := svc.GetByID(lic.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 4, got.MaxDevices)

	missing, err := svc.Update("missing-id", &UpdateLicenseDTO{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeactivateDevice(t *testing.T) {
	svc, db, _ := newTestService(t)

	lic, _, err := svc.Issue(issueDTO())
	require.NoError(t, err)

	act := models.DeviceActivationModel{
		LicenseID:         lic.ID,
		DeviceFingerprint: "fp-1",
		DeviceType:        "windows",
		IsActive:          true,
		LastUsedAt:        time.Now(),
	}
	require.NoError(t, db.Create(&act).Error)

	require.NoError(t, svc.DeactivateDevice(act.ID))

	devices, err := svc.Devices(lic.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.False(t, devices[0].IsActive)
	assert.NotNil(t, devices[0].DeactivatedAt)

	// Already freed; a second deactivation finds nothing to flip.
	assert.ErrorIs(t, svc.DeactivateDevice(act.ID), gorm.ErrRecordNotFound)
}
