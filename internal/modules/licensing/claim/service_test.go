package claim

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/database"
	"github.com/inkvault/core/internal/models"
	"github.com/inkvault/core/internal/modules/notify"
	"github.com/inkvault/core/internal/pkg/pagination"
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

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingSink) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sink := &recordingSink{}
	cfg := config.LicensingConfig{
		ClaimPrefix:   "INK",
		OperatorEmail: "ops@example.com",
	}
	return NewService(db, cfg, sink, zap.NewNop()), db, sink
}

func TestCreateWithUnresolvableCode(t *testing.T) {
	svc, db, sink := newTestService(t)

	cl, err := svc.Create(&CreateClaimDTO{
		LicenseCode: "  not-a-real-code ",
		Email:       "Reader@Example.com",
		ClaimType:   models.ClaimTypeDeviceLimit,
		Subject:     "Cannot add my new laptop",
		Message:     "The app says my device limit is reached.",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^INK-\d{8}-\d{4}$`, cl.ClaimNumber)
	assert.Empty(t, cl.LicenseID)
	assert.Equal(t, "NOT-A-REAL-CODE", cl.LicenseCode)
	assert.Equal(t, "reader@example.com", cl.Email)

	var count int64
	require.NoError(t, db.Model(&models.SupportClaimModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	calls := sink.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, notify.KindClaimAlert, calls[0].kind)
	assert.Equal(t, "ops@example.com", calls[0].to)
	data, ok := calls[0].payload.(notify.ClaimMailData)
	require.True(t, ok)
	assert.Equal(t, cl.ClaimNumber, data.ClaimNumber)
}

func TestCreateLinksResolvableCode(t *testing.T) {
	svc, db, _ := newTestService(t)

	lic := models.LicenseModel{
		Code:        "QK3M-7HWP-2RZD-X9FA",
		Email:       "reader@example.com",
		PurchaseRef: "evt_claim_test",
		MaxDevices:  2,
		IsActive:    true,
		PurchasedAt: time.Now(),
	}
	require.NoError(t, db.Create(&lic).Error)

	cl, err := svc.Create(&CreateClaimDTO{
		LicenseCode: "qk3m-7hwp-2rzd-x9fa",
		Email:       "reader@example.com",
		ClaimType:   models.ClaimTypeActivationIssue,
		Subject:     "Activation fails on my tablet",
		Message:     "It spins forever.",
	})
	require.NoError(t, err)
	assert.Equal(t, lic.ID, cl.LicenseID)
	assert.Equal(t, lic.Code, cl.LicenseCode)
}

func TestListFiltersByType(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, ct := range []string{
		models.ClaimTypeDeviceLimit,
		models.ClaimTypeDeviceLimit,
		models.ClaimTypeLostCode,
	} {
		_, err := svc.Create(&CreateClaimDTO{
			Email:     "reader@example.com",
			ClaimType: ct,
			Subject:   "subject",
			Message:   "message",
		})
		require.NoError(t, err)
	}

	q := pagination.Query{Page: 1, Size: 10}

	all, pag, err := svc.List(q, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, pag.Total)

	filter := models.ClaimTypeDeviceLimit
	limited, pag, err := svc.List(q, &filter)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.EqualValues(t, 2, pag.Total)
	for _, c := range limited {
		assert.Equal(t, models.ClaimTypeDeviceLimit, c.ClaimType)
	}
}
