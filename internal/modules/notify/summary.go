package notify

import (
	"time"

	"github.com/inkvault/core/internal/models"
	"gorm.io/gorm"
)

// BuildDailySummary aggregates activity since the cutoff into the daily
// summary payload. Counts are recomputed from rows each run; nothing caches.
func BuildDailySummary(db *gorm.DB, since time.Time) (SummaryMailData, error) {
	data := SummaryMailData{
		Date:         time.Now().Format("2006-01-02"),
		ClaimsByType: map[string]int64{},
	}

	if err := db.Model(&models.LicenseModel{}).
		Where("created_at >= ?", since).
		Count(&data.LicensesIssued).Error; err != nil {
		return data, err
	}
	if err := db.Model(&models.DeviceActivationModel{}).
		Where("created_at >= ?", since).
		Count(&data.DevicesActivated).Error; err != nil {
		return data, err
	}
	if err := db.Model(&models.SupportClaimModel{}).
		Where("created_at >= ?", since).
		Count(&data.ClaimsOpened).Error; err != nil {
		return data, err
	}
	if err := db.Model(&models.LicenseModel{}).
		Where("is_active = ? AND is_revoked = ?", true, false).
		Count(&data.ActiveLicenseTotal).Error; err != nil {
		return data, err
	}

	type row struct {
		ClaimType string
		Count     int64
	}
	var rows []row
	if err := db.Model(&models.SupportClaimModel{}).
		Where("created_at >= ?", since).
		Select("claim_type, COUNT(*) as count").
		Group("claim_type").
		Scan(&rows).Error; err != nil {
		return data, err
	}
	for _, r := range rows {
		data.ClaimsByType[r.ClaimType] = r.Count
	}
	return data, nil
}
