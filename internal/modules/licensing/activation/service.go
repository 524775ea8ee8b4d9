package activation

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/models"
	"github.com/inkvault/core/internal/pkg/keygen"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the admission/quota engine. Two quota figures coexist on
// purpose: MaxDevices is what validation reports and denial messages quote,
// CategoryLimit is what actually gates a brand-new device. A license sold as
// "2 devices" can hold one full category bucket per category, so up to
// 2 × CategoryLimit seats, while every user-visible number still says 2.
type Service struct {
	db         *gorm.DB
	cfg        config.LicensingConfig
	classifier Classifier
	logger     *zap.Logger
}

func NewService(db *gorm.DB, cfg config.LicensingConfig, classifier Classifier, logger *zap.Logger) *Service {
	if classifier == nil {
		classifier = NewSubstringClassifier()
	}
	return &Service{db: db, cfg: cfg, classifier: classifier, logger: logger.Named("activation")}
}

// Validate is the informational check: a flat comparison of the global active
// count against the advertised MaxDevices. It never admits anything itself.
func (s *Service) Validate(code string) (*ValidateResult, error) {
	lic, err := s.findLicense(s.db, code)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return &ValidateResult{ErrorCode: ErrCodeInvalid}, nil
	}
	if lic.IsRevoked {
		return &ValidateResult{ErrorCode: ErrCodeRevoked}, nil
	}
	if !lic.IsActive {
		return &ValidateResult{ErrorCode: ErrCodeInactive}, nil
	}

	active, err := s.countActive(s.db, lic.ID)
	if err != nil {
		return nil, err
	}

	return &ValidateResult{
		Valid:                true,
		CanActivate:          active < lic.MaxDevices,
		MaxDevices:           lic.MaxDevices,
		ActiveDevices:        active,
		RemainingActivations: lic.MaxDevices - active,
	}, nil
}

// ActivateRequest carries everything known about the candidate device.
type ActivateRequest struct {
	Code        string
	Fingerprint string
	DeviceName  string
	DeviceType  string
	IPAddress   string
	UserAgent   string
}

// Activate is the authoritative admission decision. The whole decision runs
// in one transaction holding a row lock on the license, so two devices racing
// for the last seat in a category serialize instead of both being admitted.
func (s *Service) Activate(req ActivateRequest) (*ActivateResult, error) {
	var res *ActivateResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		lookup := tx
		if tx.Dialector.Name() == "mysql" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var lic models.LicenseModel
		err := lookup.Where("code = ?", keygen.NormalizeCode(req.Code)).First(&lic).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res = &ActivateResult{ErrorCode: ErrCodeInvalid, Message: "license code not found"}
			return nil
		}
		if err != nil {
			return err
		}
		if lic.IsRevoked {
			res = &ActivateResult{ErrorCode: ErrCodeRevoked, Message: "license has been revoked"}
			return nil
		}
		if !lic.IsActive {
			res = &ActivateResult{ErrorCode: ErrCodeInactive, Message: "license is not active"}
			return nil
		}

		var activeRows []models.DeviceActivationModel
		if err := tx.Where("license_id = ? AND is_active = ?", lic.ID, true).
			Find(&activeRows).Error; err != nil {
			return err
		}
		activeDevices := len(activeRows)
		now := time.Now()

		var existing models.DeviceActivationModel
		err = tx.Where("license_id = ? AND device_fingerprint = ?", lic.ID, req.Fingerprint).
			First(&existing).Error
		switch {
		case err == nil && existing.IsActive:
			// A device already holding a seat can always refresh it.
			if err := tx.Model(&existing).Update("last_used_at", now).Error; err != nil {
				return err
			}
			res = successResult(existing.ID, lic.MaxDevices-activeDevices)
			return nil

		case err == nil:
			// A returning device is always let back in, regardless of
			// current occupancy. Total occupancy can therefore temporarily
			// exceed intended limits; that leniency is deliberate.
			updates := map[string]interface{}{
				"is_active":      true,
				"deactivated_at": nil,
				"last_used_at":   now,
				"ip_address":     req.IPAddress,
				"user_agent":     req.UserAgent,
			}
			if req.DeviceName != "" {
				updates["device_name"] = req.DeviceName
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			s.logger.Info("device reactivated",
				zap.String("license_id", lic.ID),
				zap.String("activation_id", existing.ID))
			res = successResult(existing.ID, lic.MaxDevices-activeDevices-1)
			return nil

		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// Brand-new fingerprint: admission is gated by the same-category
		// count, not by the global figure reported to the user.
		category := s.classifier.Classify(req.DeviceType, req.UserAgent)
		sameCategory := 0
		for _, a := range activeRows {
			if s.classifier.Classify(a.DeviceType, a.UserAgent) == category {
				sameCategory++
			}
		}

		if sameCategory >= s.cfg.CategoryLimit {
			// The denial quotes the global figures; categories are never
			// mentioned to the user.
			res = &ActivateResult{
				ErrorCode: ErrCodeDeviceLimit,
				Message: fmt.Sprintf(
					"device limit reached: %d of %d devices are in use; contact support to free up a device",
					activeDevices, lic.MaxDevices),
				SupportClaimURL: s.supportClaimURL(lic.Code),
			}
			return nil
		}

		act := models.DeviceActivationModel{
			LicenseID:         lic.ID,
			DeviceFingerprint: req.Fingerprint,
			DeviceName:        req.DeviceName,
			DeviceType:        req.DeviceType,
			IPAddress:         req.IPAddress,
			UserAgent:         req.UserAgent,
			IsActive:          true,
			LastUsedAt:        now,
		}
		if err := tx.Create(&act).Error; err != nil {
			return err
		}
		s.logger.Info("device activated",
			zap.String("license_id", lic.ID),
			zap.String("activation_id", act.ID),
			zap.String("category", string(category)))
		res = successResult(act.ID, lic.MaxDevices-activeDevices-1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func successResult(activationID string, remaining int) *ActivateResult {
	return &ActivateResult{
		Success:              true,
		ActivationID:         activationID,
		RemainingActivations: &remaining,
	}
}

func (s *Service) findLicense(tx *gorm.DB, code string) (*models.LicenseModel, error) {
	var lic models.LicenseModel
	err := tx.Where("code = ?", keygen.NormalizeCode(code)).First(&lic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

func (s *Service) countActive(tx *gorm.DB, licenseID string) (int, error) {
	var n int64
	err := tx.Model(&models.DeviceActivationModel{}).
		Where("license_id = ? AND is_active = ?", licenseID, true).
		Count(&n).Error
	return int(n), err
}

func (s *Service) supportClaimURL(code string) string {
	base := s.cfg.SupportBaseURL
	if base == "" {
		base = "/support/claims"
	}
	return base + "?license=" + url.QueryEscape(code)
}
