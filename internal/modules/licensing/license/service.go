package license

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/models"
	"github.com/inkvault/core/internal/modules/notify"
	"github.com/inkvault/core/internal/pkg/jwt"
	"github.com/inkvault/core/internal/pkg/keygen"
	"github.com/inkvault/core/internal/pkg/pagination"
	"github.com/inkvault/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the license store accessor.
type Service struct {
	db     *gorm.DB
	cfg    config.LicensingConfig
	sink   notify.Sink
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfg config.LicensingConfig, sink notify.Sink, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, sink: sink, logger: logger.Named("license")}
}

// Issue creates at most one license per purchase event. Repeated delivery of
// the same event returns the already-issued license without side effects.
// The confirmation email (code + magic link) goes out only on first issue and
// is strictly best-effort.
func (s *Service) Issue(dto *IssueLicenseDTO) (*models.LicenseModel, bool, error) {
	var existing models.LicenseModel
	err := s.db.Where("purchase_ref = ?", dto.PurchaseRef).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	purchasedAt := dto.PurchasedAt
	if purchasedAt.IsZero() {
		purchasedAt = time.Now()
	}

	lic := models.LicenseModel{
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		CustomerName: strings.TrimSpace(dto.CustomerName),
		PurchaseRef:  dto.PurchaseRef,
		AmountPaid:   dto.AmountPaid,
		Currency:     strings.ToUpper(dto.Currency),
		MaxDevices:   s.cfg.MaxDevices,
		IsActive:     true,
		PurchasedAt:  purchasedAt,
	}

	// Codes are random, not sequential, so a unique-index collision is
	// possible in principle; one regeneration covers it.
	for attempt := 0; attempt < 2; attempt++ {
		code, err := keygen.LicenseCode()
		if err != nil {
			return nil, false, err
		}
		lic.Code = code

		err = s.db.Create(&lic).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either the code collided or a concurrent delivery of the same
			// purchase event won the race; check which.
			var concurrent models.LicenseModel
			if lookupErr := s.db.Where("purchase_ref = ?", dto.PurchaseRef).
				First(&concurrent).Error; lookupErr == nil {
				return &concurrent, false, nil
			}
			if attempt == 0 {
				continue
			}
		}
		return nil, false, err
	}

	s.logger.Info("license issued",
		zap.String("license_id", lic.ID),
		zap.String("purchase_ref", lic.PurchaseRef))
	s.sendConfirmation(&lic)
	return &lic, true, nil
}

func (s *Service) sendConfirmation(lic *models.LicenseModel) {
	downloadURL, err := s.DownloadURL(lic.Code)
	if err != nil {
		s.logger.Warn("signing download link failed", zap.Error(err))
	}
	amountLabel := ""
	if lic.AmountPaid > 0 {
		amountLabel = fmt.Sprintf("%.2f %s", float64(lic.AmountPaid)/100, lic.Currency)
	}
	s.sink.Send(notify.KindPurchaseConfirmation, lic.Email, notify.PurchaseMailData{
		CustomerName: lic.CustomerName,
		LicenseCode:  lic.Code,
		DownloadURL:  downloadURL,
		MaxDevices:   lic.MaxDevices,
		AmountLabel:  amountLabel,
	})
}

// DownloadURL signs a magic activation link for the given code.
func (s *Service) DownloadURL(code string) (string, error) {
	token, err := jwt.Sign(code, s.cfg.LinkTTL())
	if err != nil {
		return "", err
	}
	base := strings.TrimRight(s.cfg.WebBaseURL, "/")
	return base + "/api/v1/licenses/download?token=" + token, nil
}

// GetByCode looks a license up case-insensitively; storage is canonical
// uppercase. Returns (nil, nil) when the code does not resolve.
func (s *Service) GetByCode(code string) (*models.LicenseModel, error) {
	var lic models.LicenseModel
	err := s.db.Where("code = ?", keygen.NormalizeCode(code)).First(&lic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

// ResolveDownloadToken verifies a magic-link token and returns its license.
func (s *Service) ResolveDownloadToken(token string) (*models.LicenseModel, error) {
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	lic, err := s.GetByCode(claims.LicenseCode)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, fmt.Errorf("license no longer exists")
	}
	return lic, nil
}

func (s *Service) GetByID(id string) (*models.LicenseModel, error) {
	var lic models.LicenseModel
	err := s.db.First(&lic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

func (s *Service) List(q pagination.Query) ([]models.LicenseModel, response.Pagination, error) {
	tx := s.db.Model(&models.LicenseModel{}).Order("created_at DESC")
	var items []models.LicenseModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// SetRevoked flips the revocation flag; the activation history stays intact.
func (s *Service) SetRevoked(id string, revoked bool) error {
	result := s.db.Model(&models.LicenseModel{}).Where("id = ?", id).
		Update("is_revoked", revoked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update applies admin mutations (activity flag, advertised device count).
func (s *Service) Update(id string, dto *UpdateLicenseDTO) (*models.LicenseModel, error) {
	lic, err := s.GetByID(id)
	if err != nil || lic == nil {
		return lic, err
	}
	updates := map[string]interface{}{}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if dto.MaxDevices != nil && *dto.MaxDevices > 0 {
		updates["max_devices"] = *dto.MaxDevices
	}
	if len(updates) == 0 {
		return lic, nil
	}
	return lic, s.db.Model(lic).Updates(updates).Error
}

// Devices lists every activation ever seen for a license, newest first.
func (s *Service) Devices(licenseID string) ([]models.DeviceActivationModel, error) {
	var items []models.DeviceActivationModel
	err := s.db.Where("license_id = ?", licenseID).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

// DeactivateDevice frees a seat. The row is kept: a returning fingerprint
// reactivates it rather than creating a new one.
func (s *Service) DeactivateDevice(activationID string) error {
	now := time.Now()
	result := s.db.Model(&models.DeviceActivationModel{}).
		Where("id = ? AND is_active = ?", activationID, true).
		Updates(map[string]interface{}{
			"is_active":      false,
			"deactivated_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
