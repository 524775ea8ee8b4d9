package claim

import (
	"errors"
	"strings"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/models"
	"github.com/inkvault/core/internal/modules/notify"
	"github.com/inkvault/core/internal/pkg/keygen"
	"github.com/inkvault/core/internal/pkg/pagination"
	"github.com/inkvault/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service turns a refused or broken activation into a durable, human-tracked
// claim. Persisting the claim is the contract; alerting the operator is
// best-effort on top.
type Service struct {
	db     *gorm.DB
	cfg    config.LicensingConfig
	sink   notify.Sink
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfg config.LicensingConfig, sink notify.Sink, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, sink: sink, logger: logger.Named("claim")}
}

// Create persists a claim and returns it with its claim number assigned.
func (s *Service) Create(dto *CreateClaimDTO) (*models.SupportClaimModel, error) {
	cl := models.SupportClaimModel{
		LicenseCode:  keygen.NormalizeCode(dto.LicenseCode),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		CustomerName: strings.TrimSpace(dto.CustomerName),
		ClaimType:    dto.ClaimType,
		Subject:      dto.Subject,
		Message:      dto.Message,
		DeviceInfo:   dto.DeviceInfo,
	}

	// Cross-reference the license when the code resolves; an unknown code is
	// not an error, the raw string is kept for the operator.
	if cl.LicenseCode != "" {
		var lic models.LicenseModel
		err := s.db.Where("code = ?", cl.LicenseCode).First(&lic).Error
		if err == nil {
			cl.LicenseID = lic.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Claim numbers carry only four random digits per day, so a collision is
	// realistic under load; one regeneration is enough in practice.
	for attempt := 0; attempt < 2; attempt++ {
		num, err := keygen.ClaimNumber(s.cfg.ClaimPrefix)
		if err != nil {
			return nil, err
		}
		cl.ClaimNumber = num

		err = s.db.Create(&cl).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			continue
		}
		return nil, err
	}

	s.logger.Info("support claim created",
		zap.String("claim_number", cl.ClaimNumber),
		zap.String("claim_type", cl.ClaimType))

	s.sink.Send(notify.KindClaimAlert, s.cfg.OperatorEmail, notify.ClaimMailData{
		ClaimNumber:  cl.ClaimNumber,
		Email:        cl.Email,
		CustomerName: cl.CustomerName,
		ClaimType:    cl.ClaimType,
		Subject:      cl.Subject,
		Message:      cl.Message,
		LicenseCode:  cl.LicenseCode,
		DeviceInfo:   cl.DeviceInfo,
	})

	return &cl, nil
}

// List returns claims for the admin surface, newest first, optionally
// filtered by type.
func (s *Service) List(q pagination.Query, claimType *string) ([]models.SupportClaimModel, response.Pagination, error) {
	tx := s.db.Model(&models.SupportClaimModel{}).Order("created_at DESC")
	if claimType != nil {
		tx = tx.Where("claim_type = ?", *claimType)
	}
	var items []models.SupportClaimModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}
