package app

import (
	"context"
	"time"

	"github.com/inkvault/core/internal/config"
	"github.com/inkvault/core/internal/modules/notify"
	pkgcron "github.com/inkvault/core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, cfg *config.AppConfig, dispatcher *notify.Dispatcher, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "daily_summary",
		Description: "mail the operator a summary of licenses, activations and claims",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			operator := cfg.Licensing.OperatorEmail
			if operator == "" {
				return nil
			}
			data, err := notify.BuildDailySummary(db, time.Now().Add(-24*time.Hour))
			if err != nil {
				cronLogger.Warn("daily summary aggregation failed", zap.Error(err))
				return err
			}
			dispatcher.Send(notify.KindDailySummary, operator, data)
			cronLogger.Info("daily summary dispatched",
				zap.Int64("licenses_issued", data.LicensesIssued),
				zap.Int64("devices_activated", data.DevicesActivated),
				zap.Int64("claims_opened", data.ClaimsOpened))
			return nil
		},
	})
}
