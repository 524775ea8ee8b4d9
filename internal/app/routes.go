package app

import (
	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/middleware"
	"github.com/inkvault/core/internal/modules/gateway/purchase"
	"github.com/inkvault/core/internal/modules/licensing/activation"
	"github.com/inkvault/core/internal/modules/licensing/claim"
	"github.com/inkvault/core/internal/modules/licensing/license"
	"github.com/inkvault/core/internal/modules/notify"
	"github.com/inkvault/core/internal/modules/system/health"
	pkgredis "github.com/inkvault/core/internal/pkg/redis"
	"github.com/inkvault/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client, dispatcher *notify.Dispatcher) {
	r := a.router
	db := a.db
	adminMW := middleware.AdminAuth(a.cfg.AdminToken)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting runs on every route; duplicate suppression exempts the
	// endpoints the admission engine already makes safe to retry.
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	licSvc := license.NewService(db, a.cfg.Licensing, dispatcher, a.logger)
	actSvc := activation.NewService(db, a.cfg.Licensing, activation.NewSubstringClassifier(), a.logger)
	claimSvc := claim.NewService(db, a.cfg.Licensing, dispatcher, a.logger)

	api := r.Group("/api/v1")

	health.RegisterRoutes(api, db)
	activation.NewHandler(actSvc).RegisterRoutes(api)
	license.NewHandler(licSvc).RegisterRoutes(api, adminMW)
	claim.NewHandler(claimSvc).RegisterRoutes(api, adminMW)
	purchase.NewHandler(licSvc, a.cfg.Gateway.WebhookSecret, a.logger).RegisterRoutes(api)
}
