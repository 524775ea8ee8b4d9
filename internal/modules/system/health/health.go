package health

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/pkg/response"
	"gorm.io/gorm"
)

var processStart = time.Now()

// RegisterRoutes exposes the liveness endpoint.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	rg.GET("/health", func(c *gin.Context) {
		dbOK := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbOK = false
		}
		response.OK(c, gin.H{
			"status":   "ok",
			"database": dbOK,
			"uptime":   time.Since(processStart).Round(time.Second).String(),
		})
	})
}
