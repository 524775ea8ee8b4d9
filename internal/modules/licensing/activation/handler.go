package activation

import (
	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/licenses")
	g.POST("/validate", h.validate)
	g.POST("/activate", h.activate)
}

// POST /licenses/validate
func (h *Handler) validate(c *gin.Context) {
	var dto ValidateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Validate(dto.Code)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}

// POST /licenses/activate
func (h *Handler) activate(c *gin.Context) {
	var dto ActivateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userAgent := dto.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	result, err := h.svc.Activate(ActivateRequest{
		Code:        dto.Code,
		Fingerprint: dto.Fingerprint,
		DeviceName:  dto.DeviceName,
		DeviceType:  dto.DeviceType,
		IPAddress:   c.ClientIP(),
		UserAgent:   userAgent,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
