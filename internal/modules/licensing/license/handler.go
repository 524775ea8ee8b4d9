package license

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/pkg/pagination"
	"github.com/inkvault/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.GET("/licenses/download", h.download)

	a := rg.Group("/admin", adminMW)
	a.GET("/licenses", h.list)
	a.GET("/licenses/:id", h.get)
	a.PUT("/licenses/:id", h.update)
	a.POST("/licenses/:id/revoke", h.revoke)
	a.POST("/licenses/:id/unrevoke", h.unrevoke)
	a.GET("/licenses/:id/devices", h.devices)
	a.POST("/devices/:id/deactivate", h.deactivateDevice)
}

// GET /licenses/download?token=...
func (h *Handler) download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token is required")
		return
	}
	lic, err := h.svc.ResolveDownloadToken(token)
	if err != nil {
		response.NotFoundMsg(c, "this link is invalid or has expired")
		return
	}
	response.OK(c, toResponse(lic))
}

// GET /admin/licenses  [admin]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]licenseResponse, len(items))
	for i, l := range items {
		out[i] = toResponse(&l)
	}
	response.Paged(c, out, pag)
}

// GET /admin/licenses/:id  [admin]
func (h *Handler) get(c *gin.Context) {
	lic, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if lic == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(lic))
}

// PUT /admin/licenses/:id  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateLicenseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	lic, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if lic == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(lic))
}

// POST /admin/licenses/:id/revoke  [admin]
func (h *Handler) revoke(c *gin.Context) {
	h.setRevoked(c, true)
}

// POST /admin/licenses/:id/unrevoke  [admin]
func (h *Handler) unrevoke(c *gin.Context) {
	h.setRevoked(c, false)
}

func (h *Handler) setRevoked(c *gin.Context, revoked bool) {
	err := h.svc.SetRevoked(c.Param("id"), revoked)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /admin/licenses/:id/devices  [admin]
func (h *Handler) devices(c *gin.Context) {
	items, err := h.svc.Devices(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /admin/devices/:id/deactivate  [admin]
func (h *Handler) deactivateDevice(c *gin.Context) {
	err := h.svc.DeactivateDevice(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFoundMsg(c, "no active device with that id")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
