package claim

import (
	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/pkg/pagination"
	"github.com/inkvault/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.POST("/support/claims", h.create)

	a := rg.Group("/admin", adminMW)
	a.GET("/claims", h.list)
}

// POST /support/claims
func (h *Handler) create(c *gin.Context) {
	var dto CreateClaimDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cl, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{
		"success":      true,
		"claim_number": cl.ClaimNumber,
	})
}

// GET /admin/claims?type=device_limit  [admin]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var typeFilter *string
	if t := c.Query("type"); t != "" {
		typeFilter = &t
	}

	items, pag, err := h.svc.List(q, typeFilter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}
