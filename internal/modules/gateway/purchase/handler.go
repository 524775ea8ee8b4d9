package purchase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/modules/licensing/license"
	"github.com/inkvault/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler receives payment-completed webhooks and turns them into licenses.
type Handler struct {
	licSvc *license.Service
	secret string
	logger *zap.Logger
}

func NewHandler(licSvc *license.Service, secret string, logger *zap.Logger) *Handler {
	return &Handler{licSvc: licSvc, secret: secret, logger: logger.Named("purchase")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/gateway/purchase", h.receive)
}

// POST /gateway/purchase
func (h *Handler) receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "unreadable body")
		return
	}

	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		h.logger.Warn("purchase webhook rejected: bad signature", zap.String("ip", c.ClientIP()))
		response.Unauthorized(c)
		return
	}

	var evt purchaseEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}
	if evt.EventID == "" || evt.Email == "" {
		response.UnprocessableEntity(c, "event_id and email are required")
		return
	}

	lic, created, err := h.licSvc.Issue(&license.IssueLicenseDTO{
		Email:        evt.Email,
		CustomerName: evt.CustomerName,
		PurchaseRef:  evt.EventID,
		AmountPaid:   evt.Amount,
		Currency:     evt.Currency,
		PurchasedAt:  evt.PurchasedAt,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"received": true,
		"created":  created,
		"code":     lic.Code,
	})
}

// verifySignature checks the hex HMAC-SHA256 of the raw body. A "sha256="
// prefix on the header value is tolerated.
func (h *Handler) verifySignature(body []byte, header string) bool {
	if h.secret == "" || header == "" {
		return false
	}
	presented := strings.TrimPrefix(strings.TrimSpace(header), "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(presented), []byte(expected))
}
