package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records every successful write operation after the handler ran.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var actorID *string
		if acct := AccountID(c); acct != "" {
			actorID = &acct
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID(c),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

// resourceID prefers what the handler recorded, then the route parameters.
func resourceID(c *gin.Context) string {
	if id := c.GetString(CtxResourceID); id != "" {
		return id
	}
	if id := c.Param("public_id"); id != "" {
		return id
	}
	return c.Param("device_id")
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/invoices":
		return domain.AuditActionInvoiceCreate, "invoice"
	case "/api/v1/invoices/:public_id/cancel":
		return domain.AuditActionInvoiceCancel, "invoice"
	case "/api/v1/wallet/pay":
		return domain.AuditActionWalletPay, "invoice"
	case "/api/v1/pay/guest":
		return domain.AuditActionGuestPay, "invoice"
	case "/api/v1/wallet/topup":
		return domain.AuditActionTopup, "wallet"
	case "/api/v1/devices/:device_id/ack":
		return domain.AuditActionDeviceAck, "device_command"
	}
	return "", ""
}
