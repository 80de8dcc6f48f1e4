package handler

import (
	"kiosk-settlement/internal/adapter/http/dto"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderDeviceSecret is accepted in place of the ?secret= query parameter.
const HeaderDeviceSecret = "X-Device-Secret"

// DeviceHandler serves the endpoints polled by kiosk firmware. Poll and ack
// bodies are flat JSON, not the standard envelope.
type DeviceHandler struct {
	queueSvc   ports.CommandQueueService
	invoiceSvc ports.InvoiceService
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(queueSvc ports.CommandQueueService, invoiceSvc ports.InvoiceService) *DeviceHandler {
	return &DeviceHandler{queueSvc: queueSvc, invoiceSvc: invoiceSvc}
}

func deviceSecret(c *gin.Context) string {
	if s := c.Query("secret"); s != "" {
		return s
	}
	return c.GetHeader(HeaderDeviceSecret)
}

// Poll handles GET /api/v1/devices/:device_id/next.
func (h *DeviceHandler) Poll(c *gin.Context) {
	cmd, err := h.queueSvc.PollNext(c.Request.Context(), c.Param("device_id"), deviceSecret(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Device(c, dto.ToPollResponse(cmd))
}

// Ack handles POST /api/v1/devices/:device_id/ack.
func (h *DeviceHandler) Ack(c *gin.Context) {
	var req dto.AckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	secret := req.Secret
	if secret == "" {
		secret = deviceSecret(c)
	}

	if err := h.queueSvc.Acknowledge(c.Request.Context(), c.Param("device_id"), secret, req.CommandID); err != nil {
		response.Error(c, err)
		return
	}
	response.Device(c, dto.AckResponse{OK: true})
}

// LatestInvoice handles GET /api/v1/devices/:device_id/latest-invoice.
// only_pending=1 hides invoices that can no longer be paid.
func (h *DeviceHandler) LatestInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("device_id")

	if _, err := h.queueSvc.AuthenticateDevice(ctx, deviceID, deviceSecret(c)); err != nil {
		response.Error(c, err)
		return
	}

	onlyPending := c.Query("only_pending") == "1" || c.Query("only_pending") == "true"
	latest, err := h.invoiceSvc.LatestForDevice(ctx, deviceID, onlyPending)
	if err != nil {
		response.Error(c, err)
		return
	}
	if latest == nil {
		response.Device(c, dto.LatestInvoiceResponse{HasInvoice: false})
		return
	}

	inv := dto.ToInvoiceResponse(latest.Invoice)
	response.Device(c, dto.LatestInvoiceResponse{
		HasInvoice: true,
		Invoice:    &inv,
		PayURL:     latest.PayURL,
		Token:      latest.Token,
	})
}
