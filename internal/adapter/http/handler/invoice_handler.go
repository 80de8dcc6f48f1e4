package handler

import (
	"kiosk-settlement/internal/adapter/http/dto"
	"kiosk-settlement/internal/adapter/http/middleware"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceSvc ports.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceSvc ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceSvc: invoiceSvc}
}

// Create handles POST /api/v1/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	created, err := h.invoiceSvc.Create(c.Request.Context(), ports.CreateInvoiceRequest{
		Amount:      req.Amount,
		Description: req.Description,
		DeviceID:    req.DeviceID,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, created.Invoice.PublicID)
	response.Created(c, dto.ToCreatedInvoiceResponse(created))
}

// Get handles GET /api/v1/invoices/:public_id?t=<token>.
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.invoiceSvc.GetWithToken(c.Request.Context(), c.Param("public_id"), c.Query("t"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToInvoiceResponse(inv))
}

// Status handles GET /api/v1/invoices/:public_id/status.
func (h *InvoiceHandler) Status(c *gin.Context) {
	inv, err := h.invoiceSvc.GetStatus(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToInvoiceStatusResponse(inv))
}

// Cancel handles POST /api/v1/invoices/:public_id/cancel.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	inv, err := h.invoiceSvc.Cancel(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToInvoiceResponse(inv))
}
