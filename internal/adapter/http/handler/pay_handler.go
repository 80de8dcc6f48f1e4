package handler

import (
	"kiosk-settlement/internal/adapter/http/dto"
	"kiosk-settlement/internal/adapter/http/middleware"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// PayHandler handles anonymous payments.
type PayHandler struct {
	settlementSvc ports.SettlementService
}

// NewPayHandler creates a new PayHandler.
func NewPayHandler(settlementSvc ports.SettlementService) *PayHandler {
	return &PayHandler{settlementSvc: settlementSvc}
}

// Guest handles POST /api/v1/pay/guest. The token may also be passed as ?t=,
// which is how the pay link carries it.
func (h *PayHandler) Guest(c *gin.Context) {
	var req dto.GuestPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	token := req.Token
	if token == "" {
		token = c.Query("t")
	}

	c.Set(middleware.CtxResourceID, req.InvoiceID)
	receipt, err := h.settlementSvc.PayAsGuest(c.Request.Context(), req.InvoiceID, req.GuestName, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToReceiptResponse(receipt))
}
