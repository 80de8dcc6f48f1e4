package handler

import (
	"kiosk-settlement/internal/adapter/http/dto"
	"kiosk-settlement/internal/adapter/http/middleware"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/apperror"
	"kiosk-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry a top-up without crediting twice.
const HeaderIdempotencyKey = "Idempotency-Key"

// WalletHandler handles the authenticated payer's wallet endpoints.
type WalletHandler struct {
	ledgerSvc     ports.LedgerService
	settlementSvc ports.SettlementService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService, settlementSvc ports.SettlementService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc, settlementSvc: settlementSvc}
}

// Me handles GET /api/v1/wallet/me.
func (h *WalletHandler) Me(c *gin.Context) {
	accountID := middleware.AccountID(c)
	if accountID == "" {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	overview, err := h.ledgerSvc.GetWallet(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToWalletResponse(overview))
}

// Topup handles POST /api/v1/wallet/topup.
func (h *WalletHandler) Topup(c *gin.Context) {
	accountID := middleware.AccountID(c)
	if accountID == "" {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.ledgerSvc.TopUp(c.Request.Context(), ports.TopupRequest{
		AccountID:      accountID,
		Preset:         req.Preset,
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, accountID)
	response.Created(c, dto.ToTopupResponse(result))
}

// Pay handles POST /api/v1/wallet/pay.
func (h *WalletHandler) Pay(c *gin.Context) {
	accountID := middleware.AccountID(c)
	if accountID == "" {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.WalletPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	c.Set(middleware.CtxResourceID, req.InvoiceID)
	receipt, err := h.settlementSvc.PayWithWallet(c.Request.Context(), req.InvoiceID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToReceiptResponse(receipt))
}
