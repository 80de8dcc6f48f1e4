package handler

import (
	"kiosk-settlement/internal/adapter/http/middleware"
	redisStore "kiosk-settlement/internal/adapter/storage/redis"
	"kiosk-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	InvoiceSvc     ports.InvoiceService
	SettlementSvc  ports.SettlementService
	LedgerSvc      ports.LedgerService
	QueueSvc       ports.CommandQueueService
	IdentitySvc    ports.IdentityTokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService  // nil = audit logging disabled
	Gatherer       prometheus.Gatherer // nil = /metrics not exposed
	MaxBodyBytes   int64
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBody))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	jwtAuth := middleware.JWTAuth(deps.IdentitySvc, deps.Logger)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceSvc)
	invoices := v1.Group("/invoices")
	{
		invoices.POST("", rl("invoices_create"), invoiceHandler.Create)
		invoices.GET("/:public_id", rl("invoices_read"), invoiceHandler.Get)
		invoices.GET("/:public_id/status", rl("invoices_read"), invoiceHandler.Status)
		invoices.POST("/:public_id/cancel", jwtAuth, middleware.RequireRole(ports.RoleAdmin), rl("wallet"), invoiceHandler.Cancel)
	}

	walletHandler := NewWalletHandler(deps.LedgerSvc, deps.SettlementSvc)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/me", rl("wallet"), walletHandler.Me)
		wallet.POST("/topup", rl("wallet_topup"), walletHandler.Topup)
		wallet.POST("/pay", rl("wallet"), walletHandler.Pay)
	}

	payHandler := NewPayHandler(deps.SettlementSvc)
	v1.POST("/pay/guest", rl("pay_guest"), payHandler.Guest)

	deviceHandler := NewDeviceHandler(deps.QueueSvc, deps.InvoiceSvc)
	devices := v1.Group("/devices/:device_id")
	{
		devices.GET("/next", rl("device"), deviceHandler.Poll)
		devices.POST("/ack", rl("device"), deviceHandler.Ack)
		devices.GET("/latest-invoice", rl("device"), deviceHandler.LatestInvoice)
	}

	return r
}
