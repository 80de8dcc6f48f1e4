package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kiosk-settlement/internal/adapter/http/handler"
	"kiosk-settlement/internal/adapter/storage/memory"
	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/service"
	"kiosk-settlement/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	audits *memory.AuditRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()
	store := memory.NewStore()

	wallets := memory.NewWalletRepo(store)
	wtxs := memory.NewWalletTransactionRepo(store)
	invoices := memory.NewInvoiceRepo(store)
	settlements := memory.NewSettlementRepo(store)
	devices := memory.NewDeviceRepo(store)
	commands := memory.NewCommandRepo(store)
	audits := memory.NewAuditRepo(store)

	devices.Register(&domain.Device{ID: "DEV1", Secret: "s3cret", IsActive: true, CreatedAt: time.Now().UTC()})

	tokens, err := service.NewHMACCapabilityTokenService("router-test-secret")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewSettlementMetrics(reg)

	ledger := service.NewLedgerService(wallets, wtxs, store, memory.NewIdempotencyRepo(store), nil, m, service.LedgerConfig{
		MinTopup: decimal.RequireFromString("1.00"),
		MaxTopup: decimal.RequireFromString("500.00"),
		Presets:  []int{5, 10, 20},
	}, log)
	queue := service.NewCommandQueueService(devices, commands, store, m, service.CommandQueueConfig{RequireSecret: true}, log)
	invoiceSvc := service.NewInvoiceService(invoices, devices, store, tokens, service.InvoiceConfig{
		TTL:        15 * time.Minute,
		TokenTTL:   time.Minute,
		PayURLBase: "http://kiosk.test/pay",
	}, log)
	settle := service.NewSettlementService(invoices, settlements, devices, ledger, queue, tokens, store, nil, m,
		service.SettlementConfig{}, log)

	r := handler.SetupRouter(handler.RouterDeps{
		InvoiceSvc:     invoiceSvc,
		SettlementSvc:  settle,
		LedgerSvc:      ledger,
		QueueSvc:       queue,
		IdentitySvc:    service.NewJWTIdentityService("jwt-secret", "kiosk-identity"),
		HealthCheckers: nil,
		AuditSvc:       service.NewAuditService(audits, log),
		Gatherer:       reg,
		Logger:         log,
	})
	return &testServer{router: r, store: store, audits: audits}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return s.doAuth(t, method, target, "", body)
}

func (s *testServer) doAuth(t *testing.T, method, target, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func identityToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"iss": "kiosk-identity",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	return tokenStr
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "no data in %s", w.Body.String())
	return d
}

func TestRouter_GuestPayActivatesDevice(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"amount": "5.00", "device_id": "DEV1", "duration_sec": 120,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data(t, w)
	inv := created["invoice"].(map[string]interface{})
	pid := inv["public_id"].(string)
	token := created["token"].(string)
	assert.Regexp(t, `^pay_[0-9A-F]{12}$`, pid)
	assert.True(t, strings.HasPrefix(created["pay_url"].(string), "http://kiosk.test/pay/"+pid+"?t="))

	w = s.do(t, http.MethodGet, "/api/v1/invoices/"+pid+"?t="+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PENDING", data(t, w)["status"])

	w = s.do(t, http.MethodGet, "/api/v1/invoices/"+pid+"?t=garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/devices/DEV1/latest-invoice?only_pending=1&secret=s3cret", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var latest map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, true, latest["has_invoice"])

	w = s.do(t, http.MethodPost, "/api/v1/pay/guest", map[string]string{
		"invoice_id": pid, "guest_name": "Ana", "token": token,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	receipt := data(t, w)
	assert.Equal(t, "PAID", receipt["status"])
	assert.Regexp(t, `^RCPT-`, receipt["paid_reference"])

	w = s.do(t, http.MethodPost, "/api/v1/pay/guest", map[string]string{"invoice_id": pid, "token": token})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/invoices/"+pid+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", data(t, w)["status"])

	w = s.do(t, http.MethodGet, "/api/v1/devices/DEV1/next?secret=s3cret", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var poll map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &poll))
	assert.Equal(t, true, poll["hasCommand"])
	assert.Equal(t, float64(1), poll["action"])
	assert.Equal(t, float64(120), poll["durationSec"])

	w = s.do(t, http.MethodGet, "/api/v1/devices/DEV1/next?secret=s3cret", nil)
	assert.JSONEq(t, `{"hasCommand":false}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/devices/DEV1/ack", map[string]interface{}{
		"command_id": poll["commandId"], "secret": "s3cret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/devices/DEV1/latest-invoice?only_pending=1&secret=s3cret", nil)
	assert.JSONEq(t, `{"has_invoice":false}`, w.Body.String())

	// audit entries are persisted asynchronously
	require.Eventually(t, func() bool { return len(s.audits.Entries()) == 3 }, time.Second, 10*time.Millisecond)
	actions := make([]domain.AuditAction, 0, 3)
	for _, e := range s.audits.Entries() {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []domain.AuditAction{
		domain.AuditActionInvoiceCreate,
		domain.AuditActionGuestPay,
		domain.AuditActionDeviceAck,
	}, actions)
}

func TestRouter_WalletRoutesRequireBearer(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/wallet/me"},
		{http.MethodPost, "/api/v1/wallet/topup"},
		{http.MethodPost, "/api/v1/wallet/pay"},
		{http.MethodPost, "/api/v1/invoices/pay_0123456789AB/cancel"},
	} {
		w := s.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_CancelRequiresAdminRole(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"amount": "5.00", "device_id": "DEV1", "duration_sec": 120,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pid := data(t, w)["invoice"].(map[string]interface{})["public_id"].(string)
	cancelPath := "/api/v1/invoices/" + pid + "/cancel"

	w = s.doAuth(t, http.MethodPost, cancelPath, identityToken(t, "random-payer", ""), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")

	w = s.do(t, http.MethodGet, "/api/v1/invoices/"+pid+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PENDING", data(t, w)["status"])

	w = s.doAuth(t, http.MethodPost, cancelPath, identityToken(t, "operator-1", "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CANCELLED", data(t, w)["status"])
}

func TestRouter_GuestNameAtLimitWithMarkup(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"amount": "1.00", "device_id": "DEV1", "duration_sec": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pid := data(t, w)["invoice"].(map[string]interface{})["public_id"].(string)

	name := strings.Repeat("&", 50) + strings.Repeat("<", 50)
	w = s.do(t, http.MethodPost, "/api/v1/pay/guest", map[string]interface{}{
		"invoice_id": pid, "guest_name": name,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	records, err := memory.NewSettlementRepo(s.store).ListByInvoice(context.Background(), pid)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, name, records[0].GuestName)

	w = s.do(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"amount": "1.00", "device_id": "DEV1", "duration_sec": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	pid = data(t, w)["invoice"].(map[string]interface{})["public_id"].(string)
	w = s.do(t, http.MethodPost, "/api/v1/pay/guest", map[string]interface{}{
		"invoice_id": pid, "guest_name": name + "&",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_DeviceRejectsWrongSecret(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/devices/DEV1/next?secret=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/devices/NOPE/next?secret=s3cret", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	s.do(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"amount": "1.00", "device_id": "DEV1", "duration_sec": 60,
	})

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
