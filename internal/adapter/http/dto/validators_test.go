package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bindJSON(t *testing.T, body string, dst interface{}) error {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(dst)
}

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateInvoiceRequest{
		DeviceID:    " DEV1 ",
		Description: "  Wash cycle  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "DEV1", req.DeviceID)
	assert.Equal(t, "Wash cycle", req.Description)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateInvoiceRequest{DeviceID: "<script>alert('x')</script>"}
	SanitizeStruct(&req)

	assert.Contains(t, req.DeviceID, "&lt;script&gt;")
	assert.NotContains(t, req.DeviceID, "<script>")
}

func TestSanitizeStruct_FreeTextIsOnlyTrimmed(t *testing.T) {
	guest := GuestPayRequest{
		InvoiceID: "pay_0123456789AB",
		GuestName: "  Tom & Jerry <3  ",
	}
	SanitizeStruct(&guest)
	assert.Equal(t, "Tom & Jerry <3", guest.GuestName)

	inv := CreateInvoiceRequest{Description: " Dry & fold "}
	SanitizeStruct(&inv)
	assert.Equal(t, "Dry & fold", inv.Description)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s)
}

// --- Custom validator tests ---

func TestDeviceID(t *testing.T) {
	valid := []string{"DEV1", "kiosk-07", "a.b_c", "X"}
	for _, tc := range valid {
		assert.True(t, IsDeviceID(tc), "expected valid: %s", tc)
	}

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	invalid := []string{"", "dev 1", "dev/1", "<dev>", string(long)}
	for _, tc := range invalid {
		assert.False(t, IsDeviceID(tc), "expected invalid: %q", tc)
	}
}

func TestPublicID(t *testing.T) {
	assert.True(t, IsPublicID("pay_0123456789AB"))
	assert.False(t, IsPublicID("pay_0123456789ab"))
	assert.False(t, IsPublicID("pay_0123456789A"))
	assert.False(t, IsPublicID("inv_0123456789AB"))
}

// --- Binding error mapping ---

func TestBindError_NamesJSONField(t *testing.T) {
	var req CreateInvoiceRequest
	err := bindJSON(t, `{"amount":"5.00","device_id":"bad id","duration_sec":120}`, &req)
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, "VAL_001", appErr.Code)
	assert.Contains(t, appErr.Message, "device_id")
}

func TestBindError_Required(t *testing.T) {
	var req AckRequest
	err := bindJSON(t, `{"secret":"s"}`, &req)
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, "command_id: is required", appErr.Message)
}

func TestBindError_MalformedJSON(t *testing.T) {
	var req GuestPayRequest
	err := bindJSON(t, `{"invoice_id":`, &req)
	require.Error(t, err)

	assert.Equal(t, "body: malformed JSON", BindError(err).Message)
}

func TestBind_GuestPayValid(t *testing.T) {
	var req GuestPayRequest
	require.NoError(t, bindJSON(t, `{"invoice_id":"pay_0123456789AB","guest_name":"Ana"}`, &req))
	assert.Equal(t, "Ana", req.GuestName)
}
