package service

import (
	"testing"
	"time"

	"kiosk-settlement/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func signIdentityToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenStr
}

func validIdentityClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "acct-42",
		"username": "alice",
		"iss":      "kiosk-identity",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTIdentityService_Validate(t *testing.T) {
	svc := NewJWTIdentityService(testJWTSecret, "kiosk-identity")

	claims, err := svc.Validate(signIdentityToken(t, testJWTSecret, validIdentityClaims()))
	require.NoError(t, err)
	assert.Equal(t, "acct-42", claims.AccountID)
	assert.Equal(t, "alice", claims.Username)
	assert.Empty(t, claims.Role)
}

func TestJWTIdentityService_Validate_Role(t *testing.T) {
	svc := NewJWTIdentityService(testJWTSecret, "kiosk-identity")

	withRole := validIdentityClaims()
	withRole["role"] = ports.RoleAdmin
	claims, err := svc.Validate(signIdentityToken(t, testJWTSecret, withRole))
	require.NoError(t, err)
	assert.Equal(t, ports.RoleAdmin, claims.Role)

	nonString := validIdentityClaims()
	nonString["role"] = []string{"admin"}
	claims, err = svc.Validate(signIdentityToken(t, testJWTSecret, nonString))
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestJWTIdentityService_Rejects(t *testing.T) {
	svc := NewJWTIdentityService(testJWTSecret, "kiosk-identity")

	expired := validIdentityClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noExp := validIdentityClaims()
	delete(noExp, "exp")

	wrongIssuer := validIdentityClaims()
	wrongIssuer["iss"] = "someone-else"

	noSubject := validIdentityClaims()
	delete(noSubject, "sub")

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signIdentityToken(t, testJWTSecret, expired)},
		{"missing exp", signIdentityToken(t, testJWTSecret, noExp)},
		{"wrong issuer", signIdentityToken(t, testJWTSecret, wrongIssuer)},
		{"missing subject", signIdentityToken(t, testJWTSecret, noSubject)},
		{"wrong secret", signIdentityToken(t, "other-secret", validIdentityClaims())},
		{"garbage", "not.a.valid.jwt"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTIdentityService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTIdentityService(testJWTSecret, "")

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validIdentityClaims()).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTIdentityService_NoIssuerCheck(t *testing.T) {
	svc := NewJWTIdentityService(testJWTSecret, "")

	claims := validIdentityClaims()
	claims["iss"] = "anyone"

	_, err := svc.Validate(signIdentityToken(t, testJWTSecret, claims))
	assert.NoError(t, err)
}

func TestJWTIdentityService_Unconfigured(t *testing.T) {
	svc := NewJWTIdentityService("", "")

	_, err := svc.Validate(signIdentityToken(t, testJWTSecret, validIdentityClaims()))
	assert.Error(t, err)
}
