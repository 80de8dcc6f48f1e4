package service

import (
	"errors"
	"fmt"

	"kiosk-settlement/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// JWTIdentityService implements ports.IdentityTokenService for HS256 bearer
// tokens minted by the external identity service. It never issues tokens.
type JWTIdentityService struct {
	secret []byte
	issuer string
}

// NewJWTIdentityService creates a validator. An empty issuer disables the iss check.
func NewJWTIdentityService(secret string, issuer string) *JWTIdentityService {
	return &JWTIdentityService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Validate parses and validates a bearer token, returning the payer identity.
func (s *JWTIdentityService) Validate(tokenString string) (*ports.IdentityClaims, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("identity validation is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &ports.IdentityClaims{
		AccountID: sub,
		Username:  username,
		Role:      role,
	}, nil
}
