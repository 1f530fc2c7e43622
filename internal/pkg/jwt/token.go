package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/fraudguard/internal/pkg/models"
)

// ContextKey is the echo context key holding the *Claims of an
// authenticated request
const ContextKey = "session_claims"

var (
	// ErrSecretNotConfigured is returned when no signing secret is set
	ErrSecretNotConfigured = errors.New("jwt secret is not configured")
	// ErrTokenExpired is returned for a well-signed token past its expiry
	ErrTokenExpired = errors.New("token is expired")
)

// Claims represents the session token issued after a successful verification
type Claims struct {
	SessionID   string `json:"session_id"`
	MaskedPhone string `json:"masked_phone"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for a verified phone number. Only the
// masked form of the number is embedded.
func GenerateToken(sessionID, maskedPhone string, now time.Time, cfg *models.Config) (string, int64, error) {
	if cfg.JWT.Secret == "" {
		return "", 0, ErrSecretNotConfigured
	}

	expirationTime := now.Add(time.Duration(cfg.JWT.Expiration) * time.Minute)

	claims := Claims{
		SessionID:   sessionID,
		MaskedPhone: maskedPhone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWT.Issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

// ValidateToken checks the signature of a session token and its expiry
// against now, and returns its claims
func ValidateToken(tokenString string, secret string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
