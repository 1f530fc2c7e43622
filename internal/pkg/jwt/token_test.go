package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() *models.Config {
	return &models.Config{
		JWT: models.JWTConfig{
			Secret:     "test-secret-key-for-jwt-signing",
			Expiration: 60, // 60 minutes
			Issuer:     "fraudguard-test",
		},
	}
}

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name        string
		sessionID   string
		maskedPhone string
		config      *models.Config
		expectError bool
	}{
		{
			name:        "Valid token generation",
			sessionID:   "6f1c2d2e-8c1b-4a7e-9f55-0d3c1b2a4e5f",
			maskedPhone: "555****567",
			config:      getTestConfig(),
		},
		{
			name:        "Empty masked phone",
			sessionID:   "6f1c2d2e-8c1b-4a7e-9f55-0d3c1b2a4e5f",
			maskedPhone: "",
			config:      getTestConfig(),
		},
		{
			name:        "Missing secret",
			sessionID:   "6f1c2d2e-8c1b-4a7e-9f55-0d3c1b2a4e5f",
			maskedPhone: "555****567",
			config:      &models.Config{JWT: models.JWTConfig{Expiration: 60}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			token, expiresAt, err := GenerateToken(tt.sessionID, tt.maskedPhone, now, tt.config)

			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, now.Add(60*time.Minute).Unix(), expiresAt)

			claims, err := ValidateToken(token, tt.config.JWT.Secret, now)
			require.NoError(t, err)
			assert.Equal(t, tt.sessionID, claims.SessionID)
			assert.Equal(t, tt.sessionID, claims.Subject)
			assert.Equal(t, tt.maskedPhone, claims.MaskedPhone)
			assert.Equal(t, tt.config.JWT.Issuer, claims.Issuer)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("sid", "555****567", time.Now(), getTestConfig())
	require.NoError(t, err)

	claims, err := ValidateToken(token, "another-secret", time.Now())
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_ExpiryUsesGivenTime(t *testing.T) {
	cfg := getTestConfig()
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	token, _, err := GenerateToken("sid", "555****567", issuedAt, cfg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"Right after issue", issuedAt.Add(time.Minute), nil},
		{"Just before expiry", issuedAt.Add(59 * time.Minute), nil},
		{"After expiry", issuedAt.Add(61 * time.Minute), ErrTokenExpired},
		{"Long after expiry", time.Now(), ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(token, cfg.JWT.Secret, tt.now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sid", claims.SessionID)
		})
	}
}

func TestValidateToken_MissingExpiry(t *testing.T) {
	cfg := getTestConfig()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{SessionID: "sid"})
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = ValidateToken(signed, cfg.JWT.Secret, time.Now())
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_RejectsOtherSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "sid"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(signed, getTestConfig().JWT.Secret, time.Now())
	assert.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	_, err := ValidateToken("not.a.token", getTestConfig().JWT.Secret, time.Now())
	assert.Error(t, err)
}
