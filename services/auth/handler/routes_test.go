package handler

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fraudguard/internal/pkg/jwt"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/validator"
	wspkg "github.com/piresc/fraudguard/internal/pkg/websocket"
	"github.com/piresc/fraudguard/services/auth/handler/http"
	"github.com/piresc/fraudguard/services/auth/handler/websocket"
	"github.com/piresc/fraudguard/services/auth/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() *models.Config {
	return &models.Config{
		JWT: models.JWTConfig{
			Secret:     "test-secret-key-for-jwt-signing",
			Expiration: 60,
			Issuer:     "fraudguard-test",
		},
	}
}

func setupRoutes(t *testing.T) *echo.Echo {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockAuthUC := mocks.NewMockAuthUC(ctrl)

	h := NewHandler(
		http.NewAuthHandler(mockAuthUC),
		websocket.NewCountdownHandler(mockAuthUC, wspkg.NewManager()),
		getTestConfig(),
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func TestRegisterRoutes(t *testing.T) {
	e := setupRoutes(t)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"POST /auth/otp/request",
		"POST /auth/otp/verify",
		"GET /auth/otp/sessions/:id",
		"DELETE /auth/otp/sessions/:id",
		"GET /auth/otp/countdown",
		"GET /auth/session",
	} {
		assert.True(t, registered[route], "route %s not registered", route)
	}
}

func TestSessionRoute_RequiresToken(t *testing.T) {
	e := setupRoutes(t)

	tests := []struct {
		name           string
		authorization  func(t *testing.T) string
		expectedStatus int
	}{
		{
			name:           "Missing token",
			authorization:  func(t *testing.T) string { return "" },
			expectedStatus: nethttp.StatusUnauthorized,
		},
		{
			name: "Token signed with another secret",
			authorization: func(t *testing.T) string {
				cfg := getTestConfig()
				cfg.JWT.Secret = "another-secret"
				token, _, err := jwtpkg.GenerateToken("sid", "555****567", time.Now(), cfg)
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: nethttp.StatusUnauthorized,
		},
		{
			name: "Expired token",
			authorization: func(t *testing.T) string {
				token, _, err := jwtpkg.GenerateToken("sid", "555****567", time.Now().Add(-2*time.Hour), getTestConfig())
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: nethttp.StatusUnauthorized,
		},
		{
			name: "Valid token",
			authorization: func(t *testing.T) string {
				token, _, err := jwtpkg.GenerateToken("sid", "555****567", time.Now(), getTestConfig())
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: nethttp.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(nethttp.MethodGet, "/auth/session", nil)
			if auth := tt.authorization(t); auth != "" {
				req.Header.Set(echo.HeaderAuthorization, auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == nethttp.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				data := body["data"].(map[string]interface{})
				assert.Equal(t, "sid", data["session_id"])
				assert.Equal(t, "555****567", data["masked_phone"])
			}
		})
	}
}

func TestRequestRoute_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	mockAuthUC.EXPECT().RequestOTP(gomock.Any(), gomock.Any()).
		Return(&models.OTPRequestResponse{SessionID: "sid"}, nil).
		Times(2)

	cfg := getTestConfig()
	cfg.OTP.RequestsPerMinute = 2
	h := NewHandler(
		http.NewAuthHandler(mockAuthUC),
		websocket.NewCountdownHandler(mockAuthUC, wspkg.NewManager()),
		cfg,
	)
	e := echo.New()
	v, err := validator.New()
	require.NoError(t, err)
	e.Validator = v
	h.RegisterRoutes(e)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(nethttp.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone_number":"5551234567"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, nethttp.StatusOK, send().Code)
	assert.Equal(t, nethttp.StatusOK, send().Code)

	rec := send()
	assert.Equal(t, nethttp.StatusTooManyRequests, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body["kind"])
}

func TestGetRequestLimiter_Disabled(t *testing.T) {
	h := NewHandler(nil, nil, getTestConfig())
	assert.Nil(t, h.GetRequestLimiter())
}
