package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fraudguard/internal/pkg/jwt"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/internal/pkg/validator"
	"github.com/piresc/fraudguard/services/auth"
	"github.com/piresc/fraudguard/services/auth/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "6f1c2d2e-8c1b-4a7e-9f55-0d3c1b2a4e5f"

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	v, err := validator.New()
	require.NoError(t, err)
	e := echo.New()
	e.Validator = v
	return e
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func TestRequestOTP_Success(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	e := newEcho(t)
	c, rec := newJSONContext(e, http.MethodPost, "/auth/otp/request", `{"phone_number": "5551234567"}`)

	mockAuthUC.EXPECT().
		RequestOTP(gomock.Any(), &models.OTPRequest{PhoneNumber: "5551234567"}).
		Return(&models.OTPRequestResponse{
			SessionID:        testSessionID,
			MaskedPhone:      "555****567",
			ExpiresInSeconds: 300,
		}, nil)

	// Act
	err := authHandler.RequestOTP(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	response := decode(t, rec)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "OTP sent successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, testSessionID, data["session_id"])
	assert.Equal(t, "555****567", data["masked_phone"])
	assert.Equal(t, float64(300), data["expires_in_seconds"])
	assert.NotContains(t, rec.Body.String(), "5551234567")
}

func TestRequestOTP_InvalidPayload(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedKind  string
		expectedError string
	}{
		{
			name:          "Malformed JSON",
			body:          `{invalid_json}`,
			expectedError: "Invalid request payload",
		},
		{
			name:          "Missing phone number",
			body:          `{}`,
			expectedKind:  kindValidation,
			expectedError: "phone_number is a required field",
		},
		{
			name:          "Malformed session id",
			body:          `{"session_id": "abc", "phone_number": "5551234567"}`,
			expectedKind:  kindValidation,
			expectedError: "session_id must be a valid session identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			authHandler := NewAuthHandler(mockAuthUC)

			c, rec := newJSONContext(newEcho(t), http.MethodPost, "/auth/otp/request", tt.body)

			err := authHandler.RequestOTP(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			response := decode(t, rec)
			assert.Equal(t, false, response["success"])
			assert.Equal(t, tt.expectedError, response["error"])
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, response["kind"])
			}
			assert.Equal(t, float64(http.StatusBadRequest), response["code"])
		})
	}
}

func TestRequestOTP_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name           string
		ucErr          error
		expectedStatus int
		expectedKind   string
		expectedError  string
	}{
		{
			name:           "Invalid phone format",
			ucErr:          otp.ErrInvalidPhoneFormat,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_phone_format",
			expectedError:  "Please enter a valid 10-digit phone number",
		},
		{
			name:           "Unknown session",
			ucErr:          auth.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
			expectedKind:   kindSessionNotFound,
			expectedError:  "Session not found. Please request a new OTP",
		},
		{
			name:           "Client went away",
			ucErr:          context.Canceled,
			expectedStatus: http.StatusRequestTimeout,
			expectedError:  "Request cancelled",
		},
		{
			name:           "Unexpected failure",
			ucErr:          errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to send OTP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			authHandler := NewAuthHandler(mockAuthUC)

			c, rec := newJSONContext(newEcho(t), http.MethodPost, "/auth/otp/request", `{"phone_number": "555"}`)
			mockAuthUC.EXPECT().RequestOTP(gomock.Any(), gomock.Any()).Return(nil, tt.ucErr)

			err := authHandler.RequestOTP(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			response := decode(t, rec)
			assert.Equal(t, tt.expectedError, response["error"])
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, response["kind"])
			} else {
				assert.NotContains(t, response, "kind")
			}
		})
	}
}

func TestVerifyOTP_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	c, rec := newJSONContext(newEcho(t), http.MethodPost, "/auth/otp/verify",
		`{"session_id": "`+testSessionID+`", "code": "482913"}`)

	mockAuthUC.EXPECT().
		VerifyOTP(gomock.Any(), &models.VerifyRequest{SessionID: testSessionID, Code: "482913"}).
		Return(&models.AuthResponse{Token: "jwt-token", MaskedPhone: "555****567", ExpiresAt: 1709287200}, nil)

	err := authHandler.VerifyOTP(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	response := decode(t, rec)
	assert.Equal(t, "OTP verified successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, "555****567", data["masked_phone"])
}

func TestVerifyOTP_Failures(t *testing.T) {
	tests := []struct {
		name           string
		ucErr          error
		expectedStatus int
		expectedKind   string
		expectedError  string
	}{
		{
			name:           "No code requested",
			ucErr:          otp.ErrNoCodeRequested,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "no_code_requested",
			expectedError:  "No OTP requested. Please request a new OTP",
		},
		{
			name:           "Code expired",
			ucErr:          otp.ErrCodeExpired,
			expectedStatus: http.StatusGone,
			expectedKind:   "code_expired",
			expectedError:  "OTP has expired. Please request a new one",
		},
		{
			name:           "Code mismatch",
			ucErr:          otp.ErrCodeMismatch,
			expectedStatus: http.StatusUnauthorized,
			expectedKind:   "code_mismatch",
			expectedError:  "Invalid OTP. Please try again",
		},
		{
			name:           "Too many attempts",
			ucErr:          otp.ErrTooManyAttempts,
			expectedStatus: http.StatusTooManyRequests,
			expectedKind:   "too_many_attempts",
			expectedError:  otp.ErrTooManyAttempts.Message,
		},
		{
			name:           "Token failure",
			ucErr:          errors.New("failed to generate token"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to verify OTP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			authHandler := NewAuthHandler(mockAuthUC)

			c, rec := newJSONContext(newEcho(t), http.MethodPost, "/auth/otp/verify",
				`{"session_id": "`+testSessionID+`", "code": "000000"}`)
			mockAuthUC.EXPECT().VerifyOTP(gomock.Any(), gomock.Any()).Return(nil, tt.ucErr)

			err := authHandler.VerifyOTP(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			response := decode(t, rec)
			assert.Equal(t, false, response["success"])
			assert.Equal(t, tt.expectedError, response["error"])
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, response["kind"])
			}
		})
	}
}

func TestVerifyOTP_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	c, rec := newJSONContext(newEcho(t), http.MethodPost, "/auth/otp/verify", `{}`)

	err := authHandler.VerifyOTP(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	response := decode(t, rec)
	assert.Equal(t, kindValidation, response["kind"])
	assert.Equal(t, "code is a required field; session_id is a required field", response["error"])
}

func TestGetSessionStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	e := newEcho(t)
	c, rec := newJSONContext(e, http.MethodGet, "/auth/otp/sessions/"+testSessionID, "")
	c.SetParamNames("id")
	c.SetParamValues(testSessionID)

	mockAuthUC.EXPECT().SessionStatus(gomock.Any(), testSessionID).Return(&models.SessionStatus{
		SessionID:        testSessionID,
		State:            "code_active",
		MaskedPhone:      "555****567",
		ExpiresInSeconds: 120,
	}, nil)

	err := authHandler.GetSessionStatus(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "code_active", data["state"])
	assert.Equal(t, float64(120), data["expires_in_seconds"])
}

func TestEndSession(t *testing.T) {
	tests := []struct {
		name           string
		ucErr          error
		expectedStatus int
	}{
		{name: "Ended", expectedStatus: http.StatusOK},
		{name: "Unknown session", ucErr: auth.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
		{name: "Unexpected failure", ucErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			authHandler := NewAuthHandler(mockAuthUC)

			c, rec := newJSONContext(newEcho(t), http.MethodDelete, "/auth/otp/sessions/"+testSessionID, "")
			c.SetParamNames("id")
			c.SetParamValues(testSessionID)
			mockAuthUC.EXPECT().EndSession(gomock.Any(), testSessionID).Return(tt.ucErr)

			err := authHandler.EndSession(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestWhoAmI(t *testing.T) {
	authHandler := NewAuthHandler(nil)
	expiresAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Valid claims", func(t *testing.T) {
		c, rec := newJSONContext(newEcho(t), http.MethodGet, "/auth/session", "")
		c.Set(jwtpkg.ContextKey, &jwtpkg.Claims{
			SessionID:        testSessionID,
			MaskedPhone:      "555****567",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
		})

		err := authHandler.WhoAmI(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, testSessionID, data["session_id"])
		assert.Equal(t, float64(expiresAt.Unix()), data["expires_at"])
	})

	t.Run("No token", func(t *testing.T) {
		c, rec := newJSONContext(newEcho(t), http.MethodGet, "/auth/session", "")

		err := authHandler.WhoAmI(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Foreign value under the claims key", func(t *testing.T) {
		c, rec := newJSONContext(newEcho(t), http.MethodGet, "/auth/session", "")
		c.Set(jwtpkg.ContextKey, &jwt.Token{})

		err := authHandler.WhoAmI(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
