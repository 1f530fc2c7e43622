package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fraudguard/internal/pkg/jwt"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/models"
	nrpkg "github.com/piresc/fraudguard/internal/pkg/newrelic"
	"github.com/piresc/fraudguard/internal/utils"
	"github.com/piresc/fraudguard/services/auth"
)

// AuthHandler handles HTTP requests for OTP authentication
type AuthHandler struct {
	authUC auth.AuthUC
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC auth.AuthUC) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

// RequestOTP issues and delivers a code, creating a session when the
// request carries none
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req models.OTPRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for OTP request",
			logger.Err(err),
			logger.String("endpoint", "RequestOTP"))
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationResponse(c, err)
	}

	resp, err := h.authUC.RequestOTP(c.Request().Context(), &req)
	if err != nil {
		if handled, rerr := otpErrorResponse(c, err); handled {
			return rerr
		}
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		return utils.InternalServerErrorResponse(c, "Failed to send OTP")
	}

	nrpkg.AddTransactionAttribute(nrpkg.FromEchoContext(c), "otp.session_id", resp.SessionID)
	return utils.SuccessResponse(c, http.StatusOK, "OTP sent successfully", resp)
}

// VerifyOTP checks a code and returns a session token on success
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationResponse(c, err)
	}

	resp, err := h.authUC.VerifyOTP(c.Request().Context(), &req)
	if err != nil {
		if handled, rerr := otpErrorResponse(c, err); handled {
			return rerr
		}
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		return utils.InternalServerErrorResponse(c, "Failed to verify OTP")
	}

	return utils.SuccessResponse(c, http.StatusOK, "OTP verified successfully", resp)
}

// GetSessionStatus reports the state of a session
func (h *AuthHandler) GetSessionStatus(c echo.Context) error {
	status, err := h.authUC.SessionStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		if handled, rerr := otpErrorResponse(c, err); handled {
			return rerr
		}
		return utils.InternalServerErrorResponse(c, "Failed to retrieve session")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Session retrieved successfully", status)
}

// EndSession discards a session and its countdown
func (h *AuthHandler) EndSession(c echo.Context) error {
	if err := h.authUC.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		if handled, rerr := otpErrorResponse(c, err); handled {
			return rerr
		}
		return utils.InternalServerErrorResponse(c, "Failed to end session")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Session ended", nil)
}

// WhoAmI echoes the claims of the bearer token. It must sit behind the JWT
// middleware.
func (h *AuthHandler) WhoAmI(c echo.Context) error {
	claims, ok := c.Get(jwtpkg.ContextKey).(*jwtpkg.Claims)
	if !ok || claims == nil {
		return utils.UnauthorizedResponse(c, "Missing token")
	}

	var expiresAt int64
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}

	return utils.SuccessResponse(c, http.StatusOK, "Session token is valid", map[string]interface{}{
		"session_id":   claims.SessionID,
		"masked_phone": claims.MaskedPhone,
		"expires_at":   expiresAt,
	})
}
