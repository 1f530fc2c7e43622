package handler

import (
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	jwtpkg "github.com/piresc/fraudguard/internal/pkg/jwt"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/utils"
	"github.com/piresc/fraudguard/services/auth/handler/http"
	"github.com/piresc/fraudguard/services/auth/handler/websocket"
	"golang.org/x/time/rate"
)

// Handler coordinates all protocol handlers for the auth service
type Handler struct {
	authHandler      *http.AuthHandler
	countdownHandler *websocket.CountdownHandler
	cfg              *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	authHandler *http.AuthHandler,
	countdownHandler *websocket.CountdownHandler,
	cfg *models.Config,
) *Handler {
	return &Handler{
		authHandler:      authHandler,
		countdownHandler: countdownHandler,
		cfg:              cfg,
	}
}

// GetJWTMiddleware returns the JWT middleware validating session tokens.
// Tokens are parsed with the v4 claims type from internal/pkg/jwt and stored
// under jwtpkg.ContextKey.
func (h *Handler) GetJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: jwtpkg.ContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtpkg.ValidateToken(auth, h.cfg.JWT.Secret, time.Now())
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return utils.UnauthorizedResponse(c, "Invalid or missing session token")
		},
	})
}

// GetRequestLimiter returns a per client IP limiter for code requests, or
// nil when limiting is disabled
func (h *Handler) GetRequestLimiter() echo.MiddlewareFunc {
	perMinute := h.cfg.OTP.RequestsPerMinute
	if perMinute <= 0 {
		return nil
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(float64(perMinute) / 60),
		Burst: perMinute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return utils.TooManyRequestsResponse(c)
		},
	})
}

// RegisterRoutes registers all protocol handlers and their routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Public routes
	otpGroup := e.Group("/auth/otp")
	if limiter := h.GetRequestLimiter(); limiter != nil {
		otpGroup.POST("/request", h.authHandler.RequestOTP, limiter)
	} else {
		otpGroup.POST("/request", h.authHandler.RequestOTP)
	}
	otpGroup.POST("/verify", h.authHandler.VerifyOTP)
	otpGroup.GET("/sessions/:id", h.authHandler.GetSessionStatus)
	otpGroup.DELETE("/sessions/:id", h.authHandler.EndSession)

	// WebSocket routes
	otpGroup.GET("/countdown", h.countdownHandler.HandleCountdown)

	// Protected routes
	e.GET("/auth/session", h.authHandler.WhoAmI, h.GetJWTMiddleware())
}
