package websocket

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fraudguard/internal/pkg/constants"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	wspkg "github.com/piresc/fraudguard/internal/pkg/websocket"
	"github.com/piresc/fraudguard/internal/utils"
	"github.com/piresc/fraudguard/services/auth"
)

// tickBuffer holds more ticks than any sane cooldown so the countdown
// never blocks on a slow client
const tickBuffer = 512

// CountdownHandler streams a session's resend countdown over a websocket
type CountdownHandler struct {
	authUC  auth.AuthUC
	manager *wspkg.Manager
}

// NewCountdownHandler creates a new countdown handler
func NewCountdownHandler(authUC auth.AuthUC, manager *wspkg.Manager) *CountdownHandler {
	return &CountdownHandler{
		authUC:  authUC,
		manager: manager,
	}
}

// HandleCountdown starts the countdown for the session named in the query
// and forwards every tick to the client. Closing the socket cancels the
// countdown.
func (h *CountdownHandler) HandleCountdown(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return utils.BadRequestResponse(c, "session_id is required")
	}

	ctx := c.Request().Context()
	ticks := make(chan int, tickBuffer)
	done := make(chan struct{})

	sink := otp.CountdownSinkFunc(func(seconds int) {
		select {
		case ticks <- seconds:
		default:
		}
	})

	if _, err := h.authUC.SessionStatus(ctx, sessionID); err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return utils.FailureResponse(c, http.StatusNotFound, "session_not_found", "Session not found. Please request a new OTP")
		}
		return utils.InternalServerErrorResponse(c, "Failed to start countdown")
	}

	// register first so a replaced connection never cancels the countdown
	// started below
	conn, err := h.manager.Upgrade(c, sessionID)
	if err != nil {
		logger.WarnCtx(ctx, "Websocket upgrade failed",
			logger.String("session_id", sessionID),
			logger.Err(err))
		return nil
	}
	defer h.manager.Release(sessionID, conn)

	if err := h.authUC.StartCountdown(ctx, sessionID, sink, func() { close(done) }); err != nil {
		_ = h.manager.SendErrorMessage(conn, "session_not_found", "Session not found. Please request a new OTP")
		h.manager.Close(conn, constants.CloseReasonUnknownState)
		return nil
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(seconds int) bool {
		err := h.manager.SendMessage(conn, constants.EventCountdown, models.CountdownMessage{Remaining: seconds})
		return err == nil
	}

	for {
		select {
		case seconds := <-ticks:
			if !send(seconds) {
				if h.manager.Owns(sessionID, conn) {
					_ = h.authUC.CancelCountdown(ctx, sessionID)
				}
				return nil
			}
		case <-done:
			// every tick precedes completion
			for len(ticks) > 0 {
				if !send(<-ticks) {
					return nil
				}
			}
			_ = h.manager.SendMessage(conn, constants.EventCompleted, models.CountdownMessage{Completed: true})
			h.manager.Close(conn, constants.CloseReasonCompleted)
			return nil
		case <-gone:
			if !h.manager.Owns(sessionID, conn) {
				// a newer connection took the session over
				return nil
			}
			logger.InfoCtx(ctx, "Countdown client disconnected", logger.String("session_id", sessionID))
			if err := h.authUC.CancelCountdown(ctx, sessionID); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
				logger.WarnCtx(ctx, "Failed to cancel countdown",
					logger.String("session_id", sessionID),
					logger.Err(err))
			}
			return nil
		}
	}
}
