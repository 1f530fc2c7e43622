package usecase

import (
	"context"
	"time"

	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/services/auth"
)

// StartCountdown starts, or restarts, the resend countdown of a session
func (uc *AuthUC) StartCountdown(ctx context.Context, sessionID string, sink otp.CountdownSink, onComplete func()) error {
	sess, ok := uc.sessions.get(sessionID)
	if !ok {
		return auth.ErrSessionNotFound
	}

	sess.lifecycle.StartResendCountdown(sink, onComplete)
	logger.DebugCtx(ctx, "Resend countdown started",
		logger.String("session_id", sessionID),
		logger.Int("seconds", uc.cfg.OTP.ResendCooldownSeconds))
	return nil
}

// CancelCountdown stops the resend countdown of a session, if running
func (uc *AuthUC) CancelCountdown(ctx context.Context, sessionID string) error {
	sess, ok := uc.sessions.get(sessionID)
	if !ok {
		return auth.ErrSessionNotFound
	}

	sess.lifecycle.CancelCountdown()
	return nil
}

// SessionStatus reports the derived state of a session
func (uc *AuthUC) SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	sess, ok := uc.sessions.get(sessionID)
	if !ok {
		return nil, auth.ErrSessionNotFound
	}

	state := sess.lifecycle.State()
	status := &models.SessionStatus{
		SessionID:       sess.id,
		State:           state.String(),
		MaskedPhone:     sess.getMaskedPhone(),
		CountdownActive: sess.lifecycle.CountdownActive(),
	}
	if expiresAt, ok := sess.lifecycle.ExpiresAt(); ok && state == otp.StateCodeActive {
		remaining := expiresAt.Sub(uc.clock.Now())
		status.ExpiresInSeconds = int((remaining + time.Second - 1) / time.Second)
	}
	return status, nil
}

// EndSession tears a session down, cancelling its countdown and
// discarding any outstanding code
func (uc *AuthUC) EndSession(ctx context.Context, sessionID string) error {
	if !uc.sessions.remove(sessionID) {
		return auth.ErrSessionNotFound
	}

	logger.InfoCtx(ctx, "OTP session ended", logger.String("session_id", sessionID))
	return nil
}

// Shutdown closes every session. Later requests fail.
func (uc *AuthUC) Shutdown(ctx context.Context) error {
	n := uc.sessions.closeAll()
	logger.Info("OTP sessions closed", logger.Int("count", n))
	return nil
}
