package usecase

import (
	"context"
	"fmt"

	"github.com/piresc/fraudguard/internal/pkg/constants"
	jwtpkg "github.com/piresc/fraudguard/internal/pkg/jwt"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/models"
	nrpkg "github.com/piresc/fraudguard/internal/pkg/newrelic"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/services/auth"
)

// RequestOTP issues a code for the request's phone number. Without a
// session id a new session is created; it is only registered once the
// code has been delivered.
func (uc *AuthUC) RequestOTP(ctx context.Context, req *models.OTPRequest) (*models.OTPRequestResponse, error) {
	sess, created, err := uc.sessionFor(req.SessionID)
	if err != nil {
		return nil, err
	}

	issued, err := nrpkg.WithSegmentAndReturn(ctx, "otp.RequestCode", func() (*otp.Issued, error) {
		return sess.lifecycle.RequestCode(ctx, req.PhoneNumber)
	})
	if err != nil {
		if otp.KindOf(err) == "" {
			logger.ErrorCtx(ctx, "Failed to issue OTP",
				logger.String("session_id", sess.id),
				logger.Err(err))
		}
		return nil, err
	}

	if created {
		if err := uc.sessions.add(sess); err != nil {
			sess.lifecycle.Close()
			return nil, err
		}
	} else if !uc.sessions.holds(sess) {
		// ended while the code was in flight
		sess.lifecycle.Close()
		return nil, auth.ErrSessionNotFound
	}
	sess.setMaskedPhone(issued.MaskedPhone)

	logger.InfoCtx(ctx, "OTP issued",
		logger.String("session_id", sess.id),
		logger.String("masked_phone", issued.MaskedPhone))

	uc.publishEvent(ctx, constants.SubjectOTPIssued, &models.OTPEvent{
		SessionID:   sess.id,
		MaskedPhone: issued.MaskedPhone,
		OccurredAt:  uc.clock.Now(),
	})

	return &models.OTPRequestResponse{
		SessionID:        sess.id,
		MaskedPhone:      issued.MaskedPhone,
		ExpiresInSeconds: issued.ExpiresInSeconds,
	}, nil
}

// VerifyOTP checks the entered code. A successful verification ends the
// session and returns a signed session token.
func (uc *AuthUC) VerifyOTP(ctx context.Context, req *models.VerifyRequest) (*models.AuthResponse, error) {
	sess, ok := uc.sessions.get(req.SessionID)
	if !ok {
		return nil, auth.ErrSessionNotFound
	}

	// a verified code is consumed, so refuse before it is checked
	if uc.cfg.JWT.Secret == "" {
		logger.ErrorCtx(ctx, "Session token signing is not configured",
			logger.String("session_id", sess.id))
		return nil, jwtpkg.ErrSecretNotConfigured
	}

	masked := sess.getMaskedPhone()

	err := nrpkg.WithSegment(ctx, "otp.VerifyCode", func() error {
		return sess.lifecycle.VerifyCode(req.Code)
	})
	if err != nil {
		kind := otp.KindOf(err)
		logger.WarnCtx(ctx, "OTP verification failed",
			logger.String("session_id", sess.id),
			logger.String("kind", string(kind)))

		uc.publishEvent(ctx, constants.SubjectOTPFailed, &models.OTPEvent{
			SessionID:   sess.id,
			MaskedPhone: masked,
			Kind:        string(kind),
			OccurredAt:  uc.clock.Now(),
		})
		return nil, err
	}

	token, expiresAt, err := jwtpkg.GenerateToken(sess.id, masked, uc.clock.Now(), uc.cfg)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to generate session token",
			logger.String("session_id", sess.id),
			logger.Err(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.sessions.remove(sess.id)

	logger.InfoCtx(ctx, "OTP verified",
		logger.String("session_id", sess.id),
		logger.String("masked_phone", masked))

	uc.publishEvent(ctx, constants.SubjectOTPVerified, &models.OTPEvent{
		SessionID:   sess.id,
		MaskedPhone: masked,
		OccurredAt:  uc.clock.Now(),
	})

	return &models.AuthResponse{
		Token:       token,
		MaskedPhone: masked,
		ExpiresAt:   expiresAt,
	}, nil
}

func (uc *AuthUC) sessionFor(sessionID string) (*session, bool, error) {
	if sessionID == "" {
		return newSession(uc.newLifecycle()), true, nil
	}

	sess, ok := uc.sessions.get(sessionID)
	if !ok {
		return nil, false, auth.ErrSessionNotFound
	}
	return sess, false, nil
}

// publishEvent never fails the caller; the event bus is best effort
func (uc *AuthUC) publishEvent(ctx context.Context, subject string, event *models.OTPEvent) {
	if err := uc.gw.PublishOTPEvent(ctx, subject, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish OTP event",
			logger.String("subject", subject),
			logger.String("session_id", event.SessionID),
			logger.Err(err))
	}
}
