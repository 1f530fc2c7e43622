package http

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/internal/pkg/validator"
	"github.com/piresc/fraudguard/internal/utils"
	"github.com/piresc/fraudguard/services/auth"
)

const (
	kindValidation      = "validation_failed"
	kindSessionNotFound = "session_not_found"
)

var otpStatus = map[otp.ErrorKind]int{
	otp.KindInvalidPhoneFormat: http.StatusBadRequest,
	otp.KindNoCodeRequested:    http.StatusBadRequest,
	otp.KindCodeExpired:        http.StatusGone,
	otp.KindCodeMismatch:       http.StatusUnauthorized,
	otp.KindTooManyAttempts:    http.StatusTooManyRequests,
}

// otpErrorResponse maps usecase errors onto the response envelope. It
// returns false for errors it does not recognise.
func otpErrorResponse(c echo.Context, err error) (bool, error) {
	if kind := otp.KindOf(err); kind != "" {
		return true, utils.FailureResponse(c, otpStatus[kind], string(kind), err.Error())
	}
	if errors.Is(err, auth.ErrSessionNotFound) {
		return true, utils.FailureResponse(c, http.StatusNotFound, kindSessionNotFound, "Session not found. Please request a new OTP")
	}
	if errors.Is(err, context.Canceled) {
		return true, utils.ErrorResponseHandler(c, http.StatusRequestTimeout, "Request cancelled")
	}
	return false, nil
}

func validationResponse(c echo.Context, err error) error {
	var verr validator.ValidationError
	if !errors.As(err, &verr) {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	msgs := make([]string, 0, len(verr))
	for _, msg := range verr {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return utils.FailureResponse(c, http.StatusBadRequest, kindValidation, strings.Join(msgs, "; "))
}
