package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response. Kind is a stable machine
// readable discriminator; Error is meant for display.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Failure kinds that do not come from the OTP lifecycle
const (
	KindUnauthorized = "unauthorized"
	KindRateLimited  = "rate_limited"
)

// SuccessResponse sends a success response with data
func SuccessResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseHandler sends an untagged error response
func ErrorResponseHandler(c echo.Context, statusCode int, errorMessage string) error {
	return FailureResponse(c, statusCode, "", errorMessage)
}

// FailureResponse sends an error response tagged with a failure kind
func FailureResponse(c echo.Context, statusCode int, kind, errorMessage string) error {
	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorMessage,
		Kind:    kind,
		Code:    statusCode,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, errorMessage)
}

// UnauthorizedResponse sends a 401 for a missing or unusable session token
func UnauthorizedResponse(c echo.Context, errorMessage string) error {
	return FailureResponse(c, http.StatusUnauthorized, KindUnauthorized, errorMessage)
}

// TooManyRequestsResponse sends a 429 for callers over the request rate
func TooManyRequestsResponse(c echo.Context) error {
	return FailureResponse(c, http.StatusTooManyRequests, KindRateLimited,
		"Too many code requests. Please wait before trying again.")
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Internal server error"
	}
	return ErrorResponseHandler(c, http.StatusInternalServerError, errorMessage)
}
