package models

import "time"

// OTPRequest represents a request to send a one-time password
type OTPRequest struct {
	SessionID   string `json:"session_id,omitempty" validate:"omitempty,sessionid"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// OTPRequestResponse is returned once a code has been delivered
type OTPRequestResponse struct {
	SessionID        string `json:"session_id"`
	MaskedPhone      string `json:"masked_phone"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

// VerifyRequest represents a request to verify an OTP
type VerifyRequest struct {
	SessionID string `json:"session_id" validate:"required,sessionid"`
	Code      string `json:"code" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token       string `json:"token"`
	MaskedPhone string `json:"masked_phone"`
	ExpiresAt   int64  `json:"expires_at"`
}

// CountdownMessage is pushed to countdown websocket clients
type CountdownMessage struct {
	Remaining int  `json:"remaining"`
	Completed bool `json:"completed,omitempty"`
}

// OTPEvent describes a lifecycle transition published to the event bus
type OTPEvent struct {
	SessionID   string    `json:"session_id"`
	MaskedPhone string    `json:"masked_phone,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SessionStatus describes an authentication session without revealing its code
type SessionStatus struct {
	SessionID        string `json:"session_id"`
	State            string `json:"state"`
	MaskedPhone      string `json:"masked_phone,omitempty"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	CountdownActive  bool   `json:"countdown_active"`
}
