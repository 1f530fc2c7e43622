package constants

// WebSocket event types
const (
	EventError     = "error"
	EventCountdown = "countdown"
	EventCompleted = "completed"
)

// WebSocket close reasons
const (
	CloseReasonCompleted    = "countdown completed"
	CloseReasonCancelled    = "countdown cancelled"
	CloseReasonUnknownState = "unknown session"
)
