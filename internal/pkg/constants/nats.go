package constants

// NATS Subjects
const (
	// Demo delivery echo, carries the plaintext code
	SubjectOTPDemoEcho = "otp.demo.echo"

	// Lifecycle events
	SubjectOTPIssued   = "otp.issued"
	SubjectOTPVerified = "otp.verified"
	SubjectOTPFailed   = "otp.failed"
)
