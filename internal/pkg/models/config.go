package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	NATS     NATSConfig
	JWT      JWTConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
	OTP      OTPConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int // in seconds
	WriteTimeout    int // in seconds
	ShutdownTimeout int // in seconds
}

// NATSConfig contains NATS connection configuration. An empty URL disables
// event publishing.
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// OTPConfig contains the one-time password lifecycle settings
type OTPConfig struct {
	ValiditySeconds       int
	ResendCooldownSeconds int
	DeliveryLatencyMillis int
	MaxVerifyAttempts     int // 0 means unlimited
	DemoMode              bool
	SessionIdleTTLSeconds int
	RequestsPerMinute     int // per client address, 0 disables limiting
}
