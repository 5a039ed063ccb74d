package config

import "time"

type SecurityConfig interface {
	GetJWTSecret() string
	GetOperatorEmail() string
	GetOperatorPasswordHash() string
	GetLegacySessionTimeout() time.Duration
	GetFlowStateTimeout() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetJWTSecret returns the shared HMAC secret used by the core API when it
// signs agent tokens.
func (Security) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Security) GetOperatorEmail() string {
	return GetEnv("OPERATOR_EMAIL", "")
}

// GetOperatorPasswordHash returns the bcrypt hash for the legacy operator
// login. Empty disables that path entirely.
func (Security) GetOperatorPasswordHash() string {
	return GetEnv("OPERATOR_PASSWORD_HASH", "")
}

// GetLegacySessionTimeout is the absolute lifetime of a legacy cookie session,
// measured from its creation timestamp. The JWT path carries its own expiry.
func (Security) GetLegacySessionTimeout() time.Duration {
	return 1 * time.Hour
}

// GetFlowStateTimeout bounds how long an email-linking flow may sit between
// the redirect to the provider and the callback.
func (Security) GetFlowStateTimeout() time.Duration {
	return 15 * time.Minute
}
