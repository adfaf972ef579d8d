// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, log level); AppConfig is where
// everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMinPoolSize uint64 // Minimum pooled connections
	MongoMaxPoolSize uint64 // Maximum pooled connections

	// JWT auth configuration
	JWTSecret       string        // HMAC signing secret (must be strong in production)
	AccessTokenTTL  time.Duration // Access token lifetime
	RefreshTokenTTL time.Duration // Refresh token lifetime

	// Gemini / AI configuration
	GeminiAPIKey      string  // API key; empty disables AI endpoints (503)
	GeminiModel       string  // Model name (default gemini-1.5-flash)
	GeminiTemperature float64 // Sampling temperature
	GeminiMaxTokens   int     // Response token cap; 0 means provider default

	// Rate limiting
	RateLimitPerMinute int // Requests per client IP per minute

	// Feature flags for the AI agents
	EnableRiskPrediction        bool
	EnablePredictiveMaintenance bool
	EnableTrainingGapAnalysis   bool
	EnableSupplierEvaluation    bool
	EnableRootCauseAnalysis     bool
}
