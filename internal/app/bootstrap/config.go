// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/system/dblifecycle"
)

// appConfigKeys defines the configuration keys for QMSHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: QMSHUB_MONGO_URI, QMSHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "qms_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// JWT auth
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "access_token_ttl", Default: "30m", Desc: "Access token lifetime (e.g., 30m, 1h)"},
	{Name: "refresh_token_ttl", Default: "168h", Desc: "Refresh token lifetime (e.g., 168h for 7 days)"},

	// Gemini / AI
	{Name: "gemini_api_key", Default: "", Desc: "Google Gemini API key (blank disables AI endpoints)"},
	{Name: "gemini_model", Default: "gemini-1.5-flash", Desc: "Gemini model name"},
	{Name: "gemini_temperature", Default: "0.3", Desc: "Gemini sampling temperature"},
	{Name: "gemini_max_tokens", Default: 2048, Desc: "Gemini response token cap (0 for provider default)"},

	// Rate limiting
	{Name: "rate_limit_per_minute", Default: 120, Desc: "Requests per client IP per minute"},

	// Agent feature flags
	{Name: "enable_risk_prediction", Default: true, Desc: "Enable the risk prediction agent"},
	{Name: "enable_predictive_maintenance", Default: true, Desc: "Enable the predictive maintenance agent"},
	{Name: "enable_training_gap_analysis", Default: true, Desc: "Enable the training gap analysis agent"},
	{Name: "enable_supplier_evaluation", Default: true, Desc: "Enable the supplier evaluation agent"},
	{Name: "enable_root_cause_analysis", Default: true, Desc: "Enable the root cause analysis agent"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, QMSHUB_* for app), and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "QMSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", 30*time.Minute),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 7*24*time.Hour),

		GeminiAPIKey:      appValues.String("gemini_api_key"),
		GeminiModel:       appValues.String("gemini_model"),
		GeminiTemperature: parseFloat(appValues.String("gemini_temperature"), 0.3),
		GeminiMaxTokens:   appValues.Int("gemini_max_tokens"),

		RateLimitPerMinute: appValues.Int("rate_limit_per_minute"),

		EnableRiskPrediction:        appValues.Bool("enable_risk_prediction"),
		EnablePredictiveMaintenance: appValues.Bool("enable_predictive_maintenance"),
		EnableTrainingGapAnalysis:   appValues.Bool("enable_training_gap_analysis"),
		EnableSupplierEvaluation:    appValues.Bool("enable_supplier_evaluation"),
		EnableRootCauseAnalysis:     appValues.Bool("enable_root_cause_analysis"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The database parameters are checked through the lifecycle manager's
// Config.Validate so that malformed settings abort startup before any
// network connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	dbCfg := dblifecycle.Config{
		URI:         appCfg.MongoURI,
		Database:    appCfg.MongoDatabase,
		MinPoolSize: appCfg.MongoMinPoolSize,
		MaxPoolSize: appCfg.MongoMaxPoolSize,
	}
	if err := dbCfg.Validate(); err != nil {
		logger.Error("invalid MongoDB configuration", zap.Error(err))
		return fmt.Errorf("invalid MongoDB configuration: %w", err)
	}

	if coreCfg.Env == "prod" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789" {
		return fmt.Errorf("jwt_secret must be changed from the development default in production")
	}
	if appCfg.AccessTokenTTL <= 0 || appCfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if appCfg.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive")
	}
	return nil
}

func parseFloat(s string, fallback float64) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return fallback
	}
	return f
}
