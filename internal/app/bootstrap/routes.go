// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/agents"
	agentapifeature "github.com/anvarov/qmshub/internal/app/features/agentapi"
	assistantfeature "github.com/anvarov/qmshub/internal/app/features/assistant"
	auditsfeature "github.com/anvarov/qmshub/internal/app/features/audits"
	authapifeature "github.com/anvarov/qmshub/internal/app/features/authapi"
	configinfofeature "github.com/anvarov/qmshub/internal/app/features/configinfo"
	documentsfeature "github.com/anvarov/qmshub/internal/app/features/documents"
	equipmentfeature "github.com/anvarov/qmshub/internal/app/features/equipment"
	feedbackfeature "github.com/anvarov/qmshub/internal/app/features/feedback"
	healthfeature "github.com/anvarov/qmshub/internal/app/features/health"
	kpisfeature "github.com/anvarov/qmshub/internal/app/features/kpis"
	ncfeature "github.com/anvarov/qmshub/internal/app/features/nonconformities"
	notificationsfeature "github.com/anvarov/qmshub/internal/app/features/notifications"
	organizationsfeature "github.com/anvarov/qmshub/internal/app/features/organizations"
	policiesfeature "github.com/anvarov/qmshub/internal/app/features/policies"
	risksfeature "github.com/anvarov/qmshub/internal/app/features/risks"
	suppliersfeature "github.com/anvarov/qmshub/internal/app/features/suppliers"
	trainingfeature "github.com/anvarov/qmshub/internal/app/features/training"
	usersfeature "github.com/anvarov/qmshub/internal/app/features/users"
	agentlogstore "github.com/anvarov/qmshub/internal/app/store/agentlogs"
	auditstore "github.com/anvarov/qmshub/internal/app/store/audits"
	documentstore "github.com/anvarov/qmshub/internal/app/store/documents"
	equipmentstore "github.com/anvarov/qmshub/internal/app/store/equipment"
	feedbackstore "github.com/anvarov/qmshub/internal/app/store/feedback"
	kpistore "github.com/anvarov/qmshub/internal/app/store/kpis"
	ncstore "github.com/anvarov/qmshub/internal/app/store/nonconformities"
	notificationstore "github.com/anvarov/qmshub/internal/app/store/notifications"
	organizationstore "github.com/anvarov/qmshub/internal/app/store/organizations"
	policystore "github.com/anvarov/qmshub/internal/app/store/policies"
	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	supplierstore "github.com/anvarov/qmshub/internal/app/store/suppliers"
	trainingstore "github.com/anvarov/qmshub/internal/app/store/training"
	userstore "github.com/anvarov/qmshub/internal/app/store/users"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/llm"
	"github.com/anvarov/qmshub/internal/app/system/ratelimit"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// BuildHandler constructs the root HTTP handler. WAFFLE calls this after
// configuration, DB connection, and schema setup have completed, so the
// lifecycle manager is Ready and Handle cannot fail here in practice.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db, err := deps.Manager.Handle()
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	// The model is optional: without an API key the AI surfaces return 503
	// and everything else keeps working.
	var model llm.Model
	gemini, err := llm.NewGemini(context.Background(), llm.Config{
		APIKey:      appCfg.GeminiAPIKey,
		ModelName:   appCfg.GeminiModel,
		Temperature: appCfg.GeminiTemperature,
		MaxTokens:   appCfg.GeminiMaxTokens,
	})
	switch {
	case err == nil:
		model = gemini
	case errors.Is(err, llm.ErrUnavailable):
		logger.Warn("no Gemini API key configured, AI features disabled")
	default:
		return nil, err
	}

	users := userstore.New(db)
	organizations := organizationstore.New(db)
	documents := documentstore.New(db)
	risks := riskstore.New(db)
	policies := policystore.New(db)
	suppliers := supplierstore.New(db)
	equipment := equipmentstore.New(db)
	ncs := ncstore.New(db)
	training := trainingstore.New(db)
	audits := auditstore.New(db)
	kpis := kpistore.New(db)
	notifications := notificationstore.New(db)
	agentLogs := agentlogstore.New(db)
	feedback := feedbackstore.New(db)

	registry := agents.NewRegistry()
	if appCfg.EnableRiskPrediction {
		registry.Register(agents.NewRiskPrediction(risks, model))
	}
	if appCfg.EnablePredictiveMaintenance {
		registry.Register(agents.NewPredictiveMaintenance(equipment))
	}
	if appCfg.EnableTrainingGapAnalysis {
		registry.Register(agents.NewTrainingGapAnalysis(training, notifications))
	}
	if appCfg.EnableSupplierEvaluation {
		registry.Register(agents.NewSupplierEvaluation(suppliers, model))
	}
	if appCfg.EnableRootCauseAnalysis {
		registry.Register(agents.NewRootCauseAnalysis(ncs, model))
	}
	executor := agents.NewExecutor(agentLogs, logger)

	apiLimiter := ratelimit.New(appCfg.RateLimitPerMinute, time.Minute)
	// Login and registration get a much tighter budget.
	authLimiter := ratelimit.New(10, time.Minute)

	configFlags := configinfofeature.Flags{
		RiskPrediction:        appCfg.EnableRiskPrediction,
		PredictiveMaintenance: appCfg.EnablePredictiveMaintenance,
		TrainingGapAnalysis:   appCfg.EnableTrainingGapAnalysis,
		SupplierEvaluation:    appCfg.EnableSupplierEvaluation,
		RootCauseAnalysis:     appCfg.EnableRootCauseAnalysis,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.Manager, Version, logger)))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter.Middleware)

		r.Mount("/auth", authapifeature.Routes(authapifeature.NewHandler(users, tokens, logger), authLimiter))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Mount("/config", configinfofeature.Routes(configinfofeature.NewHandler(configFlags)))
			r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(users, logger)))
			r.Mount("/organizations", organizationsfeature.Routes(organizationsfeature.NewHandler(organizations, logger)))
			r.Mount("/documents", documentsfeature.Routes(documentsfeature.NewHandler(documents, logger)))
			r.Mount("/risks", risksfeature.Routes(risksfeature.NewHandler(risks, logger)))
			r.Mount("/policies", policiesfeature.Routes(policiesfeature.NewHandler(policies, logger)))
			r.Mount("/suppliers", suppliersfeature.Routes(suppliersfeature.NewHandler(suppliers, logger)))
			r.Mount("/equipment", equipmentfeature.Routes(equipmentfeature.NewHandler(equipment, logger)))
			r.Mount("/non-conformities", ncfeature.Routes(ncfeature.NewHandler(ncs, logger)))
			r.Mount("/training", trainingfeature.Routes(trainingfeature.NewHandler(training, logger)))
			r.Mount("/audits", auditsfeature.Routes(auditsfeature.NewHandler(audits, logger)))
			r.Mount("/kpis", kpisfeature.Routes(kpisfeature.NewHandler(kpis, logger)))
			r.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(notifications, logger)))
			r.Mount("/feedback", feedbackfeature.Routes(feedbackfeature.NewHandler(feedback, logger)))
			r.Mount("/assistants", assistantfeature.Routes(assistantfeature.NewHandler(model, documents, feedback, logger)))
			r.Mount("/agents", agentapifeature.Routes(agentapifeature.NewHandler(registry, executor, agentLogs, logger)))
		})
	})

	return r, nil
}
