// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("QMS platform starting",
		zap.String("env", coreCfg.Env),
		zap.Bool("ai_enabled", appCfg.GeminiAPIKey != ""),
		zap.Bool("risk_prediction", appCfg.EnableRiskPrediction),
		zap.Bool("predictive_maintenance", appCfg.EnablePredictiveMaintenance),
		zap.Bool("training_gap_analysis", appCfg.EnableTrainingGapAnalysis),
		zap.Bool("supplier_evaluation", appCfg.EnableSupplierEvaluation),
		zap.Bool("root_cause_analysis", appCfg.EnableRootCauseAnalysis))
	return nil
}
