// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/system/dblifecycle"
	"github.com/anvarov/qmshub/internal/app/system/indexes"
)

// ConnectDB establishes and verifies the MongoDB connection through the
// lifecycle manager. Index provisioning happens in EnsureSchema; the
// manager reaches Ready only after that completes.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	manager := dblifecycle.NewManager(dblifecycle.Config{
		URI:         appCfg.MongoURI,
		Database:    appCfg.MongoDatabase,
		MinPoolSize: appCfg.MongoMinPoolSize,
		MaxPoolSize: appCfg.MongoMaxPoolSize,
	}, logger)

	if err := manager.Connect(ctx); err != nil {
		return DBDeps{}, err
	}
	if err := manager.Verify(ctx); err != nil {
		return DBDeps{}, err
	}

	return DBDeps{Manager: manager}, nil
}

// EnsureSchema provisions the index catalogue for all fourteen
// collections. It is idempotent, so every startup applies it.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return deps.Manager.EnsureIndexes(ctx, indexes.All())
}
