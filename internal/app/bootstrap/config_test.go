package bootstrap

import (
	"testing"

	"github.com/am1456/hostelhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "hostelhub",
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
	}
}

func TestValidateConfig_OK(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.MongoURI = "not-a-mongo-uri"

	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid MongoDB URI")
	}
}

func TestValidateConfig_SecretsMustDiffer(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.RefreshTokenSecret = appCfg.AccessTokenSecret

	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when both secrets are identical")
	}
}

func TestValidateConfig_RejectsDevSecretsOutsideDev(t *testing.T) {
	appCfg := validAppConfig()
	appCfg.AccessTokenSecret = "dev-only-access-secret"

	coreCfg := &config.CoreConfig{Env: "prod"}
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for default secret in prod")
	}

	// The same secret is fine in dev.
	coreCfg.Env = "dev"
	if err := ValidateConfig(coreCfg, appCfg, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig failed in dev: %v", err)
	}
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	coreCfg := &config.CoreConfig{Env: "dev"}

	if err := EnsureSchema(ctx, coreCfg, validAppConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Running it again must be a no-op, not an error.
	if err := EnsureSchema(ctx, coreCfg, validAppConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema second run failed: %v", err)
	}
}
