// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for HostelHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, access_token_secret, etc.
//   - Environment variables: HOSTELHUB_MONGO_URI, HOSTELHUB_ACCESS_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --access_token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hostelhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// JWT signing. The dev defaults are deliberately weak; ValidateConfig
	// rejects them outside dev.
	{Name: "access_token_secret", Default: "dev-only-access-secret", Desc: "HMAC secret for access tokens"},
	{Name: "refresh_token_secret", Default: "dev-only-refresh-secret", Desc: "HMAC secret for refresh tokens"},
	{Name: "access_token_expiry", Default: "15m", Desc: "Access token lifetime (e.g., 15m, 1h)"},
	{Name: "refresh_token_expiry", Default: "240h", Desc: "Refresh token lifetime (e.g., 240h for 10 days)"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 20, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_ip_window", Default: "15m", Desc: "Window for the per-IP login limit"},
	{Name: "login_account_limit", Default: 5, Desc: "Login attempts allowed per account per window"},
	{Name: "login_account_window", Default: "15m", Desc: "Window for the per-account login limit"},

	// SuperAdmin bootstrap
	{Name: "allow_super_admin_creation", Default: false, Desc: "Enable the one-time super admin creation endpoint"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HOSTELHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HOSTELHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AccessTokenSecret:  appValues.String("access_token_secret"),
		RefreshTokenSecret: appValues.String("refresh_token_secret"),
		AccessTokenTTL:     appValues.Duration("access_token_expiry", 15*time.Minute),
		RefreshTokenTTL:    appValues.Duration("refresh_token_expiry", 240*time.Hour),

		LoginIPLimit:       appValues.Int("login_ip_limit"),
		LoginIPWindow:      appValues.Duration("login_ip_window", 15*time.Minute),
		LoginAccountLimit:  appValues.Int("login_account_limit"),
		LoginAccountWindow: appValues.Duration("login_account_window", 15*time.Minute),

		AllowSuperAdminCreation: appValues.Bool("allow_super_admin_creation"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AccessTokenSecret == appCfg.RefreshTokenSecret {
		return fmt.Errorf("access_token_secret and refresh_token_secret must differ")
	}

	// The dev defaults must never reach a real deployment.
	if coreCfg.Env != "dev" {
		if appCfg.AccessTokenSecret == "dev-only-access-secret" || appCfg.RefreshTokenSecret == "dev-only-refresh-secret" {
			return fmt.Errorf("token secrets must be set explicitly when env is %q", coreCfg.Env)
		}
	}

	return nil
}
