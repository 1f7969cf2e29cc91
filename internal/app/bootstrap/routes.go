// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/am1456/hostelhub/internal/app/features/admin"
	healthfeature "github.com/am1456/hostelhub/internal/app/features/health"
	hostelsfeature "github.com/am1456/hostelhub/internal/app/features/hostels"
	roomsfeature "github.com/am1456/hostelhub/internal/app/features/rooms"
	stafffeature "github.com/am1456/hostelhub/internal/app/features/staff"
	studentsfeature "github.com/am1456/hostelhub/internal/app/features/students"
	usersfeature "github.com/am1456/hostelhub/internal/app/features/users"
	wardensfeature "github.com/am1456/hostelhub/internal/app/features/wardens"
	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	profilestore "github.com/am1456/hostelhub/internal/app/store/profiles"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	staffstore "github.com/am1456/hostelhub/internal/app/store/staff"
	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/metrics"
	"github.com/am1456/hostelhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. At this point config, DBDeps,
// and the fully configured zap.Logger are available.
//
// HostelHub builds the token service and auth middleware, then mounts
// one feature router per URL area: health, metrics, hostel and room
// provisioning, the user credential space (login/refresh), and the four
// role routers (admin, warden, student, staff).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  []byte(appCfg.AccessTokenSecret),
		RefreshSecret: []byte(appCfg.RefreshTokenSecret),
		AccessTTL:     appCfg.AccessTokenTTL,
		RefreshTTL:    appCfg.RefreshTokenTTL,
	})
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	users := userstore.New(db)
	hostels := hostelstore.New(db)
	rooms := roomstore.New(db)
	staff := staffstore.New(db)
	complaints := complaintstore.New(db)
	profiles := profilestore.New(db)

	// The middleware loads a fresh principal from the database on every
	// request, so role changes and deletions take effect immediately.
	mw := &auth.Middleware{
		Tokens: tokens,
		Users:  userstore.NewFetcher(db),
		Staff:  staffstore.NewFetcher(db),
		Log:    logger,
	}

	limiter := ratelimit.NewLoginLimiter(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginAccountLimit, appCfg.LoginAccountWindow,
	)

	r := chi.NewRouter()
	r.Use(metrics.Instrument)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	// Hostel and room provisioning
	hostelsHandler := hostelsfeature.NewHandler(hostels, rooms, logger)
	r.Mount("/hostel", hostelsfeature.Routes(hostelsHandler, mw))

	roomsHandler := roomsfeature.NewHandler(hostels, rooms, logger)
	r.Mount("/room", roomsfeature.Routes(roomsHandler, mw))

	// User credential space: login, refresh, forgot-password
	accountHandler := usersfeature.NewHandler(users, tokens, limiter, secure, logger)
	r.Mount("/user", usersfeature.Routes(accountHandler))

	// Role routers. Each mounts logout and change-password from the
	// account handler under its own prefix.
	adminHandler := adminfeature.NewHandler(users, hostels, rooms, profiles, appCfg.AllowSuperAdminCreation, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, accountHandler, mw))

	wardensHandler := wardensfeature.NewHandler(users, logger)
	r.Mount("/warden", wardensfeature.Routes(wardensHandler, accountHandler, mw))

	studentsHandler := studentsfeature.NewHandler(complaints, profiles, logger)
	r.Mount("/student", studentsfeature.Routes(studentsHandler, accountHandler, mw))

	// Staff credential space: phone+PIN login plus the task queue
	staffHandler := stafffeature.NewHandler(staff, complaints, tokens, limiter, secure, logger)
	r.Mount("/staff", stafffeature.Routes(staffHandler, mw))

	return r, nil
}
