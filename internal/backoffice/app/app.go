package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lumenlms/backoffice/internal/backoffice/http"
	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/lumenlms/backoffice/pkg/jwtx"
	"github.com/lumenlms/backoffice/pkg/slogx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the back office service together: store, token codecs,
// services, HTTP server and the housekeeping worker.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db           store.Store
	accessCodec  *jwtx.Codec
	refreshCodec *jwtx.Codec

	settingsService    *service.SettingsService
	auditService       *service.AuditService
	lockoutPolicy      *service.LockoutPolicy
	tokenService       *service.TokenService
	sessionService     *service.SessionService
	oauthService       *service.OAuthService
	usersService       *service.UsersService
	cascadeService     *service.CascadeService
	rolesService       *service.RolesService
	permissionsService *service.PermissionsService
	bootstrapService   *service.BootstrapService
	housekeeping       *service.Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized and the
// built-in roles and permissions seeded.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backoffice",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCodecs(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initServices()

	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.bootstrapService.Run(ctx); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("bootstrap seeding failed: %w", err)
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	app.housekeeping.Start(ctx)

	app.logger.Info("backoffice starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server, the housekeeping worker and the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down backoffice...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("backoffice stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initCodecs() error {
	access, err := jwtx.NewCodec([]byte(app.cfg.AccessTokenSecret), app.cfg.Issuer, jwtx.UseAccess)
	if err != nil {
		return fmt.Errorf("access codec: %w", err)
	}
	refresh, err := jwtx.NewCodec([]byte(app.cfg.RefreshTokenSecret), app.cfg.Issuer, jwtx.UseRefresh)
	if err != nil {
		return fmt.Errorf("refresh codec: %w", err)
	}
	app.accessCodec = access
	app.refreshCodec = refresh
	return nil
}

func (app *Application) initServices() {
	app.settingsService = &service.SettingsService{Store: app.db}
	app.auditService = &service.AuditService{Store: app.db}
	app.lockoutPolicy = &service.LockoutPolicy{
		Store:    app.db,
		Settings: app.settingsService,
	}
	app.tokenService = &service.TokenService{
		AccessCodec:  app.accessCodec,
		RefreshCodec: app.refreshCodec,
		Store:        app.db,
		Settings:     app.settingsService,
		RefreshTTL:   app.cfg.RefreshTokenTTL,
	}
	app.sessionService = &service.SessionService{
		Store:   app.db,
		Lockout: app.lockoutPolicy,
		Tokens:  app.tokenService,
		Audit:   app.auditService,
	}
	app.cascadeService = &service.CascadeService{Store: app.db}
	app.usersService = &service.UsersService{
		Store:    app.db,
		Settings: app.settingsService,
		Audit:    app.auditService,
		Cascade:  app.cascadeService,
	}
	app.rolesService = &service.RolesService{
		Store:   app.db,
		Cascade: app.cascadeService,
		Audit:   app.auditService,
	}
	app.permissionsService = &service.PermissionsService{
		Store:   app.db,
		Cascade: app.cascadeService,
		Audit:   app.auditService,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		AdminEmail:    app.cfg.BootstrapAdminEmail,
		AdminPassword: app.cfg.BootstrapAdminPassword,
	}
	app.housekeeping = &service.Housekeeping{
		Store:    app.db,
		Interval: app.cfg.HousekeepingInterval,
	}

	if app.cfg.GoogleEnabled() {
		app.oauthService = &service.OAuthService{
			Config: &oauth2.Config{
				ClientID:     app.cfg.GoogleClientID,
				ClientSecret: app.cfg.GoogleClientSecret,
				RedirectURL:  app.cfg.GoogleRedirectURL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			Store:    app.db,
			Sessions: app.sessionService,
			Audit:    app.auditService,
		}
		app.logger.Info("google login enabled")
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessCodec,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.OAuthService = app.oauthService
	router.UsersService = app.usersService
	router.RolesService = app.rolesService
	router.PermissionsService = app.permissionsService
	router.SettingsService = app.settingsService
	router.AuditService = app.auditService
	router.ClientCallbackURL = app.cfg.ClientCallbackURL
	router.ClientLoginURL = app.cfg.ClientLoginURL
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
