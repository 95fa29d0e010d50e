package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/coursehub/internal/auth/http"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/internal/auth/mail"
	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/coursehub/pkg/cryptox"
	"github.com/aussiebroadwan/coursehub/pkg/jwtx"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	productName = "CourseHub"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          *sqlite.Store
	tempTokens  store.TempTokens
	redisTokens *redis.TempTokens // nil unless AUTH_TEMP_TOKEN_BACKEND=redis
	mailer      mail.Sender
	signer      *jwtx.HS256Signer
	verifier    *jwtx.HS256Verifier
	credentials *identity.Manager

	// Services
	tokenService        *service.TokenService
	twoFactorService    *service.TwoFactorService
	tempTokenService    *service.TempTokenService
	passwordService     *service.PasswordService
	registrationService *service.RegistrationService
	loginService        *service.LoginService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initTempTokens(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.String("temp_token_backend", app.cfg.TempTokenBackend),
		slog.String("mail_provider", app.cfg.Mail.Provider),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redisTokens != nil {
		if err := app.redisTokens.Close(); err != nil {
			app.logger.Error("error closing redis", slogx.Err(err))
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	app.logger.Info("database migrations applied successfully",
		slog.String("file", app.cfg.DatabaseFile),
		slog.Uint64("schema_version", uint64(version)),
	)
	return nil
}

// initTempTokens picks where 2FA temp tokens live.
func (app *Application) initTempTokens(ctx context.Context) error {
	if app.cfg.TempTokenBackend != BackendRedis {
		app.tempTokens = app.db.TempTokens()
		return nil
	}

	client, err := redis.Connect(ctx, app.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redisTokens = redis.NewTempTokens(client)
	app.tempTokens = app.redisTokens
	app.logger.Info("temp tokens stored in redis")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.signer, err = jwtx.NewSignerHS256(app.cfg.KeyID, []byte(app.cfg.SigningKey))
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	app.verifier, err = jwtx.NewVerifierHS256([]byte(app.cfg.SigningKey), app.cfg.Issuer, app.cfg.Audience)
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}

	app.mailer, err = mail.New(app.cfg.Mail, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create mail sender: %w", err)
	}

	app.credentials = &identity.Manager{
		Store:                app.db,
		Hasher:               cryptox.NewPasswordHasher(pepper),
		TOTPIssuer:           app.cfg.TOTPIssuer,
		ResetTokenTTL:        app.cfg.ResetTokenTTL,
		ConfirmationTokenTTL: app.cfg.ConfirmTokenTTL,
	}

	app.tokenService = &service.TokenService{
		Signer:                app.signer,
		Issuer:                app.cfg.Issuer,
		Audience:              app.cfg.Audience,
		TTL:                   app.cfg.SessionTTL,
		DefaultProfilePicture: app.cfg.DefaultProfilePicture,
	}
	app.twoFactorService = &service.TwoFactorService{
		Credentials: app.credentials,
		Issuer:      app.cfg.TOTPIssuer,
	}
	app.tempTokenService = &service.TempTokenService{
		Tokens:      app.tempTokens,
		Credentials: app.credentials,
		TwoFactor:   app.twoFactorService,
		Sessions:    app.tokenService,
		TTL:         app.cfg.TempTokenTTL,
	}
	app.passwordService = &service.PasswordService{
		Credentials:   app.credentials,
		Mailer:        app.mailer,
		ClientBaseURL: app.cfg.ClientBaseURL,
		Product:       productName,
	}
	app.registrationService = &service.RegistrationService{
		Credentials: app.credentials,
		Mailer:      app.mailer,
		AppBaseURL:  app.cfg.AppBaseURL,
		Product:     productName,
	}
	app.loginService = &service.LoginService{
		Credentials: app.credentials,
		Sessions:    app.tokenService,
		TempTokens:  app.tempTokenService,
		Passwords:   app.passwordService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.tempTokens,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.tempTokens,
		app.logger,
	)
	router.Limits = app.cfg.RateLimits

	router.Registration = app.registrationService
	router.Login = app.loginService
	router.TempTokens = app.tempTokenService
	router.TwoFactor = app.twoFactorService
	router.Passwords = app.passwordService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
