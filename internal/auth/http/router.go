package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
	"github.com/aussiebroadwan/coursehub/pkg/jwtx"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"

	_ "github.com/aussiebroadwan/coursehub/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits are the buckets applied per endpoint class.
type RateLimits struct {
	Strict   httpx.RateLimitConfig `envPrefix:"STRICT_"`
	Moderate httpx.RateLimitConfig `envPrefix:"MODERATE_"`
	Lenient  httpx.RateLimitConfig `envPrefix:"LENIENT_"`
}

// DefaultRateLimits uses the httpx presets.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store      store.Store
	tempTokens store.TempTokens

	Limits RateLimits

	Registration *service.RegistrationService
	Login        *service.LoginService
	TempTokens   *service.TempTokenService
	TwoFactor    *service.TwoFactorService
	Passwords    *service.PasswordService
}

// NewRouter creates a router. tempTokens is the store the 2FA temp tokens
// live in and is probed by /readyz alongside st.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	tempTokens store.TempTokens,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		tempTokens:   tempTokens,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccount()
	r.registerLogin()
	r.registerTwoFactor()
	r.registerPassword()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CourseHub Authentication Service API
//	@version		0.1.0
//	@description	Registration, login, two-factor authentication and password management for CourseHub.
//	@description
//	@description				Session tokens are HS256 JWTs carrying the user's identity and roles.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/coursehub
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticated requires a session token and limits per user.
func (r *Router) authenticated(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAccount() {
	h := &RegisterHandler{Registration: r.Registration}
	p := &PasswordHandler{Passwords: r.Passwords}

	// Signups and confirmations - strict by IP (each one sends or consumes an email)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/auth/register-instructor",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterInstructor),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("GET /v1/auth/confirm-email",
		httpx.Chain(http.HandlerFunc(p.HandleConfirmEmail),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{Login: r.Login, TempTokens: r.TempTokens}

	// Rate limited by IP + email to slow password guessing per account
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)

	// Temp tokens are single use, so IP alone is enough
	r.Mux.Handle("POST /v1/auth/2fa/verify-login",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyTwoFactor),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactor: r.TwoFactor}

	r.Mux.Handle("POST /v1/auth/2fa/initiate", r.authenticated(h.HandleInitiate, r.Limits.Moderate))
	// Strict: each call is a TOTP guess
	r.Mux.Handle("POST /v1/auth/2fa/confirm", r.authenticated(h.HandleConfirm, r.Limits.Strict))
	r.Mux.Handle("GET /v1/auth/2fa/status", r.authenticated(h.HandleStatus, r.Limits.Lenient))
	r.Mux.Handle("POST /v1/auth/2fa/disable", r.authenticated(h.HandleDisable, r.Limits.Moderate))
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{Passwords: r.Passwords}

	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/verify-password", r.authenticated(h.HandleVerifyPassword, r.Limits.Strict))
	r.Mux.Handle("POST /v1/auth/change-password", r.authenticated(h.HandleChangePassword, r.Limits.Strict))
}

func (r *Router) registerSystem() {
	h := &HealthHandler{
		StartTime:  r.startTime,
		Version:    r.buildVersion,
		Store:      r.store,
		TempTokens: r.tempTokens,
	}

	// Monitoring systems poll these frequently.
	r.Mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(h.HandleLivez), httpx.RateLimitByIP(r.Limits.Lenient)))
	r.Mux.Handle("GET /readyz", httpx.Chain(http.HandlerFunc(h.HandleReadyz), httpx.RateLimitByIP(r.Limits.Lenient)))
}
