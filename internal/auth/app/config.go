package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	authhttp "github.com/aussiebroadwan/coursehub/internal/auth/http"
	"github.com/aussiebroadwan/coursehub/internal/auth/mail"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/coursehub/pkg/jwtx"
)

// Temp token backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var ErrInvalidConfig = errors.New("app: invalid config")

type Config struct {
	Env                  string        `env:"ENV" envDefault:"dev"`           // dev, staging, prod
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`    // debug, info, warn, error
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`   // json, text
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	PepperFile   string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`

	// Session tokens
	Issuer     string        `env:"AUTH_JWT_ISSUER" envDefault:"coursehub"`
	Audience   []string      `env:"AUTH_JWT_AUDIENCE" envSeparator:"," envDefault:"coursehub-web"`
	SigningKey string        `env:"AUTH_JWT_SIGNING_KEY"` // at least 32 bytes
	KeyID      string        `env:"AUTH_JWT_KEY_ID"`
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	TempTokenTTL    time.Duration `env:"AUTH_TEMP_TOKEN_TTL" envDefault:"5m"`
	ResetTokenTTL   time.Duration `env:"AUTH_RESET_TOKEN_TTL" envDefault:"1h"`
	ConfirmTokenTTL time.Duration `env:"AUTH_CONFIRM_TOKEN_TTL" envDefault:"24h"`

	// AppBaseURL is the public prefix of this service's auth routes;
	// confirmation links are built from it.
	AppBaseURL            string `env:"AUTH_APP_BASE_URL" envDefault:"http://localhost:8080/v1/auth"`
	ClientBaseURL         string `env:"AUTH_CLIENT_BASE_URL" envDefault:"http://localhost:3000"`
	DefaultProfilePicture string `env:"AUTH_DEFAULT_PROFILE_PICTURE" envDefault:"/images/default-profile.png"`
	TOTPIssuer            string `env:"AUTH_TOTP_ISSUER" envDefault:"CourseHub"`

	TempTokenBackend string `env:"AUTH_TEMP_TOKEN_BACKEND" envDefault:"sqlite"`
	Redis            redis.Config

	Mail mail.Config

	RateLimits authhttp.RateLimits `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	// The .env file is optional
	_ = godotenv.Load()
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg := Config{RateLimits: authhttp.DefaultRateLimits()}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if len(c.SigningKey) < jwtx.MinHS256KeyLength {
		fail("AUTH_JWT_SIGNING_KEY must be at least %d bytes", jwtx.MinHS256KeyLength)
	}
	if c.Issuer == "" {
		fail("AUTH_JWT_ISSUER is required")
	}
	if len(c.Audience) == 0 {
		fail("AUTH_JWT_AUDIENCE is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		fail("PORT %d out of range", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"AUTH_SESSION_TTL":       c.SessionTTL,
		"AUTH_TEMP_TOKEN_TTL":    c.TempTokenTTL,
		"AUTH_RESET_TOKEN_TTL":   c.ResetTokenTTL,
		"AUTH_CONFIRM_TOKEN_TTL": c.ConfirmTokenTTL,
	} {
		if d <= 0 {
			fail("%s must be positive", name)
		}
	}
	for name, raw := range map[string]string{
		"AUTH_APP_BASE_URL":    c.AppBaseURL,
		"AUTH_CLIENT_BASE_URL": c.ClientBaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			fail("%s must be an absolute URL, got %q", name, raw)
		}
	}
	switch c.TempTokenBackend {
	case BackendSQLite, BackendRedis:
	default:
		fail("unknown AUTH_TEMP_TOKEN_BACKEND %q", c.TempTokenBackend)
	}
	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
