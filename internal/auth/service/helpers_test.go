package service

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/internal/auth/mail"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/coursehub/pkg/cryptox"
	"github.com/aussiebroadwan/coursehub/pkg/jwtx"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const (
	testAppBaseURL    = "https://api.coursehub.test"
	testClientBaseURL = "https://coursehub.test"
	testPassword      = "password123"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	creds    *identity.Manager
	mailer   *mockSender
	clock    *testClock
	verifier *jwtx.HS256Verifier

	sessions     *TokenService
	twoFactor    *TwoFactorService
	tempTokens   *TempTokenService
	passwords    *PasswordService
	registration *RegistrationService
	login        *LoginService

	mu   sync.Mutex
	sent []mail.Message
}

// newFixture wires every service over a fresh sqlite store. The mail mock
// accepts and records everything unless a test sets its own expectation
// first via failMail.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.NewPasswordHasher("pepper")
	hasher.Params.Memory = 1024
	hasher.Params.Iterations = 1

	f := &fixture{
		store:  st,
		mailer: &mockSender{},
		clock:  &testClock{t: time.Now().UTC().Truncate(time.Second)},
	}
	f.creds = &identity.Manager{Store: st, Hasher: hasher, TOTPIssuer: "CourseHub", Now: f.clock.Now}

	signer, err := jwtx.NewSignerHS256("test", testKey)
	require.NoError(t, err)
	f.verifier, err = jwtx.NewVerifierHS256(testKey, "coursehub", []string{"coursehub-web"})
	require.NoError(t, err)

	f.sessions = &TokenService{
		Signer:                signer,
		Issuer:                "coursehub",
		Audience:              []string{"coursehub-web"},
		TTL:                   time.Hour,
		DefaultProfilePicture: "/images/default-profile.png",
	}
	f.twoFactor = &TwoFactorService{Credentials: f.creds, Issuer: "CourseHub", Now: f.clock.Now}
	f.tempTokens = &TempTokenService{
		Tokens:      st.TempTokens(),
		Credentials: f.creds,
		TwoFactor:   f.twoFactor,
		Sessions:    f.sessions,
		TTL:         5 * time.Minute,
		Now:         f.clock.Now,
	}
	f.passwords = &PasswordService{
		Credentials:   f.creds,
		Mailer:        f.mailer,
		ClientBaseURL: testClientBaseURL,
		Product:       "CourseHub",
	}
	f.registration = &RegistrationService{
		Credentials: f.creds,
		Mailer:      f.mailer,
		AppBaseURL:  testAppBaseURL,
		Product:     "CourseHub",
	}
	f.login = &LoginService{
		Credentials: f.creds,
		Sessions:    f.sessions,
		TempTokens:  f.tempTokens,
		Passwords:   f.passwords,
		Now:         f.clock.Now,
	}
	return f
}

func (f *fixture) acceptMail() {
	f.mailer.On("Send", mock.Anything, mock.AnythingOfType("mail.Message")).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.sent = append(f.sent, args.Get(1).(mail.Message))
		}).
		Return(nil)
}

func (f *fixture) failMail(err error) {
	f.mailer.On("Send", mock.Anything, mock.AnythingOfType("mail.Message")).Return(err)
}

func (f *fixture) lastMail(t *testing.T) mail.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no mail sent")
	return f.sent[len(f.sent)-1]
}

// linkIn returns the first URL in the plain-text body of msg.
func linkIn(t *testing.T, msg mail.Message) *url.URL {
	t.Helper()
	for _, line := range strings.Split(msg.Text, "\n") {
		if strings.HasPrefix(line, "http") {
			u, err := url.Parse(strings.TrimSpace(line))
			require.NoError(t, err)
			return u
		}
	}
	t.Fatalf("no link in message %q", msg.Text)
	return nil
}

type userOpts struct {
	unconfirmed bool
	mustChange  bool
	twoFactor   bool
	extraRoles  []string
	pictureURL  *string
}

// seedUser creates a confirmed student account directly through the
// credential store. It returns the user and, when 2FA is on, the secret.
func (f *fixture) seedUser(t *testing.T, username, email string, o userOpts) (domain.User, string) {
	t.Helper()
	ctx := context.Background()

	u, err := f.creds.CreateUser(ctx, identity.NewUser{
		Username:             username,
		Email:                email,
		FullName:             strings.ToUpper(username[:1]) + username[1:] + " Example",
		Password:             testPassword,
		ProfilePictureURL:    o.pictureURL,
		NeedToChangePassword: o.mustChange,
	})
	require.NoError(t, err)
	require.NoError(t, f.creds.AddToRole(ctx, u.ID, domain.RoleStudent))
	for _, r := range o.extraRoles {
		require.NoError(t, f.creds.AddToRole(ctx, u.ID, r))
	}

	if !o.unconfirmed {
		tok, err := f.creds.GenerateToken(ctx, u.ID, domain.PurposeEmailConfirmation)
		require.NoError(t, err)
		require.NoError(t, f.creds.ConfirmEmail(ctx, u.ID, tok))
	}

	var secret string
	if o.twoFactor {
		secret, err = f.creds.ResetAuthenticatorKey(ctx, u)
		require.NoError(t, err)
		require.NoError(t, f.creds.SetTwoFactorEnabled(ctx, u.ID, true))
	}

	u, err = f.creds.FindByID(ctx, u.ID)
	require.NoError(t, err)
	return u, secret
}

func (f *fixture) code(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totpOpts)
	require.NoError(t, err)
	return code
}

// wrongCode returns a six digit code that is not valid at any step the
// validator accepts around at.
func (f *fixture) wrongCode(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	valid := map[string]bool{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		valid[f.code(t, secret, at.Add(d))] = true
	}
	for _, c := range []string{"000000", "111111", "222222", "333333"} {
		if !valid[c] {
			return c
		}
	}
	t.Fatal("unreachable")
	return ""
}

func callerFor(u domain.User) domain.AuthenticatedCaller {
	return domain.AuthenticatedCaller{UserID: u.ID, Username: u.Username, Email: u.Email}
}
