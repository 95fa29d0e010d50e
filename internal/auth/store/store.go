package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can hand out the same repos bound to
// the tx.
type Store interface {
	Users() Users
	Roles() Roles
	UserTokens() UserTokens
	TempTokens() TempTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks the user up case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername looks the user up case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts u. A username or email collision returns
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePassword replaces the hash and sets the must-change flag.
	UpdatePassword(ctx context.Context, userID, hash string, needToChange bool) error

	// ConfirmEmail sets email_confirmed.
	ConfirmEmail(ctx context.Context, userID string) error

	// SetAuthenticatorKey stores the TOTP secret.
	SetAuthenticatorKey(ctx context.Context, userID, key string) error

	// SetTwoFactorEnabled toggles 2FA. Enabling a user without an
	// authenticator key returns ErrNotFound.
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error

	// DeleteUser cascades to roles and tokens.
	DeleteUser(ctx context.Context, userID string) error
}

type Roles interface {
	// GetRoleByName fetches a role case-insensitively.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts r. A name collision returns ErrAlreadyExists.
	CreateRole(ctx context.Context, r domain.Role) error

	// AddUserToRole is idempotent.
	AddUserToRole(ctx context.Context, userID, roleID string) error

	// ListUserRoles returns role names for a user, sorted by name.
	ListUserRoles(ctx context.Context, userID string) ([]string, error)
}

type UserTokens interface {
	// CreateUserToken stores a purpose-scoped token fingerprint.
	CreateUserToken(ctx context.Context, t domain.UserToken) error

	// ConsumeUserToken deletes and returns the token matching all of
	// userID, purpose and hash that is still valid at now. Anything else
	// returns ErrNotFound.
	ConsumeUserToken(ctx context.Context, userID string, purpose domain.TokenPurpose, tokenHash string, now time.Time) (domain.UserToken, error)

	// DeleteUserTokens removes every token of purpose for the user.
	DeleteUserTokens(ctx context.Context, userID string, purpose domain.TokenPurpose) error

	// DeleteExpiredUserTokens is used by housekeeping.
	DeleteExpiredUserTokens(ctx context.Context, now time.Time) (int64, error)
}

// TempTokens is a TTL key-value store of 2FA login tokens. Expired and
// unknown tokens both return ErrNotFound.
type TempTokens interface {
	CreateTempToken(ctx context.Context, t domain.TempToken) error

	// GetTempToken reads without consuming.
	GetTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error)

	// TakeTempToken atomically reads and deletes.
	TakeTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error)

	// DeleteExpiredTempTokens is used by housekeeping; stores with native
	// TTLs may return 0.
	DeleteExpiredTempTokens(ctx context.Context, now time.Time) (int64, error)
}
