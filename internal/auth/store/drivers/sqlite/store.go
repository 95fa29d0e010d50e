package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite/gen"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// DSN builds a connection string for the database file at path with the
// pragmas the store relies on.
func DSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path,
	)
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Pragmas in the DSN apply per connection; this one is checked eagerly so
	// a bad DSN fails at startup.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users           { return &usersRepo{q: s.q} }
func (s *Store) Roles() store.Roles           { return &rolesRepo{q: s.q} }
func (s *Store) UserTokens() store.UserTokens { return &userTokensRepo{q: s.q} }
func (s *Store) TempTokens() store.TempTokens { return &tempTokensRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUniqueViolation turns a UNIQUE or PRIMARY KEY constraint failure into
// store.ErrAlreadyExists.
func mapUniqueViolation(err error) error {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
		}
	}
	return err
}

// requireRow maps a zero-row update to store.ErrNotFound.
func requireRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func unix(t time.Time) int64 { return t.Unix() }

func fromUnix(v int64) time.Time { return time.Unix(v, 0).UTC() }

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:                   row.ID,
		Username:             row.Username,
		Email:                row.Email,
		FullName:             row.FullName,
		ProfilePictureURL:    mapNullStringPtr(row.ProfilePictureUrl),
		PasswordHash:         row.PasswordHash,
		EmailConfirmed:       row.EmailConfirmed,
		TwoFactorEnabled:     row.TwoFactorEnabled,
		NeedToChangePassword: row.NeedToChangePassword,
		AuthenticatorKey:     mapNullStringPtr(row.AuthenticatorKey),
		CreatedAt:            fromUnix(row.CreatedAt),
		UpdatedAt:            fromUnix(row.UpdatedAt),
	}
}

func mapRole(row gen.Role) domain.Role {
	return domain.Role{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: fromUnix(row.CreatedAt),
	}
}

func mapUserToken(row gen.UserToken) domain.UserToken {
	return domain.UserToken{
		ID:        row.ID,
		UserID:    row.UserID,
		Purpose:   domain.TokenPurpose(row.Purpose),
		TokenHash: row.TokenHash,
		ExpiresAt: fromUnix(row.ExpiresAt),
		CreatedAt: fromUnix(row.CreatedAt),
	}
}

func mapTempToken(row gen.TempToken) domain.TempToken {
	return domain.TempToken{
		TokenHash: row.TokenHash,
		UserID:    row.UserID,
		ExpiresAt: fromUnix(row.ExpiresAt),
		CreatedAt: fromUnix(row.CreatedAt),
	}
}
