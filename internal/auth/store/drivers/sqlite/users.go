package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByNormalizedEmail(ctx, normalize(email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByNormalizedUsername(ctx, normalize(username))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                   u.ID,
		Username:             u.Username,
		NormalizedUsername:   normalize(u.Username),
		Email:                u.Email,
		NormalizedEmail:      normalize(u.Email),
		FullName:             u.FullName,
		ProfilePictureUrl:    mapOptionalString(u.ProfilePictureURL),
		PasswordHash:         u.PasswordHash,
		EmailConfirmed:       u.EmailConfirmed,
		TwoFactorEnabled:     u.TwoFactorEnabled,
		NeedToChangePassword: u.NeedToChangePassword,
		AuthenticatorKey:     mapOptionalString(u.AuthenticatorKey),
		CreatedAt:            unix(u.CreatedAt),
		UpdatedAt:            unix(u.UpdatedAt),
	})
	return mapUniqueViolation(err)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, hash string, needToChange bool) error {
	return requireRow(r.q.UpdateUserPassword(ctx, gen.UpdateUserPasswordParams{
		PasswordHash:         hash,
		NeedToChangePassword: needToChange,
		UpdatedAt:            unix(time.Now()),
		ID:                   userID,
	}))
}

func (r *usersRepo) ConfirmEmail(ctx context.Context, userID string) error {
	return requireRow(r.q.ConfirmUserEmail(ctx, gen.ConfirmUserEmailParams{
		UpdatedAt: unix(time.Now()),
		ID:        userID,
	}))
}

func (r *usersRepo) SetAuthenticatorKey(ctx context.Context, userID, key string) error {
	return requireRow(r.q.SetUserAuthenticatorKey(ctx, gen.SetUserAuthenticatorKeyParams{
		AuthenticatorKey: sql.NullString{String: key, Valid: key != ""},
		UpdatedAt:        unix(time.Now()),
		ID:               userID,
	}))
}

func (r *usersRepo) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	if enabled {
		return requireRow(r.q.EnableUserTwoFactor(ctx, gen.EnableUserTwoFactorParams{
			UpdatedAt: unix(time.Now()),
			ID:        userID,
		}))
	}
	return requireRow(r.q.DisableUserTwoFactor(ctx, gen.DisableUserTwoFactorParams{
		UpdatedAt: unix(time.Now()),
		ID:        userID,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.q.DeleteUser(ctx, userID)
}
