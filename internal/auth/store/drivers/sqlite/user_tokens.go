package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite/gen"
)

type userTokensRepo struct {
	q *gen.Queries
}

func (r *userTokensRepo) CreateUserToken(ctx context.Context, t domain.UserToken) error {
	err := r.q.CreateUserToken(ctx, gen.CreateUserTokenParams{
		ID:        t.ID,
		UserID:    t.UserID,
		Purpose:   string(t.Purpose),
		TokenHash: t.TokenHash,
		ExpiresAt: unix(t.ExpiresAt),
		CreatedAt: unix(t.CreatedAt),
	})
	return mapUniqueViolation(err)
}

func (r *userTokensRepo) ConsumeUserToken(
	ctx context.Context,
	userID string,
	purpose domain.TokenPurpose,
	tokenHash string,
	now time.Time,
) (domain.UserToken, error) {
	row, err := r.q.ConsumeUserToken(ctx, gen.ConsumeUserTokenParams{
		TokenHash: tokenHash,
		UserID:    userID,
		Purpose:   string(purpose),
		ExpiresAt: unix(now),
	})
	if err != nil {
		return domain.UserToken{}, mapNotFound(err)
	}
	return mapUserToken(row), nil
}

func (r *userTokensRepo) DeleteUserTokens(ctx context.Context, userID string, purpose domain.TokenPurpose) error {
	return r.q.DeleteUserTokensByPurpose(ctx, gen.DeleteUserTokensByPurposeParams{
		UserID:  userID,
		Purpose: string(purpose),
	})
}

func (r *userTokensRepo) DeleteExpiredUserTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredUserTokens(ctx, unix(now))
}
