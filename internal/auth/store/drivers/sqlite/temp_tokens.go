package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite/gen"
)

type tempTokensRepo struct {
	q *gen.Queries
}

func (r *tempTokensRepo) CreateTempToken(ctx context.Context, t domain.TempToken) error {
	err := r.q.CreateTempToken(ctx, gen.CreateTempTokenParams{
		TokenHash: t.TokenHash,
		UserID:    t.UserID,
		ExpiresAt: unix(t.ExpiresAt),
		CreatedAt: unix(t.CreatedAt),
	})
	return mapUniqueViolation(err)
}

func (r *tempTokensRepo) GetTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error) {
	row, err := r.q.GetTempToken(ctx, gen.GetTempTokenParams{
		TokenHash: tokenHash,
		ExpiresAt: unix(now),
	})
	if err != nil {
		return domain.TempToken{}, mapNotFound(err)
	}
	return mapTempToken(row), nil
}

// TakeTempToken deletes the row unconditionally so an expired token is
// cleaned up on first touch, then reports it as not found.
func (r *tempTokensRepo) TakeTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error) {
	row, err := r.q.TakeTempToken(ctx, tokenHash)
	if err != nil {
		return domain.TempToken{}, mapNotFound(err)
	}
	t := mapTempToken(row)
	if t.Expired(now) {
		return domain.TempToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *tempTokensRepo) DeleteExpiredTempTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredTempTokens(ctx, unix(now))
}
