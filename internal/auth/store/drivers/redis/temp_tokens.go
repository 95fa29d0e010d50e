package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"

	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "coursehub:2fa:temp:"

// TempTokens implements store.TempTokens. Keys expire with the token, so
// housekeeping has nothing to do.
type TempTokens struct {
	client *goredis.Client
	prefix string
}

var _ store.TempTokens = (*TempTokens)(nil)

func NewTempTokens(client *goredis.Client) *TempTokens {
	return &TempTokens{client: client, prefix: defaultKeyPrefix}
}

type tempTokenRecord struct {
	UserID    string `json:"uid"`
	ExpiresAt int64  `json:"exp"`
	CreatedAt int64  `json:"iat"`
}

func (s *TempTokens) key(tokenHash string) string {
	return s.prefix + tokenHash
}

func (s *TempTokens) CreateTempToken(ctx context.Context, t domain.TempToken) error {
	// Both timestamps come from the caller's clock; the wall clock here may
	// disagree with it.
	ttl := t.ExpiresAt.Sub(t.CreatedAt)
	if t.CreatedAt.IsZero() {
		ttl = time.Until(t.ExpiresAt)
	}
	if ttl <= 0 {
		return fmt.Errorf("redis: temp token already expired at %s", t.ExpiresAt.Format(time.RFC3339))
	}

	b, err := json.Marshal(tempTokenRecord{
		UserID:    t.UserID,
		ExpiresAt: t.ExpiresAt.Unix(),
		CreatedAt: t.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.key(t.TokenHash), b, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis: store temp token: %w", err)
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *TempTokens) GetTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error) {
	b, err := s.client.Get(ctx, s.key(tokenHash)).Bytes()
	return s.decode(tokenHash, b, err, now)
}

func (s *TempTokens) TakeTempToken(ctx context.Context, tokenHash string, now time.Time) (domain.TempToken, error) {
	b, err := s.client.GetDel(ctx, s.key(tokenHash)).Bytes()
	return s.decode(tokenHash, b, err, now)
}

func (s *TempTokens) DeleteExpiredTempTokens(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Ping checks the Redis connection.
func (s *TempTokens) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *TempTokens) Close() error {
	return s.client.Close()
}

func (s *TempTokens) decode(tokenHash string, b []byte, err error, now time.Time) (domain.TempToken, error) {
	if errors.Is(err, goredis.Nil) {
		return domain.TempToken{}, store.ErrNotFound
	}
	if err != nil {
		return domain.TempToken{}, fmt.Errorf("redis: read temp token: %w", err)
	}

	var rec tempTokenRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.TempToken{}, fmt.Errorf("redis: decode temp token: %w", err)
	}

	t := domain.TempToken{
		TokenHash: tokenHash,
		UserID:    rec.UserID,
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC(),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC(),
	}
	// Key TTLs have second granularity and clocks drift.
	if t.Expired(now) {
		return domain.TempToken{}, store.ErrNotFound
	}
	return t, nil
}
