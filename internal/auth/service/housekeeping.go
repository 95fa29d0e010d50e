package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

// HousekeepingService periodically deletes expired confirmation, reset and
// 2FA temp tokens.
type HousekeepingService struct {
	Store      store.Store
	TempTokens store.TempTokens
	Logger     *slog.Logger
	Interval   time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults interval to one hour. tempTokens may
// differ from st.TempTokens() when 2FA tokens live in Redis.
func NewHousekeepingService(st store.Store, tempTokens store.TempTokens, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if tempTokens == nil {
		tempTokens = st.TempTokens()
	}

	return &HousekeepingService{
		Store:      st,
		TempTokens: tempTokens,
		Logger:     logger,
		Interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start runs cleanup immediately and then every Interval until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background(), time.Now())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background(), time.Now())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes records expired at now. Each step is independent so one
// failure does not block the others.
func (s *HousekeepingService) Cleanup(ctx context.Context, now time.Time) {
	var userTokens, tempTokens int64
	var err error

	if userTokens, err = s.Store.UserTokens().DeleteExpiredUserTokens(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired user tokens", slogx.Err(err))
	}
	if tempTokens, err = s.TempTokens.DeleteExpiredTempTokens(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired temp tokens", slogx.Err(err))
	}

	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("user_tokens", userTokens),
		slog.Int64("temp_tokens", tempTokens),
	)
}
