// Package cleanup runs the background sweeper that purges expired and
// revoked refresh token records.
package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/mbaumgart/identity-server/internal/logging"
	"github.com/mbaumgart/identity-server/internal/server/refreshtokens"
)

// Service periodically deletes refresh token records that can never be used
// again. One purge runs immediately on Start, then one per interval until
// Stop. A failed purge is logged and swallowed; the next scheduled run
// proceeds normally.
//
// The service owns its own goroutine and timer; its lifetime is tied to the
// context passed to Start and to explicit Stop calls. It is not safe to run
// concurrently in several processes without an external lock, which is an
// accepted limitation: concurrent purges are redundant but harmless.
type Service struct {
	repo     refreshtokens.Repository
	interval time.Duration
	logger   logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewService(repo refreshtokens.Repository, interval time.Duration, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		interval: interval,
		logger:   logger.With("module", "cleanup"),
	}
}

// Start launches the sweeper goroutine. Calling Start while the sweeper is
// already running is a logged no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.logger.Warn(ctx, "cleanup service is already running")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, s.done)
}

// Stop cancels the sweeper and waits until its goroutine has exited, so no
// purge fires after Stop returns. Stopping a stopped service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	s.logger.Info(context.Background(), "cleanup service stopped")
}

func (s *Service) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.logger.Info(ctx, "cleanup service started", "interval", s.interval)

	// run once immediately, then on the ticker
	s.purge(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purge(ctx)
		}
	}
}

func (s *Service) purge(ctx context.Context) {
	count, err := s.repo.PurgeExpiredOrRevoked(ctx)
	if err != nil {
		s.logger.Error(ctx, "token cleanup failed", "error", err)
		return
	}

	s.logger.Info(ctx, "token cleanup completed", "purged", count)
}
