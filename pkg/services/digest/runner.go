package digest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = 24 * time.Hour

type Runner struct {
	service  *Service
	interval time.Duration
	done     chan struct{}
}

func NewRunner(service *Service, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Run checks for a new day once immediately and then on every interval until
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.service.SendNew(ctx); err != nil {
			logger.Error().Err(err).Msg("digest run failed")
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("digest runner stopped")
			return
		case <-ticker.C:
		}
	}
}
