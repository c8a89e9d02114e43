// Package jobs holds the background workers started alongside the HTTP
// server.
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/liahub/liahub-backend/internal/app/services"
)

// SweepConfig controls the failed-notification retry job.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
	Timeout  time.Duration
}

// StartNotificationSweep retries company notifications whose last attempt
// failed. Delivered records are never touched again, so the sweep is safe
// to run as often as configured.
func StartNotificationSweep(ctx context.Context, cfg SweepConfig, notifications *services.NotificationService, logger zerolog.Logger) {
	if !cfg.Enabled {
		return
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := logger.With().Str("job", "notification_sweep").Logger()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				delivered, err := notifications.RetryFailedCompanyNotifications(tickCtx)
				cancel()
				if err != nil {
					log.Error().Err(err).Msg("Notification sweep failed")
					continue
				}
				if delivered > 0 {
					log.Info().Int("delivered", delivered).Msg("Notification sweep delivered retries")
				}
			}
		}
	}()
}
