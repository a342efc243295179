package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
)

// Alarm fires at the configured notification time each day, independently of
// the coarse cron schedule, so reminders land at the exact minute. When the
// alarm cannot be scheduled the daily job still covers delivery, just less
// precisely.
type Alarm struct {
	Clock    contacts.Clock
	Settings TimeSource

	// Fire is invoked at each scheduled time.
	Fire func(ctx context.Context)
}

// Start runs the alarm loop until ctx is cancelled. After each firing the
// alarm reschedules itself for the next day, re-reading the configured time
// so settings changes take effect without a restart.
func (a *Alarm) Start(ctx context.Context) {
	if a.Fire == nil {
		slog.Warn(config.ErrAlarmSchedule, config.LogKeyComponent, config.CompScheduler)
		return
	}

	for {
		next := a.nextFire()
		slog.Debug(config.MsgAlarmScheduled,
			config.LogKeyComponent, config.CompScheduler,
			config.LogKeyNext, next,
		)

		timer := time.NewTimer(next.Sub(a.Clock.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompScheduler)
			return
		case <-timer.C:
			slog.Info(config.MsgAlarmFired, config.LogKeyComponent, config.CompScheduler)
			a.Fire(ctx)
		}
	}
}

// nextFire returns the next occurrence of the configured wall-clock time,
// today if still ahead, otherwise tomorrow.
func (a *Alarm) nextFire() time.Time {
	now := a.Clock.Now()
	hour, minute := a.Settings.NotifyTime()

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
