// Package scheduler drives background work: a daily resync job and an exact
// wall-clock alarm for notification delivery at the configured time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/malotru/jourj/internal/config"
)

// BatteryGuard lets the host veto background work under power constraints.
type BatteryGuard interface {
	Allow() bool
}

// AlwaysAllow is the default guard: background work is never vetoed.
type AlwaysAllow struct{}

// Allow always reports true.
func (AlwaysAllow) Allow() bool { return true }

// TimeSource supplies the configured daily notification time.
type TimeSource interface {
	NotifyTime() (hour, minute int)
}

// Daily schedules one background sync per day at the notification time.
type Daily struct {
	Settings TimeSource
	Guard    BatteryGuard

	// Job runs the background sync. It receives a background-flavored
	// context because cron fires outside any request.
	Job func(ctx context.Context)

	cron *cron.Cron
}

// Start registers the cron entry and runs until ctx is cancelled.
func (d *Daily) Start(ctx context.Context) error {
	hour, minute := d.Settings.NotifyTime()
	spec := fmt.Sprintf(config.FormatCronDaily, minute, hour)

	guard := d.Guard
	if guard == nil {
		guard = AlwaysAllow{}
	}

	c := cron.New()
	entryID, err := c.AddFunc(spec, func() {
		if !guard.Allow() {
			slog.Info(config.MsgDailySkipped, config.LogKeyComponent, config.CompScheduler)
			return
		}
		d.Job(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron spec %q: %w", spec, err)
	}
	d.cron = c
	c.Start()

	slog.Info(config.MsgDailySchedule,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeySpec, spec,
		config.LogKeyNext, c.Entry(entryID).Next,
	)

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
