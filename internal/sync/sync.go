// Package sync orchestrates a full synchronization run: permission check,
// snapshot extraction, first-run seeding, persistence, notification dispatch,
// and widget refresh.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
	"github.com/malotru/jourj/internal/notify"
)

// Status is the terminal state of one sync run.
type Status int

const (
	// StatusSuccess means a fresh snapshot was persisted.
	StatusSuccess Status = iota
	// StatusError means the run failed before persisting anything.
	StatusError
	// StatusSkipped means the run did not attempt extraction (background run
	// without a readable source).
	StatusSkipped
)

// String returns a stable name for logging and CLI output.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// Result summarizes one sync run.
type Result struct {
	Status   Status
	Count    int // contacts persisted
	Notified int // notifications dispatched
	Err      error
}

// SnapshotStore persists complete contact snapshots.
type SnapshotStore interface {
	ReplaceAll(ctx context.Context, snapshot []contacts.Contact) error
}

// FilterSettings supplies the filter state and notification knobs.
type FilterSettings interface {
	Rules() filter.Rules
	LeadDays() []int
	SeedIfNeeded(universe []string) (bool, error)
}

// Widget is the surface refreshed after every successful sync.
type Widget interface {
	Refresh(ctx context.Context) error
}

// Orchestrator runs the sync pipeline. Concurrent Run calls collapse to a
// single in-flight execution whose result is shared.
type Orchestrator struct {
	Source    contacts.Source
	Extractor *contacts.Extractor
	Store     SnapshotStore
	Settings  FilterSettings
	Notifier  notify.Notifier
	Widget    Widget

	// NotifTitle and NotifBody render localized reminder text.
	NotifTitle func(name string) string
	NotifBody  func(name string, days, age int) string

	flight singleflight.Group
}

// Run executes one synchronization. Side-effect failures after the snapshot
// is persisted (notifications, widget refresh) are logged but never alter
// the result: the persisted data is the source of truth.
//
// A source that is not readable skips a background run but fails a
// user-initiated one, so the user gets an actionable error while scheduled
// runs stay quiet.
func (o *Orchestrator) Run(ctx context.Context, userInitiated bool) Result {
	v, _, _ := o.flight.Do(config.SyncFlightKey, func() (interface{}, error) {
		return o.run(ctx, userInitiated), nil
	})
	return v.(Result)
}

func (o *Orchestrator) run(ctx context.Context, userInitiated bool) Result {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompSync)
	log.InfoContext(ctx, config.MsgSyncStarted)

	if status := o.Source.AuthStatus(ctx); status != contacts.AuthAuthorized {
		log.Warn(config.MsgSyncSkipped, config.LogKeyStatus, string(status))
		if userInitiated {
			return Result{Status: StatusError, Err: errors.New(config.ErrPermissionRead)}
		}
		return Result{Status: StatusSkipped}
	}

	snapshot, err := o.Extractor.Snapshot(ctx)
	if err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		return Result{Status: StatusError, Err: err}
	}

	// Seeding happens before persistence so the first snapshot is fully
	// visible the moment it lands. A seeding write failure is not fatal; the
	// next run retries it.
	if _, err := o.Settings.SeedIfNeeded(filter.Universe(snapshot)); err != nil {
		log.Warn(config.ErrSettingsWrite, config.LogKeyError, err)
	}

	if err := o.Store.ReplaceAll(ctx, snapshot); err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		return Result{Status: StatusError, Err: err}
	}

	notified := o.dispatchNotifications(ctx, snapshot)

	if o.Widget != nil {
		if err := o.Widget.Refresh(ctx); err != nil {
			log.Warn(config.ErrWidgetRefresh, config.LogKeyError, err)
		}
	}

	log.Info(config.MsgSyncSuccess,
		config.LogKeyCount, len(snapshot),
		config.LogKeyNotified, notified,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return Result{Status: StatusSuccess, Count: len(snapshot), Notified: notified}
}

// dispatchNotifications sends a reminder for every eligible contact whose
// birthday is exactly a configured lead-day count away. Dispatch errors are
// logged per contact and never fail the sync.
func (o *Orchestrator) dispatchNotifications(ctx context.Context, snapshot []contacts.Contact) int {
	if o.Notifier == nil {
		return 0
	}
	log := slog.With(config.LogKeyComponent, config.CompSync)

	if err := o.Notifier.Register(ctx, notify.Channel{
		ID:          config.NotifyChannelID,
		Name:        config.NotifyChannelName,
		Description: config.NotifyChannelDesc,
		Importance:  notify.ImportanceDefault,
	}); err != nil {
		log.Warn(config.ErrNotifyDispatch, config.LogKeyError, err)
		return 0
	}

	rules := o.Settings.Rules()
	lead := make(map[int]struct{})
	for _, d := range o.Settings.LeadDays() {
		lead[d] = struct{}{}
	}

	notified := 0
	for _, c := range snapshot {
		if !filter.Notifiable(c, rules) {
			continue
		}
		if _, due := lead[c.RemainingDays]; !due {
			continue
		}

		n := notify.Notification{
			ID:        notify.IDFor(c.Name),
			ChannelID: config.NotifyChannelID,
			Title:     c.Name,
			Body:      c.Name,
		}
		if o.NotifTitle != nil {
			n.Title = o.NotifTitle(c.Name)
		}
		if o.NotifBody != nil {
			n.Body = o.NotifBody(c.Name, c.RemainingDays, c.Age)
		}

		if err := o.Notifier.Send(ctx, n); err != nil {
			log.Warn(config.ErrNotifyDispatch,
				config.LogKeyName, c.Name,
				config.LogKeyError, err,
			)
			continue
		}
		notified++
	}
	return notified
}
