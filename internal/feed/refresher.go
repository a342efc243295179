package feed

import (
	"context"
	"log/slog"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
)

// SnapshotReader supplies the persisted contact snapshot.
type SnapshotReader interface {
	All(ctx context.Context) ([]contacts.Contact, error)
}

// RuleReader supplies the widget surface's filter state and item cap.
type RuleReader interface {
	Selection(surface string) filter.Selection
	Rules() filter.Rules
	WidgetCount() int
}

// Refresher recomputes the widget feed from the persisted snapshot and the
// current filter state, then swaps the served payload.
type Refresher struct {
	Snapshots SnapshotReader
	Settings  RuleReader
	Builder   *Builder
	Server    *Server
}

// Refresh rebuilds the feed. The widget shows the soonest upcoming birthdays
// that survive widget-surface filtering, capped at the configured count.
func (r *Refresher) Refresh(ctx context.Context) error {
	snapshot, err := r.Snapshots.All(ctx)
	if err != nil {
		return err
	}

	sel := r.Settings.Selection(config.SurfaceWidget)
	blocked := r.Settings.Rules().Blocked
	visible := filter.Visible(snapshot, sel, blocked, "")

	if limit := r.Settings.WidgetCount(); limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}

	data, err := r.Builder.Build(visible)
	if err != nil {
		return err
	}
	r.Server.Update(data)

	slog.Debug(config.MsgWidgetRefresh,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyCount, len(visible),
	)
	return nil
}
