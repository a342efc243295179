package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
	"github.com/malotru/jourj/internal/settings"
)

// SnapshotReader supplies the persisted contact snapshot.
type SnapshotReader interface {
	All(ctx context.Context) ([]contacts.Contact, error)
}

// RuleSource supplies the filter state and its change stream.
type RuleSource interface {
	Rules() filter.Rules
	Watch(ctx context.Context) (<-chan settings.Event, error)
}

// Model keeps a live Views derivation: it recomputes whenever the filter
// state changes on disk or a sync lands a new snapshot, and publishes each
// derivation on Updates.
type Model struct {
	Snapshots SnapshotReader
	Settings  RuleSource

	mu      sync.Mutex
	query   string
	current Views

	updates chan Views
	poke    chan struct{}
}

// NewModel creates an idle model; call Run to start it.
func NewModel(snapshots SnapshotReader, rules RuleSource) *Model {
	return &Model{
		Snapshots: snapshots,
		Settings:  rules,
		updates:   make(chan Views, config.ChannelBufferSize),
		poke:      make(chan struct{}, config.ChannelBufferSize),
	}
}

// Updates streams each fresh derivation. Slow consumers only miss
// intermediate states, never the latest one: Current always has it.
func (m *Model) Updates() <-chan Views {
	return m.updates
}

// Current returns the most recent derivation.
func (m *Model) Current() Views {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SetQuery updates the drawer search query and triggers a recompute.
func (m *Model) SetQuery(q string) {
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
	m.Poke()
}

// Poke requests a recompute, typically after a sync replaces the snapshot.
func (m *Model) Poke() {
	select {
	case m.poke <- struct{}{}:
	default:
	}
}

// Run computes the initial derivation and then reacts to settings changes
// and pokes until ctx is cancelled.
func (m *Model) Run(ctx context.Context) error {
	events, err := m.Settings.Watch(ctx)
	if err != nil {
		return err
	}

	m.recompute(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompView)
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			m.recompute(ctx)
		case <-m.poke:
			m.recompute(ctx)
		}
	}
}

func (m *Model) recompute(ctx context.Context) {
	snapshot, err := m.Snapshots.All(ctx)
	if err != nil {
		slog.Warn(config.ErrSnapshotFailed,
			config.LogKeyComponent, config.CompView,
			config.LogKeyError, err,
		)
		return
	}

	m.mu.Lock()
	query := m.query
	m.mu.Unlock()

	views := Derive(snapshot, m.Settings.Rules(), query)

	m.mu.Lock()
	m.current = views
	m.mu.Unlock()

	select {
	case m.updates <- views:
	default:
	}

	slog.Debug(config.MsgViewsRecomputed,
		config.LogKeyComponent, config.CompView,
		config.LogKeyCount, len(views.Drawer),
	)
}
