package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/malotru/jourj/internal/config"
)

// Event is emitted by Watch when a settings key changes on disk.
type Event struct {
	// Key is the settings key that changed, or "" when the change could not
	// be attributed and subscribers should refresh everything.
	Key string
}

// Watch streams change events until ctx is cancelled. Rapid bursts of writes
// are coalesced so subscribers recompute once per burst instead of once per
// file operation. The channel closes when ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("settings: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop when the subscriber lags; the next refresh picks the
				// change up and a stalled consumer cannot block the watcher.
			}
		}

		throttle := newEventThrottle(config.WatchThrottle)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(Event{Key: KeyForPath(filepath.Base(evt.Name))}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so subscribers redraw
// once per burst of write activity instead of on every single file event.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for key := range pending {
		send(Event{Key: key})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
