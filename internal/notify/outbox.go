package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/malotru/jourj/internal/config"
)

// Outbox is a file-backed Notifier: each notification is written as a JSON
// document named after its id, so a desktop integration (or a test) can pick
// reminders up from disk. Re-sending an id overwrites the previous file,
// which gives us replace-not-stack semantics for free.
type Outbox struct {
	dir string

	mu       sync.Mutex
	channels map[string]Channel
}

// NewOutbox creates the outbox directory if needed.
func NewOutbox(dataDir string) (*Outbox, error) {
	dir := filepath.Join(dataDir, config.OutboxDirName)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return &Outbox{dir: dir, channels: make(map[string]Channel)}, nil
}

// Dir returns the outbox directory path.
func (o *Outbox) Dir() string {
	return o.dir
}

// Register records the channel and persists its descriptor alongside the
// notifications so consumers can render them with the right importance.
func (o *Outbox) Register(ctx context.Context, ch Channel) error {
	o.mu.Lock()
	_, known := o.channels[ch.ID]
	o.channels[ch.ID] = ch
	o.mu.Unlock()
	if known {
		return nil
	}

	data, err := json.MarshalIndent(ch, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrOutboxWrite, err)
	}
	path := filepath.Join(o.dir, "channel-"+ch.ID+".json")
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrOutboxWrite, err)
	}
	return nil
}

// Send writes the notification document, replacing any prior one with the
// same id.
func (o *Outbox) Send(ctx context.Context, n Notification) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrOutboxWrite, err)
	}

	path := filepath.Join(o.dir, fmt.Sprintf("%d.json", n.ID))
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrOutboxWrite, err)
	}

	slog.Info(config.MsgNotifSent,
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyID, n.ID,
		config.LogKeyName, n.Title,
	)
	return nil
}

// Pending lists the ids of notifications currently sitting in the outbox,
// sorted ascending. Channel descriptors are not counted.
func (o *Outbox) Pending() ([]uint32, error) {
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		return nil, err
	}
	var ids []uint32
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "channel-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		var id uint32
		if _, err := fmt.Sscanf(name, "%d.json", &id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
