// Package settings is the durable key-value store behind the filter
// configuration: per-surface label selections and exclusions, the global
// block list, and the notification/widget knobs. Values are JSON payloads in
// a diskv tree, one file per key, each independently observable.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/filter"
)

const keyExt = ".json"

// Store persists settings under a base directory.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open creates a Store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New(config.ErrCreateDir)
	}
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: dir,
	}, nil
}

// BasePath returns the directory backing the store.
func (s *Store) BasePath() string {
	return s.basePath
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key + keyExt}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, keyExt)
}

// KeyForPath derives the settings key from a storage file name, or "" when
// the file is not a settings payload.
func KeyForPath(name string) string {
	if !strings.HasSuffix(name, keyExt) {
		return ""
	}
	return strings.TrimSuffix(name, keyExt)
}

func (s *Store) read(key string, target any) bool {
	data, err := s.d.Read(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		slog.Warn(config.ErrSettingsRead,
			config.LogKeyComponent, config.CompSettings,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return false
	}
	return true
}

func (s *Store) write(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsWrite, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsWrite, err)
	}
	return nil
}

// StringSet returns the string set stored under key, or def when unset.
func (s *Store) StringSet(key string, def []string) []string {
	var out []string
	if !s.read(key, &out) {
		return def
	}
	return out
}

// SetStringSet replaces the whole string set under key. The value is
// deduplicated and sorted so storage stays canonical.
func (s *Store) SetStringSet(key string, values []string) error {
	set := filter.NewSet(values...)
	return s.write(key, set.Sorted())
}

// Int returns the int stored under key, or def when unset.
func (s *Store) Int(key string, def int) int {
	var out int
	if !s.read(key, &out) {
		return def
	}
	return out
}

// SetInt stores an int under key.
func (s *Store) SetInt(key string, value int) error {
	return s.write(key, value)
}

// Bool returns the bool stored under key, or def when unset.
func (s *Store) Bool(key string, def bool) bool {
	var out bool
	if !s.read(key, &out) {
		return def
	}
	return out
}

// SetBool stores a bool under key.
func (s *Store) SetBool(key string, value bool) error {
	return s.write(key, value)
}

// IntSet returns the int set stored under key, or def when unset.
func (s *Store) IntSet(key string, def []int) []int {
	var out []int
	if !s.read(key, &out) {
		return def
	}
	return out
}

// SetIntSet replaces the whole int set under key, deduplicated and sorted.
func (s *Store) SetIntSet(key string, values []int) error {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return s.write(key, out)
}

// SurfaceKey builds the storage key for one surface's selected or excluded
// set. Suffix is config.KeySuffixSelected or config.KeySuffixExcluded.
func SurfaceKey(surface, suffix string) string {
	return fmt.Sprintf(config.FormatSurfaceKey, surface, suffix)
}

// Selection loads one surface's persisted filter state. Unset keys yield
// empty sets (fresh installs start unconfigured; seeding fills them in).
func (s *Store) Selection(surface string) filter.Selection {
	return filter.Selection{
		Selected: filter.NewSet(s.StringSet(SurfaceKey(surface, config.KeySuffixSelected), nil)...),
		Excluded: filter.NewSet(s.StringSet(SurfaceKey(surface, config.KeySuffixExcluded), nil)...),
	}
}

// Rules loads the full filter configuration for all surfaces.
func (s *Store) Rules() filter.Rules {
	return filter.Rules{
		Drawer:        s.Selection(config.SurfaceDrawer),
		Notifications: s.Selection(config.SurfaceNotifications),
		Widget:        s.Selection(config.SurfaceWidget),
		Blocked:       filter.NewSet(s.StringSet(config.KeyBlocked, nil)...),
	}
}

// toggle adds or removes one label in the set under key.
func (s *Store) toggle(key, label string, add bool) error {
	set := filter.NewSet(s.StringSet(key, nil)...)
	if add {
		set[label] = struct{}{}
	} else {
		delete(set, label)
	}
	return s.write(key, set.Sorted())
}

// Select marks a label as actively shown on a surface.
func (s *Store) Select(surface, label string) error {
	return s.toggle(SurfaceKey(surface, config.KeySuffixSelected), label, true)
}

// Deselect removes a label from a surface's selection.
func (s *Store) Deselect(surface, label string) error {
	return s.toggle(SurfaceKey(surface, config.KeySuffixSelected), label, false)
}

// Exclude blocks a label on one surface.
func (s *Store) Exclude(surface, label string) error {
	return s.toggle(SurfaceKey(surface, config.KeySuffixExcluded), label, true)
}

// Unexclude lifts a surface-local block.
func (s *Store) Unexclude(surface, label string) error {
	return s.toggle(SurfaceKey(surface, config.KeySuffixExcluded), label, false)
}

// Block adds a label to the global block list.
func (s *Store) Block(label string) error {
	return s.toggle(config.KeyBlocked, label, true)
}

// Unblock removes a label from the global block list.
func (s *Store) Unblock(label string) error {
	return s.toggle(config.KeyBlocked, label, false)
}

// NotifyTime returns the configured notification wall-clock time.
func (s *Store) NotifyTime() (hour, minute int) {
	return s.Int(config.KeyNotifyHour, config.DefaultNotifyHour),
		s.Int(config.KeyNotifyMin, config.DefaultNotifyMin)
}

// LeadDays returns the configured lead-day set.
func (s *Store) LeadDays() []int {
	return s.IntSet(config.KeyLeadDays, config.DefaultLeadDays)
}

// WidgetCount returns the widget item cap.
func (s *Store) WidgetCount() int {
	return s.Int(config.KeyWidgetCount, config.DefaultWidgetCount)
}

// SeedIfNeeded selects the whole universe on every select-to-show surface,
// exactly once: the first time a non-empty universe is observed. Later empty
// universes never re-trigger it. Returns whether seeding happened.
func (s *Store) SeedIfNeeded(universe []string) (bool, error) {
	if len(universe) == 0 || s.Bool(config.KeySeeded, false) {
		return false, nil
	}
	for _, surface := range []string{config.SurfaceDrawer, config.SurfaceNotifications, config.SurfaceWidget} {
		if err := s.SetStringSet(SurfaceKey(surface, config.KeySuffixSelected), universe); err != nil {
			return false, err
		}
	}
	if err := s.SetBool(config.KeySeeded, true); err != nil {
		return false, err
	}
	slog.Info(config.MsgSeeded,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyCount, len(universe),
	)
	return true, nil
}
