// Package view derives the per-surface presentation state from the persisted
// snapshot and the current filter configuration, and keeps it fresh as either
// input changes.
package view

import (
	"sort"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
)

// Views is one consistent derivation of all surfaces from a single snapshot
// and a single filter state.
type Views struct {
	// Drawer is the main list surface, affected by the search query.
	Drawer []contacts.Contact
	// Notifications lists the contacts currently eligible for reminders.
	Notifications []contacts.Contact
	// Widget is the compact upcoming list, uncapped; the feed applies the
	// item limit at render time.
	Widget []contacts.Contact

	// Universe is the sorted union of all labels in the snapshot.
	Universe []string
	// LabelStates maps surface name to the effective state of every
	// universe label on that surface.
	LabelStates map[string]map[string]filter.State
}

// Derive computes all surfaces in one pass. It is a pure function of its
// inputs; callers own reactivity.
func Derive(snapshot []contacts.Contact, rules filter.Rules, query string) Views {
	universe := filter.Universe(snapshot)

	// Notification eligibility is exclusion-only, so the surface cannot be
	// expressed as a Visible call; it keeps every non-excluded contact.
	seen := filter.NewSet()
	var notifiable []contacts.Contact
	for _, c := range snapshot {
		if seen.Has(c.ID) || !filter.Notifiable(c, rules) {
			continue
		}
		seen[c.ID] = struct{}{}
		notifiable = append(notifiable, c)
	}
	sort.SliceStable(notifiable, func(i, j int) bool {
		return notifiable[i].RemainingDays < notifiable[j].RemainingDays
	})

	return Views{
		Drawer:        filter.Visible(snapshot, rules.Drawer, rules.Blocked, query),
		Notifications: notifiable,
		Widget:        filter.Visible(snapshot, rules.Widget, rules.Blocked, ""),
		Universe:      universe,
		LabelStates: map[string]map[string]filter.State{
			config.SurfaceDrawer:        filter.Matrix(universe, rules.Drawer, rules.Blocked),
			config.SurfaceNotifications: filter.Matrix(universe, rules.Notifications, rules.Blocked),
			config.SurfaceWidget:        filter.Matrix(universe, rules.Widget, rules.Blocked),
		},
	}
}
