// Package filter implements label resolution and per-surface visibility.
// Everything here is a pure derivation over the current snapshot and filter
// state; the package holds no state and owns no subscriptions.
package filter

import (
	"sort"
	"strings"

	"github.com/malotru/jourj/internal/contacts"
)

// State is the resolved visibility of a label on one surface.
type State int

const (
	// StateShow means the label is actively selected and not excluded.
	StateShow State = iota
	// StateHide means the label exists but is not surfaced.
	StateHide
	// StateBlock means the label is excluded; block always wins.
	StateBlock
)

// String returns a stable name for logging and CLI output.
func (s State) String() string {
	switch s {
	case StateShow:
		return "show"
	case StateBlock:
		return "block"
	default:
		return "hide"
	}
}

// Set is a label set.
type Set map[string]struct{}

// NewSet builds a Set from labels.
func NewSet(labels ...string) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports membership. Safe on a nil Set.
func (s Set) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Sorted returns the set's labels in sorted order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Selection is one surface's persisted filter state: labels it actively
// shows and labels it blocks. The two sets are independent.
type Selection struct {
	Selected Set
	Excluded Set
}

// Rules carries the full filter configuration: one Selection per
// select-to-show surface plus the global block list. The block surface only
// ever contributes Blocked.
type Rules struct {
	Drawer        Selection
	Notifications Selection
	Widget        Selection
	Blocked       Set
}

// Effective resolves the three-way state of a label on a surface. The
// precedence rule lives here and nowhere else: global or surface exclusion
// wins, then selection shows, everything else hides.
func Effective(label string, sel Selection, blocked Set) State {
	if blocked.Has(label) || sel.Excluded.Has(label) {
		return StateBlock
	}
	if sel.Selected.Has(label) {
		return StateShow
	}
	return StateHide
}

// Universe returns the sorted union of every contact's label set. An empty
// snapshot yields an empty universe.
func Universe(snapshot []contacts.Contact) []string {
	seen := make(Set)
	for _, c := range snapshot {
		for _, l := range c.Labels {
			seen[l] = struct{}{}
		}
	}
	return seen.Sorted()
}

// Matrix computes the effective state of every universe label on one
// surface, for presentation layers that render label toggles.
func Matrix(universe []string, sel Selection, blocked Set) map[string]State {
	m := make(map[string]State, len(universe))
	for _, l := range universe {
		m[l] = Effective(l, sel, blocked)
	}
	return m
}

// Visible computes the filtered, deduplicated, sorted contact list for one
// surface.
//
// With a non-empty query, label filtering is bypassed entirely and contacts
// match by case-insensitive name substring — except that a contact carrying
// any globally blocked label stays excluded even from search results.
//
// Without a query, a contact is kept iff none of its labels are excluded
// (globally or by the surface) and at least one label is selected. An empty
// selection therefore yields an empty list; first-run seeding exists to make
// fresh installs fully visible instead.
func Visible(snapshot []contacts.Contact, sel Selection, blocked Set, query string) []contacts.Contact {
	q := strings.ToLower(strings.TrimSpace(query))

	seen := make(Set, len(snapshot))
	var out []contacts.Contact
	for _, c := range snapshot {
		if seen.Has(c.ID) {
			continue
		}
		if q != "" {
			if !strings.Contains(strings.ToLower(c.Name), q) {
				continue
			}
			if anyIn(c.Labels, blocked) {
				continue
			}
		} else if !matches(c.Labels, sel, blocked) {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}

	// Soonest birthday first; ties keep snapshot-scan order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RemainingDays < out[j].RemainingDays
	})
	return out
}

func matches(labels []string, sel Selection, blocked Set) bool {
	selected := false
	for _, l := range labels {
		if blocked.Has(l) || sel.Excluded.Has(l) {
			return false
		}
		if sel.Selected.Has(l) {
			selected = true
		}
	}
	return selected
}

func anyIn(labels []string, s Set) bool {
	for _, l := range labels {
		if s.Has(l) {
			return true
		}
	}
	return false
}

// Notifiable reports whether a contact is eligible for birthday
// notifications: it must not carry any globally blocked or
// notification-surface-excluded label. Selection is not required; the
// notification surface filters by exclusion only at dispatch time.
func Notifiable(c contacts.Contact, rules Rules) bool {
	for _, l := range c.Labels {
		if rules.Blocked.Has(l) || rules.Notifications.Excluded.Has(l) {
			return false
		}
	}
	return true
}
