package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var builderNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newBuilder() *Builder {
	return &Builder{
		Clock: fixedClock{t: builderNow},
		Summary: func(name string, age int) string {
			if age > 0 {
				return fmt.Sprintf("%s's birthday (%d)", name, age)
			}
			return name + "'s birthday"
		},
		LeadDays: []int{0, 7},
	}
}

func TestBuild_EmptyListYieldsStub(t *testing.T) {
	data, err := newBuilder().Build(nil)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data),
		"clients must always receive a valid VCALENDAR")
}

func TestBuild_EventsAndAlarms(t *testing.T) {
	list := []contacts.Contact{
		{ID: "ana-1", Name: "Ana", Birthday: "1990-06-20"},
	}

	data, err := newBuilder().Build(list)
	require.NoError(t, err)
	ics := string(data)

	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "PRODID:"+config.ICalProdid)
	// Previous, current, and next year so calendar clients can scroll.
	assert.Contains(t, ics, "UID:ana-1-2024@jourj")
	assert.Contains(t, ics, "UID:ana-1-2025@jourj")
	assert.Contains(t, ics, "UID:ana-1-2026@jourj")

	assert.Contains(t, ics, "SUMMARY:Ana's birthday (35)")
	assert.Contains(t, ics, "BEGIN:VALARM")
	assert.Contains(t, ics, "TRIGGER:-P0D")
	assert.Contains(t, ics, "TRIGGER:-P7D")
}

func TestBuild_NoEventsBeforeBirth(t *testing.T) {
	list := []contacts.Contact{
		{ID: "baby-1", Name: "Baby", Birthday: "2025-01-10"},
	}

	data, err := newBuilder().Build(list)
	require.NoError(t, err)
	ics := string(data)

	assert.NotContains(t, ics, "baby-1-2024@", "no event before the person is born")
	assert.Contains(t, ics, "baby-1-2025@")
	assert.Contains(t, ics, "baby-1-2026@")
}

func TestBuild_YearlessBirthdayHasNoAge(t *testing.T) {
	list := []contacts.Contact{
		{ID: "bo-1", Name: "Bo", Birthday: "--03-04"},
	}

	data, err := newBuilder().Build(list)
	require.NoError(t, err)

	assert.Contains(t, string(data), "SUMMARY:Bo's birthday")
	assert.NotContains(t, string(data), "Bo's birthday (")
}

func TestBuild_SkipsUnparseableBirthday(t *testing.T) {
	list := []contacts.Contact{
		{ID: "bad-1", Name: "Broken", Birthday: "garbage"},
	}

	data, err := newBuilder().Build(list)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

// -----------------------------------------------------------------------------
// Refresher
// -----------------------------------------------------------------------------

type fakeSnapshots struct {
	list []contacts.Contact
}

func (f *fakeSnapshots) All(ctx context.Context) ([]contacts.Contact, error) {
	return f.list, nil
}

type fakeRules struct {
	sel   filter.Selection
	rules filter.Rules
	count int
}

func (f *fakeRules) Selection(surface string) filter.Selection { return f.sel }
func (f *fakeRules) Rules() filter.Rules                       { return f.rules }
func (f *fakeRules) WidgetCount() int                          { return f.count }

// TestRefresher verifies the widget pipeline: filter, cap, build, swap.
func TestRefresher(t *testing.T) {
	snapshots := &fakeSnapshots{list: []contacts.Contact{
		{ID: "1", Name: "Ana", Birthday: "1990-06-20", Labels: []string{"Family"}, RemainingDays: 5},
		{ID: "2", Name: "Bo", Birthday: "1985-06-16", Labels: []string{"Family"}, RemainingDays: 1},
		{ID: "3", Name: "Cleo", Birthday: "1970-06-18", Labels: []string{"Work"}, RemainingDays: 3},
	}}
	rules := &fakeRules{
		sel:   filter.Selection{Selected: filter.NewSet("Family")},
		count: 1,
	}
	srv := NewServer("0")
	r := &Refresher{
		Snapshots: snapshots,
		Settings:  rules,
		Builder:   newBuilder(),
		Server:    srv,
	}

	require.NoError(t, r.Refresh(context.Background()))

	item := srv.cache.Load()
	require.NotNil(t, item, "refresh must publish a payload")
	ics := string(item.data)

	assert.Contains(t, ics, "Bo", "soonest matching birthday survives the cap")
	assert.NotContains(t, ics, "Ana", "capped out by widget count")
	assert.NotContains(t, ics, "Cleo", "label not selected on the widget surface")
}
