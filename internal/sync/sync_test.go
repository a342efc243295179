package sync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
	"github.com/malotru/jourj/internal/notify"
	internalsync "github.com/malotru/jourj/internal/sync"
)

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

type fakeSource struct {
	status    contacts.AuthStatus
	birthdays []contacts.BirthdayRow
}

func (f *fakeSource) AuthStatus(ctx context.Context) contacts.AuthStatus { return f.status }
func (f *fakeSource) Groups(ctx context.Context) ([]contacts.Group, error) {
	return nil, nil
}
func (f *fakeSource) Birthdays(ctx context.Context) ([]contacts.BirthdayRow, error) {
	return f.birthdays, nil
}
func (f *fakeSource) Data(ctx context.Context, ids []string) ([]contacts.DataRow, error) {
	return nil, nil
}

type fakeStore struct {
	saved [][]contacts.Contact
	err   error
}

func (f *fakeStore) ReplaceAll(ctx context.Context, snapshot []contacts.Contact) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snapshot)
	return nil
}

type fakeSettings struct {
	rules    filter.Rules
	lead     []int
	seededAs [][]string
}

func (f *fakeSettings) Rules() filter.Rules { return f.rules }
func (f *fakeSettings) LeadDays() []int     { return f.lead }
func (f *fakeSettings) SeedIfNeeded(universe []string) (bool, error) {
	f.seededAs = append(f.seededAs, universe)
	return len(f.seededAs) == 1 && len(universe) > 0, nil
}

type fakeNotifier struct {
	channels []notify.Channel
	sent     []notify.Notification
	sendErr  error
}

func (f *fakeNotifier) Register(ctx context.Context, ch notify.Channel) error {
	f.channels = append(f.channels, ch)
	return nil
}
func (f *fakeNotifier) Send(ctx context.Context, n notify.Notification) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeWidget struct {
	refreshes int
	err       error
}

func (f *fakeWidget) Refresh(ctx context.Context) error {
	f.refreshes++
	return f.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// -----------------------------------------------------------------------------
// Wiring
// -----------------------------------------------------------------------------

// fixture wires an orchestrator over an in-memory source whose contacts have
// birthdays today, tomorrow, and in a week (relative to June 15th, 2025).
func fixture() (*internalsync.Orchestrator, *fakeSource, *fakeStore, *fakeSettings, *fakeNotifier, *fakeWidget) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{
		status: contacts.AuthAuthorized,
		birthdays: []contacts.BirthdayRow{
			{ContactID: "1", Name: "Ana", Birthday: "1990-06-15", Visible: true},
			{ContactID: "2", Name: "Bo", Birthday: "1985-06-16", Visible: true},
			{ContactID: "3", Name: "Cleo", Birthday: "1970-06-22", Visible: true},
		},
	}
	store := &fakeStore{}
	settings := &fakeSettings{lead: []int{0, 7}}
	notifier := &fakeNotifier{}
	widget := &fakeWidget{}

	o := &internalsync.Orchestrator{
		Source: source,
		Extractor: &contacts.Extractor{
			Source: source,
			Clock:  fixedClock{t: now},
		},
		Store:    store,
		Settings: settings,
		Notifier: notifier,
		Widget:   widget,
		NotifTitle: func(name string) string {
			return "Birthday reminder: " + name
		},
		NotifBody: func(name string, days, age int) string {
			return name
		},
	}
	return o, source, store, settings, notifier, widget
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestRun_Success(t *testing.T) {
	o, _, store, settings, notifier, widget := fixture()

	result := o.Run(context.Background(), true)

	assert.Equal(t, internalsync.StatusSuccess, result.Status)
	assert.Equal(t, 3, result.Count)
	require.Len(t, store.saved, 1, "snapshot persisted exactly once")
	assert.Len(t, store.saved[0], 3)

	require.Len(t, settings.seededAs, 1, "seeding attempted with the label universe")
	assert.Equal(t, []string{"All contacts"}, settings.seededAs[0])

	// Ana (today, lead 0) and Cleo (in 7 days, lead 7) fire; Bo (tomorrow)
	// does not.
	assert.Equal(t, 2, result.Notified)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Birthday reminder: Ana", notifier.sent[0].Title)
	assert.Equal(t, notify.IDFor("Ana"), notifier.sent[0].ID)
	assert.Equal(t, "Birthday reminder: Cleo", notifier.sent[1].Title)

	require.Len(t, notifier.channels, 1, "channel registered before dispatch")
	assert.Equal(t, 1, widget.refreshes)
}

// TestRun_PermissionDenied verifies the asymmetric permission policy:
// background runs skip quietly, user-initiated runs fail loudly.
func TestRun_PermissionDenied(t *testing.T) {
	o, source, store, _, _, _ := fixture()
	source.status = contacts.AuthDenied

	background := o.Run(context.Background(), false)
	assert.Equal(t, internalsync.StatusSkipped, background.Status)
	assert.NoError(t, background.Err)

	user := o.Run(context.Background(), true)
	assert.Equal(t, internalsync.StatusError, user.Status)
	assert.Error(t, user.Err)

	assert.Empty(t, store.saved, "nothing persisted either way")
}

func TestRun_ExcludedLabelsSuppressNotifications(t *testing.T) {
	o, _, _, settings, notifier, _ := fixture()
	settings.rules = filter.Rules{Blocked: filter.NewSet("All contacts")}

	result := o.Run(context.Background(), true)

	assert.Equal(t, internalsync.StatusSuccess, result.Status)
	assert.Zero(t, result.Notified)
	assert.Empty(t, notifier.sent)
}

func TestRun_StoreFailureAbortsBeforeSideEffects(t *testing.T) {
	o, _, store, _, notifier, widget := fixture()
	store.err = errors.New("disk full")

	result := o.Run(context.Background(), true)

	assert.Equal(t, internalsync.StatusError, result.Status)
	assert.Error(t, result.Err)
	assert.Empty(t, notifier.sent, "no notifications for an unpersisted snapshot")
	assert.Zero(t, widget.refreshes)
}

// TestRun_SideEffectFailuresDoNotAlterResult verifies that notification and
// widget failures after persistence leave the result untouched.
func TestRun_SideEffectFailuresDoNotAlterResult(t *testing.T) {
	o, _, store, _, notifier, widget := fixture()
	notifier.sendErr = errors.New("notification service down")
	widget.err = errors.New("feed build failed")

	result := o.Run(context.Background(), true)

	assert.Equal(t, internalsync.StatusSuccess, result.Status)
	assert.NoError(t, result.Err)
	assert.Equal(t, 3, result.Count)
	assert.Zero(t, result.Notified, "failed sends are counted as not notified")
	assert.Len(t, store.saved, 1)
	assert.Equal(t, 1, widget.refreshes, "refresh attempted despite failure")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", internalsync.StatusSuccess.String())
	assert.Equal(t, "skipped", internalsync.StatusSkipped.String())
	assert.Equal(t, "error", internalsync.StatusError.String())
}
