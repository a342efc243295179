package contacts_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockSource simulates the contact provider using `testify/mock`.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) AuthStatus(ctx context.Context) contacts.AuthStatus {
	args := m.Called(ctx)
	return args.Get(0).(contacts.AuthStatus)
}

func (m *MockSource) Groups(ctx context.Context) ([]contacts.Group, error) {
	args := m.Called(ctx)
	if g := args.Get(0); g != nil {
		return g.([]contacts.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSource) Birthdays(ctx context.Context) ([]contacts.BirthdayRow, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]contacts.BirthdayRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSource) Data(ctx context.Context, ids []string) ([]contacts.DataRow, error) {
	args := m.Called(ctx, ids)
	if r := args.Get(0); r != nil {
		return r.([]contacts.DataRow), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// staticResolver resolves system group titles from a fixed table.
type staticResolver map[string]string

func (r staticResolver) Resolve(resPackage, systemID string) (string, bool) {
	v, ok := r[resPackage+"/"+systemID]
	return v, ok
}

// fixedTime: June 15th, 2025.
var fixedTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newExtractor(src contacts.Source, resolver contacts.GroupResolver) *contacts.Extractor {
	return &contacts.Extractor{
		Source: src,
		Clock:  MockClock{CurrentTime: fixedTime},
		Groups: resolver,
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestSnapshot_LabelSynthesis(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return([]contacts.Group{
		{ID: "g1", Title: "Family"},
	}, nil)
	src.On("Birthdays", mock.Anything).Return([]contacts.BirthdayRow{
		{ContactID: "1", Name: "Ana", Birthday: "1990-06-15", Starred: true, Visible: true},
		{ContactID: "2", Name: "Bo", Birthday: "1985-01-02", Visible: true},
		{ContactID: "3", Name: "Cleo", Birthday: "--03-04", Visible: false},
	}, nil)
	src.On("Data", mock.Anything, mock.Anything).Return([]contacts.DataRow{
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g1"},
	}, nil)

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	// Starred + visible + group member
	assert.Equal(t, []string{config.LabelAllContacts, "Family", config.LabelStarred}, snapshot[0].Labels)
	// Visible only
	assert.Equal(t, []string{config.LabelAllContacts}, snapshot[1].Labels)
	// Invisible with no groups falls back to Unlabeled
	assert.Equal(t, []string{config.LabelUnlabeled}, snapshot[2].Labels)
}

func TestSnapshot_BirthdayMathAndPhotoFallback(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, nil)
	src.On("Birthdays", mock.Anything).Return([]contacts.BirthdayRow{
		{ContactID: "1", Name: "Ana", Birthday: "1990-06-15", Visible: true, PhotoRef: "file://ana.png"},
		{ContactID: "2", Name: "Bo", Birthday: "1990-06-16", Visible: true},
	}, nil)
	src.On("Data", mock.Anything, mock.Anything).Return(nil, nil)

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	assert.Equal(t, 35, snapshot[0].Age)
	assert.Equal(t, 0, snapshot[0].RemainingDays, "birthday today")
	assert.Equal(t, "file://ana.png", snapshot[0].PhotoRef)

	assert.Equal(t, 1, snapshot[1].RemainingDays)
	assert.Equal(t, fmt.Sprintf(config.FormatPhotoFallback, "2"), snapshot[1].PhotoRef,
		"missing photo gets the deterministic fallback reference")
}

func TestSnapshot_SkipsAndDuplicates(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, nil)
	src.On("Birthdays", mock.Anything).Return([]contacts.BirthdayRow{
		{ContactID: "1", Name: "Ana", Birthday: "1990-06-15", Visible: true},
		{ContactID: "1", Name: "Ana dup", Birthday: "1980-01-01", Visible: true},
		{ContactID: "2", Name: "Broken", Birthday: "not-a-date", Visible: true},
		{ContactID: "3", Name: "", Birthday: "1990-07-01", Visible: true},
	}, nil)
	src.On("Data", mock.Anything, mock.Anything).Return(nil, nil)

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 2, "duplicate collapses, unparseable drops")

	assert.Equal(t, "Ana", snapshot[0].Name, "first birthday row wins")
	assert.Equal(t, "1990-06-15", snapshot[0].Birthday)
	assert.Equal(t, config.FallbackName, snapshot[1].Name, "empty name falls back")
}

// TestSnapshot_GroupResolutionLadder covers title, resource lookup, system
// id fallback, prefix stripping, and the unresolvable drop.
func TestSnapshot_GroupResolutionLadder(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return([]contacts.Group{
		{ID: "g1", Title: "Named"},
		{ID: "g2", ResPackage: "com.google", SystemID: "6"},
		{ID: "g3", SystemID: "raw-id"},
		{ID: "g4", Title: config.SystemGroupPrefix + "Contacts"},
		{ID: "g5"},
	}, nil)
	src.On("Birthdays", mock.Anything).Return([]contacts.BirthdayRow{
		{ContactID: "1", Name: "Ana", Birthday: "1990-01-01", Visible: false},
	}, nil)
	src.On("Data", mock.Anything, mock.Anything).Return([]contacts.DataRow{
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g1"},
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g2"},
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g3"},
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g4"},
		{ContactID: "1", Mime: config.MimeGroupMembership, Value: "g5"},
	}, nil)

	resolver := staticResolver{"com.google/6": "My Contacts"}
	snapshot, err := newExtractor(src, resolver).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	assert.Equal(t, []string{"Contacts", "My Contacts", "Named", "raw-id"}, snapshot[0].Labels,
		"g5 resolves to nothing and is dropped; the prefix is stripped from g4")
}

func TestSnapshot_ActionMerging(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, nil)
	src.On("Birthdays", mock.Anything).Return([]contacts.BirthdayRow{
		{ContactID: "1", Name: "Ana", Birthday: "1990-01-01", Visible: true},
	}, nil)
	src.On("Data", mock.Anything, mock.Anything).Return([]contacts.DataRow{
		{ContactID: "1", Mime: config.MimePhone, Value: "+111"},
		{ContactID: "1", Mime: config.MimePhone, Value: "+222"},
		{ContactID: "1", Mime: config.MimeEmail, Value: "ana@example.com"},
		{ContactID: "1", Mime: config.MimeWhatsApp, Value: "whatsapp:+111"},
		{ContactID: "1", Mime: config.MimeTelegram, Value: "telegram:ana"},
		{ContactID: "stranger", Mime: config.MimePhone, Value: "+999"},
	}, nil)

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	a := snapshot[0].Actions
	assert.Equal(t, "+111", a.Phone, "first phone wins")
	assert.Equal(t, "ana@example.com", a.Email)
	assert.True(t, a.WhatsApp)
	assert.True(t, a.Telegram)
	assert.False(t, a.Signal)
}

// TestSnapshot_ChunkedDataQueries verifies large id sets are fetched in
// bounded batches.
func TestSnapshot_ChunkedDataQueries(t *testing.T) {
	const total = 500

	rows := make([]contacts.BirthdayRow, 0, total)
	for i := 0; i < total; i++ {
		rows = append(rows, contacts.BirthdayRow{
			ContactID: fmt.Sprintf("id-%03d", i),
			Name:      fmt.Sprintf("Contact %d", i),
			Birthday:  "1990-01-01",
			Visible:   true,
		})
	}

	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, nil)
	src.On("Birthdays", mock.Anything).Return(rows, nil)
	src.On("Data", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == config.DataChunkSize
	})).Return(nil, nil).Once()
	src.On("Data", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == total-config.DataChunkSize
	})).Return(nil, nil).Once()

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot, total)
	src.AssertExpectations(t)
}

func TestSnapshot_SourceFailurePropagates(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, errors.New("provider offline"))

	_, err := newExtractor(src, nil).Snapshot(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSnapshotFailed)
}

func TestSnapshot_EmptySourceYieldsEmptySnapshot(t *testing.T) {
	src := new(MockSource)
	src.On("Groups", mock.Anything).Return(nil, nil)
	src.On("Birthdays", mock.Anything).Return(nil, nil)

	snapshot, err := newExtractor(src, nil).Snapshot(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, snapshot)
}
