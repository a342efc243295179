package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedTimeSource struct{ hour, minute int }

func (f fixedTimeSource) NotifyTime() (int, int) { return f.hour, f.minute }

func TestAlarm_NextFire(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		hour   int
		minute int
		want   time.Time
	}{
		{
			name: "Configured time still ahead today",
			now:  time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC),
			hour: 9, minute: 0,
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Configured time already passed rolls to tomorrow",
			now:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			hour: 9, minute: 0,
			want: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Exactly at the configured minute rolls to tomorrow",
			now:  time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
			hour: 9, minute: 0,
			want: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Alarm{
				Clock:    fixedClock{t: tt.now},
				Settings: fixedTimeSource{hour: tt.hour, minute: tt.minute},
			}
			assert.Equal(t, tt.want, a.nextFire())
		})
	}
}

func TestAlarm_NoHandlerDegradesSilently(t *testing.T) {
	a := &Alarm{
		Clock:    fixedClock{t: time.Now()},
		Settings: fixedTimeSource{hour: 9},
	}
	// Must return immediately instead of looping.
	a.Start(context.Background())
}

func TestDaily_StopsOnCancel(t *testing.T) {
	d := &Daily{
		Settings: fixedTimeSource{hour: 9},
		Job:      func(ctx context.Context) {},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}

func TestAlwaysAllow(t *testing.T) {
	assert.True(t, AlwaysAllow{}.Allow())
}
