package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(clock *fakeClock, opts ...Option) *Breaker {
	opts = append([]Option{WithCooldown(10 * time.Second), WithClock(clock.Now)}, opts...)
	return New("notification", opts...)
}

func TestBreakerTransitions(t *testing.T) {
	cases := []struct {
		name      string
		opts      []Option
		calls     string // f = failure, s = success
		wantState State
	}{
		{name: "starts closed", calls: "", wantState: StateClosed},
		{name: "below failure threshold", opts: []Option{WithFailureThreshold(3)}, calls: "ff", wantState: StateClosed},
		{name: "at failure threshold", opts: []Option{WithFailureThreshold(3)}, calls: "fff", wantState: StateOpen},
		{name: "success resets failure streak", opts: []Option{WithFailureThreshold(3)}, calls: "ffsff", wantState: StateClosed},
		{name: "closes after success streak", opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, calls: "fss", wantState: StateClosed},
		{name: "failure while open resets success streak", opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)}, calls: "fsfs", wantState: StateOpen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBreaker(&fakeClock{}, tc.opts...)
			for _, c := range tc.calls {
				if c == 'f' {
					b.RecordFailure()
				} else {
					b.RecordSuccess()
				}
			}
			assert.Equal(t, tc.wantState, b.State())
		})
	}
}

func TestBreakerReportsChanges(t *testing.T) {
	b := newTestBreaker(&fakeClock{}, WithFailureThreshold(2))

	fallback, change := b.RecordFailure()
	assert.False(t, fallback)
	assert.Equal(t, Change{}, change)

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)

	_, change = b.RecordFailure()
	assert.Equal(t, Change{}, change, "already open")

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.Equal(t, "notification", b.Name())
}

func TestBreakerProbesOncePerCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := newTestBreaker(clock, WithFailureThreshold(1))

	require.True(t, b.Allow())
	b.RecordFailure()
	require.True(t, b.IsOpen())
	assert.False(t, b.Allow())

	clock.Advance(9 * time.Second)
	assert.False(t, b.Allow())

	clock.Advance(time.Second)
	assert.True(t, b.Allow(), "probe after cooldown")
	assert.False(t, b.Allow(), "second caller waits for the next cooldown")

	b.RecordFailure()
	clock.Advance(10 * time.Second)
	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestBreakerReset(t *testing.T) {
	b := newTestBreaker(&fakeClock{}, WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}
