package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func manualTicker(ch chan time.Time) func(time.Duration) (<-chan time.Time, func()) {
	return func(time.Duration) (<-chan time.Time, func()) {
		return ch, func() {}
	}
}

func TestCountdown_RunsToZero(t *testing.T) {
	ticks := make(chan time.Time, 3)
	for range 3 {
		ticks <- time.Time{}
	}
	c := &Countdown{Duration: 3 * time.Second, Tick: time.Second, newTicker: manualTicker(ticks)}

	var seen []time.Duration
	out := c.Run(context.Background(), nil, func(remaining time.Duration) {
		seen = append(seen, remaining)
	})

	assert.False(t, out.DoneEarly)
	assert.Equal(t, 3*time.Second, out.Elapsed)
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second, 0}, seen)
}

func TestCountdown_FinishEarly(t *testing.T) {
	ticks := make(chan time.Time, 1)
	ticks <- time.Time{}
	early := make(chan struct{})

	c := &Countdown{Duration: time.Minute, Tick: time.Second, newTicker: manualTicker(ticks)}

	out := c.Run(context.Background(), early, func(time.Duration) {
		close(early)
	})

	assert.True(t, out.DoneEarly)
	assert.Equal(t, time.Second, out.Elapsed)
}

func TestCountdown_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Countdown{Duration: time.Minute, Tick: time.Second, newTicker: manualTicker(make(chan time.Time))}
	out := c.Run(ctx, nil, nil)

	assert.True(t, out.DoneEarly)
	assert.Zero(t, out.Elapsed)
}

func TestCountdown_RealTicker(t *testing.T) {
	c := &Countdown{Duration: 30 * time.Millisecond, Tick: 10 * time.Millisecond}
	out := c.Run(context.Background(), nil, nil)
	assert.False(t, out.DoneEarly)
	assert.Equal(t, 30*time.Millisecond, out.Elapsed)
}

func TestCountdown_ZeroDuration(t *testing.T) {
	out := New(0).Run(context.Background(), nil, nil)
	assert.Equal(t, Outcome{}, out)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{5 * time.Second, "0:05"},
		{time.Minute, "1:00"},
		{2*time.Minute + 7*time.Second, "2:07"},
		{10 * time.Minute, "10:00"},
		{-time.Second, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}
