// Package timer runs the countdown shown while a pause is in progress.
package timer

import (
	"context"
	"fmt"
	"time"
)

// Outcome reports how a countdown ended.
type Outcome struct {
	DoneEarly bool
	Elapsed   time.Duration
}

// Countdown ticks down from Duration in steps of Tick.
type Countdown struct {
	Duration time.Duration
	Tick     time.Duration

	newTicker func(d time.Duration) (<-chan time.Time, func())
}

func New(duration time.Duration) *Countdown {
	return &Countdown{Duration: duration, Tick: time.Second}
}

// Run blocks until the countdown reaches zero, finishEarly fires or ctx is
// done. Both of the latter count as finishing early. onTick, if set,
// receives the remaining time after each tick.
func (c *Countdown) Run(ctx context.Context, finishEarly <-chan struct{}, onTick func(remaining time.Duration)) Outcome {
	tick := c.Tick
	if tick <= 0 {
		tick = time.Second
	}
	if c.Duration <= 0 {
		return Outcome{}
	}

	ticks, stop := c.ticker(tick)
	defer stop()

	var elapsed time.Duration
	for {
		select {
		case <-ctx.Done():
			return Outcome{DoneEarly: true, Elapsed: elapsed}
		case <-finishEarly:
			return Outcome{DoneEarly: true, Elapsed: elapsed}
		case <-ticks:
			elapsed += tick
			remaining := max(c.Duration-elapsed, 0)
			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				return Outcome{Elapsed: c.Duration}
			}
		}
	}
}

func (c *Countdown) ticker(d time.Duration) (<-chan time.Time, func()) {
	if c.newTicker != nil {
		return c.newTicker(d)
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Format renders whole seconds as m:ss.
func Format(remaining time.Duration) string {
	secs := int(remaining.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
