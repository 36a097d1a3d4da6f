package cooldown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
)

// TickInterval is how often Run recomputes the countdown.
const TickInterval = time.Second

// maxRemaining caps the countdown for records stamped far in the future.
const maxRemaining = time.Duration(1<<63 - 1)

// Remaining returns how much of the cooldown is left at now for a claim
// made at last. Both instants are truncated to milliseconds and the
// arithmetic saturates, so any stored timestamp yields a non-negative
// result.
func Remaining(last, now time.Time) (time.Duration, bool) {
	elapsed := time.UnixMilli(now.UnixMilli()).Sub(time.UnixMilli(last.UnixMilli()))
	if elapsed >= Period {
		return 0, false
	}
	left := Period - elapsed
	if left <= 0 {
		// Period minus a large negative elapsed wrapped around.
		left = maxRemaining
	}
	return left, true
}

// Format renders d as "{h}h {m}m {s}s", flooring each component.
func Format(d time.Duration) string {
	ms := d.Milliseconds()
	hours := ms / (60 * 60 * 1000)
	minutes := (ms % (60 * 60 * 1000)) / (60 * 1000)
	seconds := (ms % (60 * 1000)) / 1000
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// Tracker derives the countdown from the stored last claim time.
type Tracker struct {
	store Store
	clock clock.Clock
	log   *log.Logger
}

// NewTracker returns a Tracker reading store. A nil clk uses the wall
// clock and a nil logger discards output.
func NewTracker(store Store, clk clock.Clock, logger *log.Logger) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{store: store, clock: clk, log: logger}
}

func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Remaining reports the cooldown left without touching the store. An
// unreadable record counts as no cooldown.
func (t *Tracker) Remaining() (time.Duration, bool, error) {
	last, ok, err := t.store.Get()
	if errors.Is(err, ErrInvalidRecord) {
		return 0, false, nil
	}
	if err != nil || !ok {
		return 0, false, err
	}

	d, active := Remaining(last, t.clock.Now())
	return d, active, nil
}

// Check recomputes the countdown string. It returns "" when claiming is
// allowed, removing a record whose cooldown has fully elapsed.
func (t *Tracker) Check() string {
	last, ok, err := t.store.Get()
	switch {
	case errors.Is(err, ErrInvalidRecord):
		t.log.Warn("discarding last claim record", "err", err)
		t.clear()
		return ""
	case err != nil:
		t.log.Error("read last claim time", "err", err)
		return ""
	case !ok:
		return ""
	}

	d, active := Remaining(last, t.clock.Now())
	if !active {
		t.clear()
		return ""
	}
	return Format(d)
}

// Record stores the current time as the last successful claim.
func (t *Tracker) Record() error {
	if err := t.store.Set(t.clock.Now()); err != nil {
		return fmt.Errorf("record claim time: %w", err)
	}
	return nil
}

// Run calls fn with Check's result immediately and then every
// TickInterval until ctx is done. The ticker is stopped on return.
func (t *Tracker) Run(ctx context.Context, fn func(remaining string)) {
	ticker := t.clock.Ticker(TickInterval)
	defer ticker.Stop()

	fn(t.Check())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(t.Check())
		}
	}
}

func (t *Tracker) clear() {
	if err := t.store.Clear(); err != nil {
		t.log.Error("clear last claim time", "err", err)
		return
	}
	t.log.Debug("cooldown elapsed, record removed")
}
