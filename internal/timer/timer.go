// Package timer is the stopwatch that measures one bag at a time.
//
// While Running, a single tick goroutine owned by the Timer adds one second
// per tick. Every transition out of Running cancels that goroutine and waits
// for it to exit, so at most one tick task is ever live.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bricktrack/internal/logging"

	"go.uber.org/zap"
)

// State is the stopwatch state.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// TickerFunc returns a tick channel and a function that stops it.
type TickerFunc func() (<-chan time.Time, func())

// SecondTicker is the production tick source.
func SecondTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Snapshot is a consistent view of the timer.
type Snapshot struct {
	State     State
	Seconds   int
	BagNumber int
}

// Options configures a Timer.
type Options struct {
	// Ticker defaults to SecondTicker.
	Ticker TickerFunc
	// OnTick runs on the tick goroutine after each increment. It must not
	// block and must not call back into state transitions.
	OnTick func(Snapshot)
	// OnCommit receives the measured seconds and the bag they belong to.
	OnCommit func(seconds, bagNumber int)
	Logger   *zap.Logger
}

// Timer is safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	state    State
	seconds  int
	bag      int
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
	ticker   TickerFunc
	onTick   func(Snapshot)
	onCommit func(seconds, bagNumber int)
	log      *zap.Logger
}

// New returns an Idle timer working on bag 1.
func New(opts Options) *Timer {
	t := &Timer{
		state:    Idle,
		bag:      1,
		ticker:   opts.Ticker,
		onTick:   opts.OnTick,
		onCommit: opts.OnCommit,
		log:      logging.OrNop(opts.Logger),
	}
	if t.ticker == nil {
		t.ticker = SecondTicker
	}
	return t
}

// Snapshot returns the current state, elapsed seconds and bag number.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start moves Idle or Paused to Running. It reports false when already
// Running or closed.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.state == Running {
		return false
	}
	t.state = Running
	t.startTickLocked()
	t.log.Debug("timer started", zap.Int("bag", t.bag), zap.Int("seconds", t.seconds))
	return true
}

// Pause moves Running to Paused and keeps the elapsed seconds.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return false
	}
	t.state = Paused
	wait := t.stopTickLocked()
	t.mu.Unlock()
	wait()
	t.log.Debug("timer paused")
	return true
}

// Toggle starts a stopped timer or pauses a running one.
func (t *Timer) Toggle() State {
	if t.Snapshot().State == Running {
		t.Pause()
	} else {
		t.Start()
	}
	return t.Snapshot().State
}

// Reset discards the elapsed time from any state.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.state = Idle
	t.seconds = 0
	wait := t.stopTickLocked()
	t.mu.Unlock()
	wait()
}

// Commit hands the elapsed seconds and working bag number to OnCommit,
// advances to the next bag and returns to Idle. It returns what was
// committed. With zero elapsed seconds nothing happens and ok is false.
func (t *Timer) Commit() (seconds, bag int, ok bool) {
	t.mu.Lock()
	if t.seconds == 0 {
		t.mu.Unlock()
		return 0, 0, false
	}
	seconds, bag = t.seconds, t.bag
	t.state = Idle
	t.seconds = 0
	t.bag++
	wait := t.stopTickLocked()
	onCommit := t.onCommit
	t.mu.Unlock()
	wait()

	t.log.Info("bag committed", zap.Int("bag", bag), zap.Int("seconds", seconds))
	if onCommit != nil {
		onCommit(seconds, bag)
	}
	return seconds, bag, true
}

// SetBagNumber edits the working bag number. Values below 1 become 1.
func (t *Timer) SetBagNumber(n int) {
	if n < 1 {
		n = 1
	}
	t.mu.Lock()
	t.bag = n
	t.mu.Unlock()
}

// Rebase points the working bag at the one after currentBag, the highest
// bag logged on a newly selected set. State and elapsed seconds are kept.
func (t *Timer) Rebase(currentBag int) {
	if currentBag < 0 {
		currentBag = 0
	}
	t.mu.Lock()
	t.bag = currentBag + 1
	t.mu.Unlock()
}

// Close stops the tick goroutine for good. Later Starts are refused.
func (t *Timer) Close() {
	t.mu.Lock()
	t.closed = true
	if t.state == Running {
		t.state = Paused
	}
	wait := t.stopTickLocked()
	t.mu.Unlock()
	wait()
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{State: t.state, Seconds: t.seconds, BagNumber: t.bag}
}

func (t *Timer) startTickLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	t.gen++
	t.cancel = cancel
	t.done = make(chan struct{})
	ticks, stop := t.ticker()
	go t.run(ctx, t.gen, ticks, stop, t.done)
}

// stopTickLocked cancels the live tick goroutine and returns a function
// that blocks until it has exited. The wait must happen without t.mu held.
func (t *Timer) stopTickLocked() func() {
	if t.cancel == nil {
		return func() {}
	}
	t.cancel()
	t.gen++
	done := t.done
	t.cancel = nil
	t.done = nil
	return func() { <-done }
}

func (t *Timer) run(ctx context.Context, gen uint64, ticks <-chan time.Time, stop func(), done chan struct{}) {
	defer close(done)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			t.mu.Lock()
			if t.gen != gen || t.state != Running {
				t.mu.Unlock()
				return
			}
			t.seconds++
			snap := t.snapshotLocked()
			onTick := t.onTick
			t.mu.Unlock()
			if onTick != nil {
				onTick(snap)
			}
		}
	}
}

// Format renders seconds as HH:MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
