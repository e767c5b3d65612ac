// Package rotator cycles through a fixed list of labels on a timer.
//
// A Rotator is mounted with Start and unmounted with Stop. Start resets the
// cursor to zero and runs a single ticker; every tick moves the cursor to
// (cursor+1) mod len(labels). Stop cancels the ticker and waits for the tick
// goroutine to exit, so once Stop returns the cursor no longer moves.
package rotator

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the rotation cadence used by the hero section.
const DefaultInterval = 2 * time.Second

var (
	ErrNoLabels = errors.New("rotator: label list is empty")
	ErrRunning  = errors.New("rotator: already started")
)

// Ticker is the subset of *time.Ticker the rotator needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type Option func(*Rotator)

// WithTicker replaces the ticker constructor. Tests use it to drive ticks by hand.
func WithTicker(fn TickerFunc) Option {
	return func(r *Rotator) {
		if fn != nil {
			r.newTicker = fn
		}
	}
}

type Rotator struct {
	labels    []string
	newTicker TickerFunc

	mu     sync.Mutex
	cursor int
	stop   chan struct{}
	done   chan struct{}
}

// New returns a stopped rotator over a private copy of labels.
func New(labels []string, opts ...Option) (*Rotator, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	r := &Rotator{
		labels:    append([]string(nil), labels...),
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Rotator) Len() int { return len(r.labels) }

// Labels returns a copy of the label list.
func (r *Rotator) Labels() []string {
	return append([]string(nil), r.labels...)
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Current returns labels[cursor].
func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.labels[r.cursor]
}

// Advance moves the cursor one step, wrapping at the end of the list.
func (r *Rotator) Advance() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = (r.cursor + 1) % len(r.labels)
	return r.cursor, r.labels[r.cursor]
}

func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// Start resets the cursor and begins advancing it every interval. onTick, if
// set, runs on the tick goroutine after each advance and must not call Stop.
func (r *Rotator) Start(interval time.Duration, onTick func(index int, label string)) error {
	if interval <= 0 {
		return fmt.Errorf("rotator: interval must be positive, got %s", interval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return ErrRunning
	}

	r.cursor = 0
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.run(r.newTicker(interval), r.stop, r.done, onTick)
	return nil
}

func (r *Rotator) run(t Ticker, stop <-chan struct{}, done chan<- struct{}, onTick func(int, string)) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// a tick and a stop can be ready together; stop wins
			select {
			case <-stop:
				return
			default:
			}
			i, label := r.Advance()
			if onTick != nil {
				onTick(i, label)
			}
		}
	}
}

// Stop cancels the ticker and blocks until the tick goroutine has exited.
// Calling Stop on a stopped rotator is a no-op.
func (r *Rotator) Stop() {
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	r.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
