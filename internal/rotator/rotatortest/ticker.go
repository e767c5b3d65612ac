// Package rotatortest provides a hand-driven ticker for rotator tests.
package rotatortest

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vempatir/portfolio/internal/rotator"
)

// Ticker delivers a tick only when Tick or TryTick is called.
type Ticker struct {
	Interval time.Duration

	ch      chan time.Time
	stopped atomic.Bool
}

func (t *Ticker) C() <-chan time.Time { return t.ch }
func (t *Ticker) Stop()               { t.stopped.Store(true) }
func (t *Ticker) Stopped() bool       { return t.stopped.Load() }

// Tick blocks until the rotator receives the tick, failing the test after a second.
func (t *Ticker) Tick(tb testing.TB) {
	tb.Helper()
	if !t.TryTick(time.Second) {
		tb.Fatal("tick was not received")
	}
}

// TryTick reports whether a receiver took the tick within wait.
func (t *Ticker) TryTick(wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case t.ch <- time.Now():
		return true
	case <-timer.C:
		return false
	}
}

// Factory records every Ticker it creates.
type Factory struct {
	mu      sync.Mutex
	tickers []*Ticker
	created chan *Ticker
}

func NewFactory() *Factory {
	return &Factory{created: make(chan *Ticker, 64)}
}

// New satisfies rotator.TickerFunc.
func (f *Factory) New(d time.Duration) rotator.Ticker {
	t := &Ticker{Interval: d, ch: make(chan time.Time)}
	f.mu.Lock()
	f.tickers = append(f.tickers, t)
	f.mu.Unlock()
	f.created <- t
	return t
}

// Next waits for the next created ticker.
func (f *Factory) Next(tb testing.TB) *Ticker {
	tb.Helper()
	select {
	case t := <-f.created:
		return t
	case <-time.After(time.Second):
		tb.Fatal("no ticker was created")
		return nil
	}
}

func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}
