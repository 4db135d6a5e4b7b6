package app

import (
	"sync"
	"time"
)

const (
	// DefaultRoundBudget is the number of ticks a player gets per question.
	DefaultRoundBudget = 15
	// DefaultTickInterval is the wall-clock length of one tick.
	DefaultTickInterval = time.Second
)

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. SystemClock is used outside tests.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock backs tickers with time.Ticker.
type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// RoundTimer counts a round down from its budget to zero, one tick at a time.
// Each remaining value is handed to onTick; returning false from onTick, or
// reaching zero, stops the timer.
type RoundTimer struct {
	clock    Clock
	budget   int
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRoundTimer(clock Clock, budget int, interval time.Duration) *RoundTimer {
	if clock == nil {
		clock = SystemClock{}
	}
	if budget <= 0 {
		budget = DefaultRoundBudget
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &RoundTimer{
		clock:    clock,
		budget:   budget,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Budget returns the starting number of ticks.
func (t *RoundTimer) Budget() int {
	return t.budget
}

// Start begins scheduling ticks. The ticker is created before Start returns.
func (t *RoundTimer) Start(onTick func(remaining int) bool) {
	ticker := t.clock.NewTicker(t.interval)
	go func() {
		defer ticker.Stop()
		remaining := t.budget
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C():
				select {
				case <-t.stop:
					return
				default:
				}
				remaining--
				if !onTick(remaining) || remaining <= 0 {
					return
				}
			}
		}
	}()
}

// Stop cancels any pending ticks. Safe to call more than once.
func (t *RoundTimer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// ManualClock hands out tickers that only fire when Tick is called.
// It drives round timers deterministically in tests and scripted runs.
type ManualClock struct {
	mu      sync.Mutex
	current *ManualTicker
	created int
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) NewTicker(time.Duration) Ticker {
	t := &ManualTicker{
		ch:   make(chan time.Time),
		done: make(chan struct{}),
	}
	c.mu.Lock()
	c.current = t
	c.created++
	c.mu.Unlock()
	return t
}

// Tick fires the most recently created ticker. It reports false when there
// is no live ticker to receive the tick.
func (c *ManualClock) Tick() bool {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()
	if t == nil {
		return false
	}
	return t.Tick()
}

// Created returns how many tickers have been handed out.
func (c *ManualClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// ManualTicker is a Ticker fired by explicit Tick calls.
type ManualTicker struct {
	ch       chan time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

// Tick blocks until the tick is received or the ticker is stopped.
func (t *ManualTicker) Tick() bool {
	select {
	case <-t.done:
		return false
	default:
	}
	select {
	case t.ch <- time.Now():
		return true
	case <-t.done:
		return false
	}
}
