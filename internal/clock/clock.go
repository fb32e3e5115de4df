// Package clock provides frame clocks for the particle field.
//
// [Driven] is advanced by a host loop that already owns the display cadence
// (bubbletea ticks, raylib and ebitengine frames, headless sessions).
// [Ticker] owns its own goroutine and fires at a fixed interval.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// registry holds callbacks in registration order. Cancelled entries are
// removed so a later registration never inherits an earlier slot.
type registry struct {
	mu     sync.Mutex
	nextID uint64
	subs   []sub
}

type sub struct {
	id uint64
	fn func()
}

func (r *registry) schedule(fn func()) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, sub{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// fire runs a snapshot of the callbacks without holding the lock, so a
// callback may cancel itself or schedule others.
func (r *registry) fire() int {
	r.mu.Lock()
	snapshot := make([]func(), len(r.subs))
	for i, s := range r.subs {
		snapshot[i] = s.fn
	}
	r.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
	return len(snapshot)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Driven is a frame clock advanced explicitly by its host.
type Driven struct {
	reg   registry
	ticks atomic.Uint64
}

func NewDriven() *Driven { return &Driven{} }

func (d *Driven) Schedule(tick func()) func() { return d.reg.schedule(tick) }

// Advance fires one tick and returns the number of callbacks invoked.
func (d *Driven) Advance() int {
	d.ticks.Add(1)
	return d.reg.fire()
}

// AdvanceN fires n ticks.
func (d *Driven) AdvanceN(n int) {
	for i := 0; i < n; i++ {
		d.Advance()
	}
}

func (d *Driven) Ticks() uint64   { return d.ticks.Load() }
func (d *Driven) Registered() int { return d.reg.len() }

// Ticker fires registered callbacks on its own goroutine every interval.
type Ticker struct {
	reg      registry
	interval time.Duration
	ticks    atomic.Uint64

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTicker returns a stopped ticker. A non-positive fps falls back to 60.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{
		interval: time.Second / time.Duration(fps),
		stopChan: make(chan struct{}),
	}
}

func (t *Ticker) Schedule(tick func()) func() { return t.reg.schedule(tick) }

func (t *Ticker) Start() {
	if t.running.CompareAndSwap(false, true) {
		t.wg.Add(1)
		go t.loop()
	}
}

// Close stops the goroutine and waits for an in-flight tick to return.
func (t *Ticker) Close() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		if t.running.Load() {
			t.wg.Wait()
		}
	})
}

func (t *Ticker) loop() {
	defer t.wg.Done()

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-tk.C:
			t.ticks.Add(1)
			t.reg.fire()
		}
	}
}

func (t *Ticker) Interval() time.Duration { return t.interval }
func (t *Ticker) Ticks() uint64           { return t.ticks.Load() }
func (t *Ticker) Registered() int         { return t.reg.len() }
