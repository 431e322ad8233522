package fs

import (
	"sync"
	"time"

	"github.com/aretw0/runways/pkg/core"
)

// debouncer coalesces bursts of events for the same document into the last
// one seen within the window.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules emit for e, replacing any event still pending for e.ID.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	// A timer that can no longer be stopped has fired and owns its entry;
	// the new event gets an entry of its own.
	if p, ok := d.pending[e.ID]; ok && p.timer.Stop() {
		p.event = e
		p.timer.Reset(d.window)
		return
	}

	p := &pendingEvent{event: e}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		latest := p.event
		if d.pending[e.ID] == p {
			delete(d.pending, e.ID)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			emit(latest)
		}
	})
	d.pending[e.ID] = p
}

// stopAndWait drops pending events and waits up to timeout for timers that
// are already firing.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
