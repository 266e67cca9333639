// Package frame drives producers on a per frame cadence. Callbacks are
// registered with a Registry and invoked on every tick while active.
package frame

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Info describes the frame a callback runs for.
type Info struct {
	Frame     uint64
	Timestamp time.Time
	// Delta is the time since the previous frame, zero on the first.
	Delta time.Duration
}

type Callback func(Info)

type callback struct {
	fn     Callback
	active bool
}

// Registry is safe for concurrent use. Callbacks run on the ticking
// goroutine, in registration order, without the registry lock held.
type Registry struct {
	mu        sync.Mutex
	next      int
	callbacks map[int]*callback
	frame     uint64
	last      time.Time
}

func NewRegistry() *Registry {
	return &Registry{callbacks: map[int]*callback{}}
}

// Register adds fn and returns its id. An autostarted callback is active
// immediately.
func (r *Registry) Register(fn Callback, autostart bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.callbacks[id] = &callback{fn: fn, active: autostart}
	return id
}

func (r *Registry) SetActive(id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.callbacks[id]
	if !ok {
		return fmt.Errorf("no frame callback %d", id)
	}
	cb.active = active
	return nil
}

func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, id)
}

// Active returns the number of active callbacks.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, cb := range r.callbacks {
		if cb.active {
			n++
		}
	}
	return n
}

// Tick runs one frame at now.
func (r *Registry) Tick(now time.Time) {
	r.mu.Lock()
	info := Info{Frame: r.frame, Timestamp: now}
	if !r.last.IsZero() {
		info.Delta = now.Sub(r.last)
	}
	r.frame++
	r.last = now
	var fns []Callback
	for _, id := range slices.Sorted(maps.Keys(r.callbacks)) {
		if cb := r.callbacks[id]; cb.active {
			fns = append(fns, cb.fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(info)
	}
}

// Run ticks every interval until ctx is done or, if frames is positive,
// frames ticks have run.
func (r *Registry) Run(ctx context.Context, interval time.Duration, frames int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.Tick(now)
		}
	}
	return nil
}
