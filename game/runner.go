package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Runner advances a World on its own goroutine and publishes a Snapshot
// after every tick, so presentation code never blocks the update.
type Runner struct {
	world    *World
	interval time.Duration
	maxTicks int32 // 0 = unbounded

	latest atomic.Pointer[Snapshot]
	paused atomic.Bool

	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewRunner creates a runner that waits interval between ticks (0 = as fast
// as possible) and stops after maxTicks ticks per Start (0 = never).
func NewRunner(w *World, interval time.Duration, maxTicks int32) *Runner {
	r := &Runner{world: w, interval: interval, maxTicks: maxTicks}
	r.latest.Store(w.Snapshot())
	return r
}

// Start launches the update goroutine. It stops when ctx is cancelled,
// Stop is called or the tick limit is reached; after that Start may be
// called again.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.stopChan = make(chan struct{})
	r.running = true

	r.wg.Add(1)
	go r.loop(ctx, r.stopChan)
}

// Stop signals the update goroutine to exit and waits for it.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopChan)
	r.running = false
	r.mu.Unlock()

	r.wg.Wait()
}

// Wait blocks until the update goroutine has exited.
func (r *Runner) Wait() { r.wg.Wait() }

// SetPaused suspends or resumes ticking without stopping the goroutine.
func (r *Runner) SetPaused(paused bool) { r.paused.Store(paused) }

// Paused reports whether ticking is suspended.
func (r *Runner) Paused() bool { return r.paused.Load() }

// Latest returns the snapshot taken after the most recent tick.
func (r *Runner) Latest() *Snapshot { return r.latest.Load() }

// exited clears running unless a newer Start already replaced stop.
func (r *Runner) exited(stop chan struct{}) {
	r.mu.Lock()
	if r.stopChan == stop {
		r.running = false
	}
	r.mu.Unlock()
}

func (r *Runner) loop(ctx context.Context, stop chan struct{}) {
	defer r.wg.Done()
	defer r.exited(stop)

	limit := r.world.Tick() + r.maxTicks

	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			default:
			}
		}

		if r.paused.Load() {
			if tick == nil {
				time.Sleep(time.Millisecond)
			}
			continue
		}

		r.world.UpdateState()
		r.latest.Store(r.world.Snapshot())

		if r.maxTicks > 0 && r.world.Tick() >= limit {
			return
		}
	}
}
