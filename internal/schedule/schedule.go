// Package schedule runs timed plans: ordered (delay, action) steps driven
// by one cancellable timer handle. A Runner owns at most one plan; running
// a new plan or cancelling drops whatever steps were still pending.
package schedule

import (
	"sync"
	"time"
)

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Real() wraps time.AfterFunc; tests use FakeClock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Real returns the wall clock.
func Real() Clock { return realClock{} }

// Step waits Delay after the previous step (or after Run for the first
// one) and then calls Do.
type Step struct {
	Delay time.Duration
	Do    func()
}

// Plan is an ordered list of steps.
type Plan []Step

// Total is the time from Run until the last step fires.
func (p Plan) Total() time.Duration {
	var d time.Duration
	for _, s := range p {
		d += s.Delay
	}
	return d
}

// Runner executes one Plan at a time.
type Runner struct {
	clock Clock

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewRunner returns a Runner on clock, or on the wall clock when nil.
func NewRunner(clock Clock) *Runner {
	if clock == nil {
		clock = Real()
	}
	return &Runner{clock: clock}
}

// Run cancels the current plan and starts p.
func (r *Runner) Run(p Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.gen++
	r.scheduleLocked(r.gen, p, 0)
}

// Cancel drops any pending steps. A step already executing finishes.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.gen++
}

// Pending reports whether a step is waiting on the timer.
func (r *Runner) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

func (r *Runner) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Runner) scheduleLocked(gen uint64, p Plan, i int) {
	if i >= len(p) {
		r.timer = nil
		return
	}
	step := p[i]
	r.timer = r.clock.AfterFunc(step.Delay, func() {
		r.mu.Lock()
		if gen != r.gen {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.mu.Unlock()

		// Do may call Run; the generation check below then stops this plan.
		if step.Do != nil {
			step.Do()
		}

		r.mu.Lock()
		if gen == r.gen {
			r.scheduleLocked(gen, p, i+1)
		}
		r.mu.Unlock()
	})
}
