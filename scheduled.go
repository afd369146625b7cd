package sigflow

import (
	"time"

	"github.com/sigflow/sigflow/ratelimit"
	"github.com/sigflow/sigflow/sched"
)

// Throttle derives a rate-limited node: the parent's emissions reach it at
// most once per wait, with the ratelimit package's leading/trailing
// semantics.
func (self *Sig[T]) Throttle(sch sched.Scheduler, wait time.Duration, opts ratelimit.Options) *Sig[T] {
	out := newNode(self.registry, self.raw(), self.def, self.alg)
	self.Subscribe(ratelimit.Throttle(sch, out.Emit, wait, opts))
	return out
}

// Debounce derives a node that sees a burst of parent emissions as one, per
// the ratelimit package's leading/trailing semantics.
func (self *Sig[T]) Debounce(sch sched.Scheduler, wait time.Duration, opts ratelimit.Options) *Sig[T] {
	out := newNode(self.registry, self.raw(), self.def, self.alg)
	self.Subscribe(ratelimit.Debounce(sch, out.Emit, wait, opts))
	return out
}

// Delay re-emits each parent value wait later on the scheduler. Relative
// order is preserved for a constant wait; the scheduler may interleave
// otherwise.
func (self *Sig[T]) Delay(sch sched.Scheduler, wait time.Duration) *Sig[T] {
	out := newNode(self.registry, self.raw(), self.def, self.alg)
	self.Subscribe(func(value T) {
		sch.After(wait, func() {
			out.Emit(value)
		})
	})
	return out
}

// Interval resamples the parent's effective value at a fixed cadence, whether
// or not the parent emitted. period <= 0 samples once per frame.
func (self *Sig[T]) Interval(sch sched.Scheduler, period time.Duration) *Sig[T] {
	out := newNode(self.registry, self.raw(), self.def, self.alg)
	sample := func() {
		out.Emit(self.Value())
	}
	if period <= 0 {
		var frame func()
		frame = func() {
			sample()
			sch.NextFrame(frame)
		}
		sch.NextFrame(frame)
	} else {
		sch.Every(period, sample)
	}
	return out
}

const DefaultLerpThreshold = 1e-4

// Lerp derives a node that glides toward the parent's latest value, emitting
// an interpolation step once per frame until within threshold of the target.
// A new target re-arms the running loop; there is never more than one loop
// per node. Requires Lerp, Norm, and Subtract. threshold <= 0 selects
// DefaultLerpThreshold.
func (self *Sig[T]) Lerp(sch sched.Scheduler, t float64, threshold float64) *Sig[T] {
	if self.alg == nil || self.alg.Lerp == nil || self.alg.Norm == nil || self.alg.Subtract == nil {
		panic(unsupported("lerp", algebraName(self.alg)+".Lerp/Norm/Subtract"))
	}
	if threshold <= 0 {
		threshold = DefaultLerpThreshold
	}
	out := newNode(self.registry, self.raw(), self.def, self.alg)
	loop := &lerpLoop[T]{
		sch:       sch,
		out:       out,
		alg:       self.alg,
		t:         t,
		threshold: threshold,
		current:   self.raw(),
		target:    self.Value(),
	}
	self.Subscribe(loop.retarget)
	return out
}

// lerpLoop is the target-seeking state for one Lerp node. It is an explicit
// state machine rather than a closure so the loop state stays inspectable.
type lerpLoop[T any] struct {
	sch       sched.Scheduler
	out       *Sig[T]
	alg       *Algebra[T]
	t         float64
	threshold float64

	current Opt[T]
	target  T
	running bool
}

func (self *lerpLoop[T]) retarget(target T) {
	self.target = target
	if !self.running {
		self.running = true
		self.sch.NextFrame(self.step)
	}
}

func (self *lerpLoop[T]) step() {
	var next T
	if current, ok := self.current.Get(); ok {
		next = self.alg.Lerp(current, self.target, self.t)
	} else {
		next = self.target
	}
	if self.threshold < self.alg.Norm(self.alg.Subtract(next, self.target)) {
		self.current = Some(next)
		self.out.Emit(next)
		self.sch.NextFrame(self.step)
	} else {
		self.current = Some(self.target)
		self.running = false
		self.out.Emit(self.target)
	}
}
