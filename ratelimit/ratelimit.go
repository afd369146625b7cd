// Package ratelimit provides throttle and debounce wrappers with the standard
// leading/trailing invocation semantics, scheduled on a sched.Scheduler. The
// wrapped functions must be called from the scheduler's goroutine; the
// wrappers keep no locks of their own.
package ratelimit

import (
	"time"

	"github.com/sigflow/sigflow/sched"
)

// Options selects which edges of the wait window invoke the wrapped function.
type Options struct {
	Leading  bool
	Trailing bool
}

func DefaultThrottleOptions() Options {
	return Options{
		Leading:  true,
		Trailing: true,
	}
}

func DefaultDebounceOptions() Options {
	return Options{
		Leading:  false,
		Trailing: true,
	}
}

// Throttle wraps fn so it is invoked at most once per wait. With Leading the
// first call of a window invokes immediately; with Trailing the last withheld
// value is invoked when the window ends, which opens another window.
func Throttle[T any](sch sched.Scheduler, fn func(T), wait time.Duration, opts Options) func(T) {
	th := &throttler[T]{
		sch:  sch,
		fn:   fn,
		wait: wait,
		opts: opts,
	}
	return th.call
}

type throttler[T any] struct {
	sch  sched.Scheduler
	fn   func(T)
	wait time.Duration
	opts Options

	open       bool
	pending    T
	pendingSet bool
}

func (self *throttler[T]) call(value T) {
	if !self.open {
		self.open = true
		if self.opts.Leading {
			self.fn(value)
		} else {
			self.pending = value
			self.pendingSet = true
		}
		self.sch.After(self.wait, self.flush)
	} else {
		self.pending = value
		self.pendingSet = true
	}
}

func (self *throttler[T]) flush() {
	if self.pendingSet && self.opts.Trailing {
		value := self.pending
		self.pendingSet = false
		self.fn(value)
		self.sch.After(self.wait, self.flush)
	} else {
		self.open = false
		self.pendingSet = false
	}
}

// Debounce wraps fn so it is invoked only after wait of call silence. With
// Leading the first call of a burst invokes immediately; with Trailing the
// last value of the burst is invoked when the burst settles.
func Debounce[T any](sch sched.Scheduler, fn func(T), wait time.Duration, opts Options) func(T) {
	de := &debouncer[T]{
		sch:  sch,
		fn:   fn,
		wait: wait,
		opts: opts,
	}
	return de.call
}

type debouncer[T any] struct {
	sch  sched.Scheduler
	fn   func(T)
	wait time.Duration
	opts Options

	timer      sched.Handle
	pending    T
	pendingSet bool
}

func (self *debouncer[T]) call(value T) {
	first := self.timer == nil
	if self.timer != nil {
		self.timer.Stop()
	}
	if first && self.opts.Leading {
		self.fn(value)
	} else {
		self.pending = value
		self.pendingSet = true
	}
	self.timer = self.sch.After(self.wait, self.settle)
}

func (self *debouncer[T]) settle() {
	self.timer = nil
	if self.pendingSet && self.opts.Trailing {
		value := self.pending
		self.pendingSet = false
		self.fn(value)
	}
}
