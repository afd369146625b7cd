package sched

import (
	"time"

	"golang.org/x/exp/slices"
)

// Manual is a deterministic scheduler for tests. Time advances only when the
// test calls Advance, frames fire only on Frame, and every callback runs on
// the caller's goroutine.
type Manual struct {
	now time.Duration
	seq int

	timers         []*manualTimer
	frameCallbacks []*manualFrame
}

type manualTimer struct {
	at      time.Duration
	period  time.Duration
	seq     int
	cb      func()
	stopped bool
}

func (self *manualTimer) Stop() {
	self.stopped = true
}

type manualFrame struct {
	cb      func()
	stopped bool
}

func (self *manualFrame) Stop() {
	self.stopped = true
}

func NewManual() *Manual {
	return &Manual{}
}

func (self *Manual) Now() time.Duration {
	return self.now
}

func (self *Manual) NextFrame(cb func()) Handle {
	frame := &manualFrame{cb: cb}
	self.frameCallbacks = append(self.frameCallbacks, frame)
	return frame
}

func (self *Manual) After(wait time.Duration, cb func()) Handle {
	timer := &manualTimer{
		at:  self.now + wait,
		seq: self.seq,
		cb:  cb,
	}
	self.seq += 1
	self.timers = append(self.timers, timer)
	return timer
}

func (self *Manual) Every(period time.Duration, cb func()) Handle {
	timer := &manualTimer{
		at:     self.now + period,
		period: period,
		seq:    self.seq,
		cb:     cb,
	}
	self.seq += 1
	self.timers = append(self.timers, timer)
	return timer
}

// Frame runs the frame callbacks pending at the start of the call. Callbacks
// scheduled during the call run on the next Frame, matching how a next-frame
// queue behaves.
func (self *Manual) Frame() {
	callbacks := self.frameCallbacks
	self.frameCallbacks = nil
	for _, frame := range callbacks {
		if !frame.stopped {
			frame.cb()
		}
	}
}

// Advance moves time forward by d, firing due timers in (time, insertion)
// order. A callback that schedules a new timer inside the window has that
// timer fired in the same call.
func (self *Manual) Advance(d time.Duration) {
	self.AdvanceTo(self.now + d)
}

func (self *Manual) AdvanceTo(target time.Duration) {
	for {
		timer := self.nextDue(target)
		if timer == nil {
			break
		}
		self.now = timer.at
		if timer.period <= 0 {
			i := slices.Index(self.timers, timer)
			self.timers = slices.Delete(self.timers, i, i+1)
		} else {
			timer.at += timer.period
		}
		if !timer.stopped {
			timer.cb()
		}
	}
	self.now = target
}

func (self *Manual) nextDue(target time.Duration) *manualTimer {
	var due *manualTimer
	for _, timer := range self.timers {
		if timer.stopped {
			continue
		}
		if target < timer.at {
			continue
		}
		if due == nil || timer.at < due.at || (timer.at == due.at && timer.seq < due.seq) {
			due = timer
		}
	}
	return due
}
