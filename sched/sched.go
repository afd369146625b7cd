package sched

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Scheduler is the timing service the scheduled combinators consume.
type Scheduler interface {
	// NextFrame runs cb on the next frame tick.
	NextFrame(cb func()) Handle
	// After runs cb once, wait from now.
	After(wait time.Duration, cb func()) Handle
	// Every runs cb on a fixed period until stopped.
	Every(period time.Duration, cb func()) Handle
}

type Handle interface {
	Stop()
}

type LoopSettings struct {
	FrameRate     int
	PostQueueSize int
}

func DefaultLoopSettings() *LoopSettings {
	return &LoopSettings{
		FrameRate:     60,
		PostQueueSize: 1024,
	}
}

// Loop owns a single goroutine that runs every posted and scheduled callback.
// All node emissions for a graph are driven from this goroutine, which is
// what serializes access to node and combinator state.
type Loop struct {
	ctx      context.Context
	cancel   context.CancelFunc
	settings *LoopSettings

	post chan func()

	stateLock      sync.Mutex
	frameCallbacks []func()
}

func NewLoop(ctx context.Context) *Loop {
	return NewLoopWithSettings(ctx, DefaultLoopSettings())
}

func NewLoopWithSettings(ctx context.Context, settings *LoopSettings) *Loop {
	cancelCtx, cancel := context.WithCancel(ctx)
	loop := &Loop{
		ctx:      cancelCtx,
		cancel:   cancel,
		settings: settings,
		post:     make(chan func(), settings.PostQueueSize),
	}
	go loop.run()
	return loop
}

func (self *Loop) run() {
	framePeriod := time.Second / time.Duration(self.settings.FrameRate)
	frameTicker := time.NewTicker(framePeriod)
	defer frameTicker.Stop()

	glog.V(1).Infof("[sched]loop start frame period = %s\n", framePeriod)

	for {
		select {
		case <-self.ctx.Done():
			glog.V(1).Infof("[sched]loop done\n")
			return
		case cb := <-self.post:
			cb()
		case <-frameTicker.C:
			self.runFrame()
		}
	}
}

func (self *Loop) runFrame() {
	self.stateLock.Lock()
	callbacks := self.frameCallbacks
	self.frameCallbacks = nil
	self.stateLock.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// Post runs cb on the loop goroutine. Device generators use this to move
// native events onto the loop before emitting.
func (self *Loop) Post(cb func()) {
	select {
	case <-self.ctx.Done():
	case self.post <- cb:
	}
}

func (self *Loop) NextFrame(cb func()) Handle {
	h := &flagHandle{}
	self.stateLock.Lock()
	self.frameCallbacks = append(self.frameCallbacks, func() {
		if !h.isStopped() {
			cb()
		}
	})
	self.stateLock.Unlock()
	return h
}

func (self *Loop) After(wait time.Duration, cb func()) Handle {
	h := &flagHandle{}
	timer := time.AfterFunc(wait, func() {
		self.Post(func() {
			if !h.isStopped() {
				cb()
			}
		})
	})
	h.onStop = timer.Stop
	return h
}

func (self *Loop) Every(period time.Duration, cb func()) Handle {
	cancelCtx, cancel := context.WithCancel(self.ctx)
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-cancelCtx.Done():
				return
			case <-ticker.C:
				self.Post(cb)
			}
		}
	}()
	return &funcHandle{stop: cancel}
}

// Close stops the loop. Callbacks already queued may be dropped; scheduled
// combinators tolerate that.
func (self *Loop) Close() {
	self.cancel()
}

type flagHandle struct {
	stateLock sync.Mutex
	stopped   bool
	onStop    func() bool
}

func (self *flagHandle) Stop() {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	self.stopped = true
	if self.onStop != nil {
		self.onStop()
	}
}

func (self *flagHandle) isStopped() bool {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	return self.stopped
}

type funcHandle struct {
	stop func()
}

func (self *funcHandle) Stop() {
	self.stop()
}
