// Package device holds generators that turn native input events into leaf
// sigflow nodes: a websocket control surface, an MQTT source, and a local
// terminal source. Sources observe their device on their own goroutine and
// post emissions onto the scheduler loop, so all node state stays owned by
// one goroutine.
package device

import (
	"sync"

	"github.com/golang/glog"

	"github.com/sigflow/sigflow"
)

// Controls is the set of leaf nodes a source exposes, one node per control
// id. Nodes are created lazily on first use or first event and live for the
// process lifetime.
type Controls struct {
	registry *sigflow.Registry

	stateLock sync.Mutex
	scalars   map[string]*sigflow.Sig[float64]
	vectors   map[string]*sigflow.Sig[sigflow.Vec2]
	buttons   map[string]*sigflow.Sig[bool]
}

func NewControls(registry *sigflow.Registry) *Controls {
	return &Controls{
		registry: registry,
		scalars:  map[string]*sigflow.Sig[float64]{},
		vectors:  map[string]*sigflow.Sig[sigflow.Vec2]{},
		buttons:  map[string]*sigflow.Sig[bool]{},
	}
}

// Scalar returns the Float tagged node for a scalar control.
func (self *Controls) Scalar(ctl string) *sigflow.Sig[float64] {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	sig, ok := self.scalars[ctl]
	if !ok {
		sig = sigflow.NewSig(self.registry, 0, sigflow.Float)
		self.scalars[ctl] = sig
	}
	return sig
}

// Vector returns the Vec tagged node for a two axis control.
func (self *Controls) Vector(ctl string) *sigflow.Sig[sigflow.Vec2] {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	sig, ok := self.vectors[ctl]
	if !ok {
		sig = sigflow.NewSig(self.registry, sigflow.Vec2{}, sigflow.Vec)
		self.vectors[ctl] = sig
	}
	return sig
}

// Button returns the untagged boolean node for a press control.
func (self *Controls) Button(ctl string) *sigflow.Sig[bool] {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	sig, ok := self.buttons[ctl]
	if !ok {
		sig = sigflow.NewSig[bool](self.registry, false, nil)
		self.buttons[ctl] = sig
	}
	return sig
}

// ControlEvent is the record shared by the websocket and mqtt sources. One of
// Xy or B selects the control shape; neither means a scalar.
type ControlEvent struct {
	Ctl string      `json:"ctl" msgpack:"ctl"`
	V   float64     `json:"v" msgpack:"v"`
	Xy  *[2]float64 `json:"xy,omitempty" msgpack:"xy,omitempty"`
	B   *bool       `json:"b,omitempty" msgpack:"b,omitempty"`
	T   int64       `json:"t" msgpack:"t"`
}

// apply emits the event into the matching control node. Callers must run it
// on the loop goroutine.
func (self *Controls) apply(event *ControlEvent) {
	switch {
	case event.Xy != nil:
		self.Vector(event.Ctl).Emit(sigflow.Vec2{X: event.Xy[0], Y: event.Xy[1]})
	case event.B != nil:
		self.Button(event.Ctl).Emit(*event.B)
	default:
		self.Scalar(event.Ctl).Emit(event.V)
	}
	glog.V(2).Infof("[device]%s\n", event.Ctl)
}
