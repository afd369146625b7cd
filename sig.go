package sigflow

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// comparable
type Id [16]byte

func NewId() Id {
	return Id(ulid.Make())
}

func (self Id) String() string {
	return ulid.ULID(self).String()
}

// Sig is a dataflow node: an optional current value, a default value, an
// insertion-ordered listener set, and an optional algebra. Combinators derive
// new nodes by subscribing them to existing ones, so every graph is acyclic by
// construction and a single emit fans out synchronously down the subgraph.
//
// The current value and all combinator state are owned by the emitting
// goroutine. All emissions for one graph must happen on a single goroutine,
// in production the `sched.Loop` goroutine. Subscribe and unsubscribe are safe
// from any goroutine.
type Sig[T any] struct {
	sigId    Id
	registry *Registry
	def      T
	alg      *Algebra[T]

	current   Opt[T]
	listeners listenerList[T]
}

// NewSig creates a leaf node with no current value. Its effective value is
// def until the first emission.
func NewSig[T any](registry *Registry, def T, alg *Algebra[T]) *Sig[T] {
	return newNode(registry, None[T](), def, alg)
}

// NewSigWithValue creates a leaf node that already has a definite value.
func NewSigWithValue[T any](registry *Registry, value T, def T, alg *Algebra[T]) *Sig[T] {
	return newNode(registry, Some(value), def, alg)
}

func newNode[T any](registry *Registry, current Opt[T], def T, alg *Algebra[T]) *Sig[T] {
	sig := &Sig[T]{
		sigId:    NewId(),
		registry: registry,
		def:      def,
		alg:      alg,
		current:  current,
	}
	registry.add(sig)
	return sig
}

func (self *Sig[T]) Id() Id {
	return self.sigId
}

func (self *Sig[T]) Registry() *Registry {
	return self.registry
}

func (self *Sig[T]) Default() T {
	return self.def
}

func (self *Sig[T]) Algebra() *Algebra[T] {
	return self.alg
}

// Value is the effective value: the current value once one has been observed,
// else the default. The Some/None distinction never escapes this package.
func (self *Sig[T]) Value() T {
	return self.current.Or(self.def)
}

// raw exposes the Some/None distinction to combinators in this package,
// which need it to seed fan-in slots and initial values.
func (self *Sig[T]) raw() Opt[T] {
	return self.current
}

// Emit sets the current value and invokes every listener subscribed at the
// start of the call, in subscription order, exactly once each. Listeners
// added during the call fire only on later emissions.
func (self *Sig[T]) Emit(value T) {
	self.current = Some(value)
	for _, entry := range self.listeners.get() {
		entry.fn(value)
	}
}

// Subscribe adds a listener and returns its unsubscribe.
func (self *Sig[T]) Subscribe(listener func(T)) func() {
	handle := self.listeners.add(listener)
	return func() {
		self.listeners.remove(handle)
	}
}

// SubscribeOnce adds a listener that detaches itself after its first call.
func (self *Sig[T]) SubscribeOnce(listener func(T)) func() {
	done := false
	var unsub func()
	unsub = self.Subscribe(func(value T) {
		if done {
			return
		}
		done = true
		unsub()
		listener(value)
	})
	return unsub
}

// DetachAll removes every listener. The node keeps accepting emissions and
// tracking its value; it just stops notifying.
func (self *Sig[T]) DetachAll() {
	self.listeners.clear()
}

func (self *Sig[T]) ListenerCount() int {
	return self.listeners.size()
}

func (self *Sig[T]) String() string {
	return fmt.Sprintf("sig[%s](%s)", algebraName(self.alg), self.sigId)
}
