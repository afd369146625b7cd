package sigflow

import (
	"sync"

	"golang.org/x/exp/maps"
)

type node interface {
	Id() Id
	DetachAll()
}

// Registry tracks every node created under it. It exists for one global
// operation: detaching all listeners everywhere. The composition root owns
// the registry and passes it to leaf constructors; derived nodes inherit the
// registry of their first parent.
type Registry struct {
	mutex sync.Mutex
	nodes map[Id]node
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: map[Id]node{},
	}
}

func (self *Registry) add(n node) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	self.nodes[n.Id()] = n
}

// DetachAll removes every listener from every registered node. Emissions
// after this still update node values; they just notify no one.
// Already-scheduled timer and frame callbacks fire harmlessly against
// listener-less nodes.
func (self *Registry) DetachAll() {
	self.mutex.Lock()
	nodes := maps.Values(self.nodes)
	self.mutex.Unlock()

	for _, n := range nodes {
		n.DetachAll()
	}
}

// Clear detaches and forgets all registered nodes.
func (self *Registry) Clear() {
	self.mutex.Lock()
	nodes := maps.Values(self.nodes)
	self.nodes = map[Id]node{}
	self.mutex.Unlock()

	for _, n := range nodes {
		n.DetachAll()
	}
}

func (self *Registry) Len() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return len(self.nodes)
}
