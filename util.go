package sigflow

import (
	"sync"

	"golang.org/x/exp/slices"
)

// makes a copy of the list on update, so that emit iterates a stable snapshot
// while listeners subscribe and unsubscribe concurrently
type listenerList[T any] struct {
	mutex      sync.Mutex
	nextHandle int
	entries    []*listenerEntry[T]
}

type listenerEntry[T any] struct {
	handle int
	fn     func(T)
}

func (self *listenerList[T]) get() []*listenerEntry[T] {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.entries
}

func (self *listenerList[T]) add(fn func(T)) int {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	handle := self.nextHandle
	self.nextHandle += 1

	nextEntries := slices.Clone(self.entries)
	nextEntries = append(nextEntries, &listenerEntry[T]{
		handle: handle,
		fn:     fn,
	})
	self.entries = nextEntries
	return handle
}

func (self *listenerList[T]) remove(handle int) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	i := slices.IndexFunc(self.entries, func(entry *listenerEntry[T]) bool {
		return entry.handle == handle
	})
	if i < 0 {
		// not present
		return
	}
	nextEntries := slices.Clone(self.entries)
	nextEntries = slices.Delete(nextEntries, i, i+1)
	self.entries = nextEntries
}

func (self *listenerList[T]) clear() {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	self.entries = nil
}

func (self *listenerList[T]) size() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return len(self.entries)
}
