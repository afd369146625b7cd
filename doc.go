// Package sigflow composes input events into derived signals. A Sig is a
// dataflow node with an optional current value, a default, and an ordered
// listener set; combinators derive new nodes from existing ones: stateless
// transforms (Map, Filter, Retag, Constant, Scale), temporal combinators
// (Delta, Velocity, Down, Up, State, Fold, Accumulate, Trail), scheduled
// combinators (Throttle, Debounce, Delay, Interval, Lerp), and fan-in
// combinators (Merge, Zip2..Zip6, ZipVec).
//
// Device generators in the device package own the leaf nodes and emit into
// them from the sched loop. A Registry collects every node for the one global
// operation, detaching all listeners.
package sigflow
