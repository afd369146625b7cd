package sigflow

// Delta derives a node combining each emission with the one before it. prev
// starts at initial. When the parent already has a value at construction the
// derived node starts at combine(v, v), the self-difference, and prev starts
// at that parent value rather than initial.
func Delta[T any, U any](s *Sig[T], combine func(prev T, value T) U, initial T, alg ...*Algebra[U]) *Sig[U] {
	prev := initial
	first := None[U]()
	if value, ok := s.raw().Get(); ok {
		first = Some(combine(value, value))
		prev = value
	}
	out := newNode(s.registry, first, combine(s.def, s.def), algOrNil(alg))
	s.Subscribe(func(value T) {
		result := combine(prev, value)
		prev = value
		out.Emit(result)
	})
	return out
}

// Velocity derives the per-emission difference. Requires Subtract. prev seeds
// from the parent's value when it has one; the first emission after an empty
// start is the zero delta Subtract(v, v).
func (self *Sig[T]) Velocity() *Sig[T] {
	if self.alg == nil || self.alg.Subtract == nil {
		panic(unsupported("velocity", algebraName(self.alg)+".Subtract"))
	}
	subtract := self.alg.Subtract
	prev := self.raw()
	out := newNode(self.registry, None[T](), subtract(self.def, self.def), self.alg)
	self.Subscribe(func(value T) {
		last := prev.Or(value)
		prev = Some(value)
		out.Emit(subtract(value, last))
	})
	return out
}

// Norm derives the scalar magnitude of the parent, Float tagged. Requires
// Norm.
func (self *Sig[T]) Norm() *Sig[float64] {
	if self.alg == nil || self.alg.Norm == nil {
		panic(unsupported("norm", algebraName(self.alg)+".Norm"))
	}
	return Map(self, self.alg.Norm, Float)
}

// Down fires true exactly once per false to true transition of the parent.
func Down(s *Sig[bool]) *Sig[bool] {
	edges := Delta(s, func(prev bool, value bool) bool {
		return !prev && value
	}, false)
	return Constant(edges.Filter(func(value bool) bool { return value }), true)
}

// Up mirrors Down for true to false transitions. The delta seed is true so a
// node that was never true cannot report a falling edge.
func Up(s *Sig[bool]) *Sig[bool] {
	edges := Delta(s, func(prev bool, value bool) bool {
		return prev && !value
	}, true)
	return Constant(edges.Filter(func(value bool) bool { return value }), true)
}

// State derives a Mealy machine step: update maps (value, state) to (output,
// next state). When the parent already has a value the initial output and
// state are computed eagerly from it.
func State[T any, S any, U any](s *Sig[T], update func(value T, state S) (U, S), initial S) *Sig[U] {
	state := initial
	first := None[U]()
	var def U
	if value, ok := s.raw().Get(); ok {
		var output U
		output, state = update(value, initial)
		first = Some(output)
	}
	out := newNode[U](s.registry, first, def, nil)
	s.Subscribe(func(value T) {
		var output U
		output, state = update(value, state)
		out.Emit(output)
	})
	return out
}

// Fold accumulates combine over emissions. The derived node starts at exactly
// initial, in contrast with Delta and State which seed from the parent value.
func Fold[T any, A any](s *Sig[T], combine func(acc A, value T) A, initial A, alg ...*Algebra[A]) *Sig[A] {
	acc := initial
	out := newNode(s.registry, Some(initial), initial, algOrNil(alg))
	s.Subscribe(func(value T) {
		acc = combine(acc, value)
		out.Emit(acc)
	})
	return out
}

// Accumulate folds with operator, defaulting to the algebra's Add when
// operator is nil. The accumulator starts at the parent default unless an
// explicit initial is given.
func (self *Sig[T]) Accumulate(operator func(a T, b T) T, initial ...T) *Sig[T] {
	combine := operator
	if combine == nil {
		if self.alg == nil || self.alg.Add == nil {
			panic(unsupported("accumulate", algebraName(self.alg)+".Add"))
		}
		combine = self.alg.Add
	}
	start := self.def
	if 0 < len(initial) {
		start = initial[0]
	}
	return Fold(self, combine, start, self.alg)
}

// Trail derives a sliding window of the count most recent values, newest
// first. With emitAtFull the window is withheld until it holds exactly count
// items.
//
// Trail is a free function rather than a method: a method on Sig[T] returning
// *Sig[[]T] is an instantiation cycle the compiler rejects.
func Trail[T any](self *Sig[T], count int, emitAtFull bool) *Sig[[]T] {
	window := Fold(self, func(acc []T, value T) []T {
		next := make([]T, 0, count)
		next = append(next, value)
		if count-1 < len(acc) {
			next = append(next, acc[:count-1]...)
		} else {
			next = append(next, acc...)
		}
		return next
	}, nil)
	if !emitAtFull {
		return window
	}
	return window.Filter(func(acc []T) bool {
		return len(acc) == count
	})
}
