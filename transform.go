package sigflow

// Map derives a node carrying f of the parent's value. The derived default is
// f of the parent default, whether or not anything ever emits.
func Map[T any, U any](s *Sig[T], f func(T) U, alg ...*Algebra[U]) *Sig[U] {
	out := newNode(s.registry, MapOpt(s.raw(), f), f(s.def), algOrNil(alg))
	s.Subscribe(func(value T) {
		out.Emit(f(value))
	})
	return out
}

// Filter derives a node that relays only values for which pred holds. A value
// failing pred leaves the derived node's effective value untouched. The
// default passes through unchanged; the initial value passes through the same
// predicate.
func (self *Sig[T]) Filter(pred func(T) bool) *Sig[T] {
	initial := self.raw()
	if value, ok := initial.Get(); ok && !pred(value) {
		initial = None[T]()
	}
	out := newNode(self.registry, initial, self.def, self.alg)
	self.Subscribe(func(value T) {
		if pred(value) {
			out.Emit(value)
		}
	})
	return out
}

// Retag derives an identity pass-through with a different algebra.
func (self *Sig[T]) Retag(alg *Algebra[T]) *Sig[T] {
	out := newNode(self.registry, self.raw(), self.def, alg)
	self.Subscribe(out.Emit)
	return out
}

// Constant derives a node that emits the same fixed value on every parent
// emission, whatever the parent emitted. When no algebra is given and the
// value matches a built-in shape, the matching built-in algebra is inferred.
func Constant[T any, U any](s *Sig[T], value U, alg ...*Algebra[U]) *Sig[U] {
	outAlg := algOrNil(alg)
	if outAlg == nil {
		outAlg = inferAlgebra(value)
	}
	out := newNode(s.registry, MapOpt(s.raw(), func(T) U { return value }), value, outAlg)
	s.Subscribe(func(T) {
		out.Emit(value)
	})
	return out
}

// Scale derives the parent's value scaled by factor, preserving the algebra.
// Requires Scale.
func (self *Sig[T]) Scale(factor float64) *Sig[T] {
	if self.alg == nil || self.alg.Scale == nil {
		panic(unsupported("scale", algebraName(self.alg)+".Scale"))
	}
	scale := self.alg.Scale
	return Map(self, func(value T) T {
		return scale(value, factor)
	}, self.alg)
}
