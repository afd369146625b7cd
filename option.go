package sigflow

// Opt is an explicit optional: a tagged Some/None pair distinct from any valid
// value of T, including T whose zero value is meaningful. The engine never
// encodes "no value yet" as a zero value or a nil.
type Opt[T any] struct {
	value T
	ok    bool
}

func Some[T any](value T) Opt[T] {
	return Opt[T]{
		value: value,
		ok:    true,
	}
}

func None[T any]() Opt[T] {
	return Opt[T]{}
}

func (self Opt[T]) Get() (T, bool) {
	return self.value, self.ok
}

func (self Opt[T]) Present() bool {
	return self.ok
}

// Or returns the contained value when present, else fallback.
func (self Opt[T]) Or(fallback T) T {
	if self.ok {
		return self.value
	}
	return fallback
}

// MapOpt applies f when a value is present and stays None otherwise.
func MapOpt[T any, U any](opt Opt[T], f func(T) U) Opt[U] {
	if value, ok := opt.Get(); ok {
		return Some(f(value))
	}
	return None[U]()
}
