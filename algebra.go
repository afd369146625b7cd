package sigflow

import (
	"math"
)

// Algebra is a per-type capability table. Fields other than Name are
// independently optional; a nil field means the type does not support that
// operation. Each combinator documents which fields it requires and panics
// with ErrUnsupportedOperation when a required field is missing. Algebras are
// pure and shared by pointer across all nodes of the same semantic type.
type Algebra[T any] struct {
	Name     string
	Add      func(a T, b T) T
	Subtract func(a T, b T) T
	Scale    func(value T, factor float64) T
	Lerp     func(from T, to T, t float64) T
	Norm     func(value T) float64
}

type Vec2 struct {
	X float64
	Y float64
}

// Float is the built-in algebra for scalar values.
var Float = &Algebra[float64]{
	Name: "float",
	Add: func(a float64, b float64) float64 {
		return a + b
	},
	Subtract: func(a float64, b float64) float64 {
		return a - b
	},
	Scale: func(value float64, factor float64) float64 {
		return value * factor
	},
	Lerp: func(from float64, to float64, t float64) float64 {
		return from + (to-from)*t
	},
	Norm: math.Abs,
}

// Vec is the built-in algebra for 2d vectors.
var Vec = &Algebra[Vec2]{
	Name: "vec2",
	Add: func(a Vec2, b Vec2) Vec2 {
		return Vec2{
			X: a.X + b.X,
			Y: a.Y + b.Y,
		}
	},
	Subtract: func(a Vec2, b Vec2) Vec2 {
		return Vec2{
			X: a.X - b.X,
			Y: a.Y - b.Y,
		}
	},
	Scale: func(value Vec2, factor float64) Vec2 {
		return Vec2{
			X: value.X * factor,
			Y: value.Y * factor,
		}
	},
	Lerp: func(from Vec2, to Vec2, t float64) Vec2 {
		return Vec2{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}
	},
	Norm: func(value Vec2) float64 {
		return math.Hypot(value.X, value.Y)
	},
}

func algebraName[T any](alg *Algebra[T]) string {
	if alg == nil {
		return "untyped"
	}
	return alg.Name
}

// inferAlgebra tags values that match a built-in shape when the caller gives
// no explicit algebra.
func inferAlgebra[T any](value T) *Algebra[T] {
	switch any(value).(type) {
	case float64:
		return any(Float).(*Algebra[T])
	case Vec2:
		return any(Vec).(*Algebra[T])
	}
	return nil
}

func algOrNil[T any](alg []*Algebra[T]) *Algebra[T] {
	if 0 < len(alg) {
		return alg[0]
	}
	return nil
}
