package sigflow

import (
	"fmt"
)

// Merge derives a node that fires whenever any parent fires, relaying that
// parent's value unchanged. The initial value is the first definite parent
// value in argument order; the default is the first parent's default. The
// algebra is inherited only when every parent shares the identical table,
// otherwise it is left unset.
func Merge[T any](nodes ...*Sig[T]) *Sig[T] {
	if len(nodes) == 0 {
		panic(fmt.Errorf("%w: merge", ErrEmptyCombination))
	}

	initial := None[T]()
	for _, n := range nodes {
		if value, ok := n.raw().Get(); ok {
			initial = Some(value)
			break
		}
	}

	alg := nodes[0].alg
	for _, n := range nodes[1:] {
		if n.alg != alg {
			alg = nil
			break
		}
	}

	out := newNode(nodes[0].registry, initial, nodes[0].def, alg)
	for _, n := range nodes {
		n.Subscribe(out.Emit)
	}
	return out
}

type Tuple2[A any, B any] struct {
	A A
	B B
}

type Tuple3[A any, B any, C any] struct {
	A A
	B B
	C C
}

type Tuple4[A any, B any, C any, D any] struct {
	A A
	B B
	C C
	D D
}

type Tuple5[A any, B any, C any, D any, E any] struct {
	A A
	B B
	C C
	D D
	E E
}

type Tuple6[A any, B any, C any, D any, E any, F any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
}

// Zip2 derives the pair of the latest values of two nodes, emitting the whole
// pair on either parent's emission. Slots seed from the parents' effective
// values; the initial pair is definite only when both parents are.
func Zip2[A any, B any](a *Sig[A], b *Sig[B]) *Sig[Tuple2[A, B]] {
	lastA := a.Value()
	lastB := b.Value()

	initial := None[Tuple2[A, B]]()
	if a.raw().Present() && b.raw().Present() {
		initial = Some(Tuple2[A, B]{A: lastA, B: lastB})
	}

	out := newNode[Tuple2[A, B]](a.registry, initial, Tuple2[A, B]{A: a.def, B: b.def}, nil)
	a.Subscribe(func(value A) {
		lastA = value
		out.Emit(Tuple2[A, B]{A: lastA, B: lastB})
	})
	b.Subscribe(func(value B) {
		lastB = value
		out.Emit(Tuple2[A, B]{A: lastA, B: lastB})
	})
	return out
}

// Zip3 and the wider arities follow Zip2.
func Zip3[A any, B any, C any](a *Sig[A], b *Sig[B], c *Sig[C]) *Sig[Tuple3[A, B, C]] {
	lastA := a.Value()
	lastB := b.Value()
	lastC := c.Value()

	initial := None[Tuple3[A, B, C]]()
	if a.raw().Present() && b.raw().Present() && c.raw().Present() {
		initial = Some(Tuple3[A, B, C]{A: lastA, B: lastB, C: lastC})
	}

	out := newNode[Tuple3[A, B, C]](a.registry, initial, Tuple3[A, B, C]{A: a.def, B: b.def, C: c.def}, nil)
	emit := func() {
		out.Emit(Tuple3[A, B, C]{A: lastA, B: lastB, C: lastC})
	}
	a.Subscribe(func(value A) {
		lastA = value
		emit()
	})
	b.Subscribe(func(value B) {
		lastB = value
		emit()
	})
	c.Subscribe(func(value C) {
		lastC = value
		emit()
	})
	return out
}

func Zip4[A any, B any, C any, D any](a *Sig[A], b *Sig[B], c *Sig[C], d *Sig[D]) *Sig[Tuple4[A, B, C, D]] {
	lastA := a.Value()
	lastB := b.Value()
	lastC := c.Value()
	lastD := d.Value()

	initial := None[Tuple4[A, B, C, D]]()
	if a.raw().Present() && b.raw().Present() && c.raw().Present() && d.raw().Present() {
		initial = Some(Tuple4[A, B, C, D]{A: lastA, B: lastB, C: lastC, D: lastD})
	}

	out := newNode[Tuple4[A, B, C, D]](a.registry, initial, Tuple4[A, B, C, D]{A: a.def, B: b.def, C: c.def, D: d.def}, nil)
	emit := func() {
		out.Emit(Tuple4[A, B, C, D]{A: lastA, B: lastB, C: lastC, D: lastD})
	}
	a.Subscribe(func(value A) {
		lastA = value
		emit()
	})
	b.Subscribe(func(value B) {
		lastB = value
		emit()
	})
	c.Subscribe(func(value C) {
		lastC = value
		emit()
	})
	d.Subscribe(func(value D) {
		lastD = value
		emit()
	})
	return out
}

func Zip5[A any, B any, C any, D any, E any](a *Sig[A], b *Sig[B], c *Sig[C], d *Sig[D], e *Sig[E]) *Sig[Tuple5[A, B, C, D, E]] {
	lastA := a.Value()
	lastB := b.Value()
	lastC := c.Value()
	lastD := d.Value()
	lastE := e.Value()

	initial := None[Tuple5[A, B, C, D, E]]()
	if a.raw().Present() && b.raw().Present() && c.raw().Present() && d.raw().Present() && e.raw().Present() {
		initial = Some(Tuple5[A, B, C, D, E]{A: lastA, B: lastB, C: lastC, D: lastD, E: lastE})
	}

	out := newNode[Tuple5[A, B, C, D, E]](a.registry, initial, Tuple5[A, B, C, D, E]{A: a.def, B: b.def, C: c.def, D: d.def, E: e.def}, nil)
	emit := func() {
		out.Emit(Tuple5[A, B, C, D, E]{A: lastA, B: lastB, C: lastC, D: lastD, E: lastE})
	}
	a.Subscribe(func(value A) {
		lastA = value
		emit()
	})
	b.Subscribe(func(value B) {
		lastB = value
		emit()
	})
	c.Subscribe(func(value C) {
		lastC = value
		emit()
	})
	d.Subscribe(func(value D) {
		lastD = value
		emit()
	})
	e.Subscribe(func(value E) {
		lastE = value
		emit()
	})
	return out
}

func Zip6[A any, B any, C any, D any, E any, F any](a *Sig[A], b *Sig[B], c *Sig[C], d *Sig[D], e *Sig[E], f *Sig[F]) *Sig[Tuple6[A, B, C, D, E, F]] {
	lastA := a.Value()
	lastB := b.Value()
	lastC := c.Value()
	lastD := d.Value()
	lastE := e.Value()
	lastF := f.Value()

	initial := None[Tuple6[A, B, C, D, E, F]]()
	if a.raw().Present() && b.raw().Present() && c.raw().Present() && d.raw().Present() && e.raw().Present() && f.raw().Present() {
		initial = Some(Tuple6[A, B, C, D, E, F]{A: lastA, B: lastB, C: lastC, D: lastD, E: lastE, F: lastF})
	}

	out := newNode[Tuple6[A, B, C, D, E, F]](a.registry, initial, Tuple6[A, B, C, D, E, F]{A: a.def, B: b.def, C: c.def, D: d.def, E: e.def, F: f.def}, nil)
	emit := func() {
		out.Emit(Tuple6[A, B, C, D, E, F]{A: lastA, B: lastB, C: lastC, D: lastD, E: lastE, F: lastF})
	}
	a.Subscribe(func(value A) {
		lastA = value
		emit()
	})
	b.Subscribe(func(value B) {
		lastB = value
		emit()
	})
	c.Subscribe(func(value C) {
		lastC = value
		emit()
	})
	d.Subscribe(func(value D) {
		lastD = value
		emit()
	})
	e.Subscribe(func(value E) {
		lastE = value
		emit()
	})
	f.Subscribe(func(value F) {
		lastF = value
		emit()
	})
	return out
}

// ZipVec pairs two scalar nodes into a Vec tagged vector node. It is Zip2
// fixed at two numeric parents.
func ZipVec(x *Sig[float64], y *Sig[float64]) *Sig[Vec2] {
	lastX := x.Value()
	lastY := y.Value()

	initial := None[Vec2]()
	if x.raw().Present() && y.raw().Present() {
		initial = Some(Vec2{X: lastX, Y: lastY})
	}

	out := newNode(x.registry, initial, Vec2{X: x.def, Y: y.def}, Vec)
	x.Subscribe(func(value float64) {
		lastX = value
		out.Emit(Vec2{X: lastX, Y: lastY})
	})
	y.Subscribe(func(value float64) {
		lastY = value
		out.Emit(Vec2{X: lastX, Y: lastY})
	})
	return out
}
