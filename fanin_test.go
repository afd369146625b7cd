package sigflow

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestMerge(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := NewSig(registry, 0.0, Float)
	merged := Merge(a, b)

	values := []float64{}
	merged.Subscribe(func(value float64) {
		values = append(values, value)
	})

	a.Emit(1.0)
	b.Emit(2.0)
	a.Emit(3.0)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, values)
}

func TestMergeEmpty(t *testing.T) {
	expectPanic(t, ErrEmptyCombination, func() {
		Merge[float64]()
	})
}

func TestMergeInitialValue(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 1.0, Float)
	b := NewSigWithValue(registry, 5.0, 2.0, Float)

	// first definite value in argument order, first parent's default
	merged := Merge(a, b)
	assert.Equal(t, 5.0, merged.Value())
	assert.Equal(t, 1.0, merged.Default())
}

func TestMergeAlgebra(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := NewSig(registry, 0.0, Float)
	// pointer identity: assert.Equal deep-compares func fields, always false
	if Merge(a, b).Algebra() != Float {
		t.Fatal("expected merged algebra to be Float")
	}

	other := &Algebra[float64]{Name: "other"}
	c := NewSig(registry, 0.0, other)
	// differing descriptors inherit nothing
	if Merge(a, c).Algebra() != nil {
		t.Fatal("expected no algebra for differing parents")
	}
}

func TestZip2(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 10.0, Float)
	b := NewSig(registry, 20.0, Float)
	pair := Zip2(a, b)

	// default tuple until both parents are definite
	assert.Equal(t, Tuple2[float64, float64]{A: 10.0, B: 20.0}, pair.Value())

	values := []Tuple2[float64, float64]{}
	pair.Subscribe(func(value Tuple2[float64, float64]) {
		values = append(values, value)
	})

	a.Emit(1.0)
	b.Emit(2.0)
	a.Emit(3.0)
	assert.Equal(t, []Tuple2[float64, float64]{
		{A: 1.0, B: 20.0},
		{A: 1.0, B: 2.0},
		{A: 3.0, B: 2.0},
	}, values)
}

func TestZip2InitialValue(t *testing.T) {
	registry := NewRegistry()
	a := NewSigWithValue(registry, 1.0, 0.0, Float)
	b := NewSig(registry, 9.0, Float)

	// one indefinite parent keeps the tuple on its default
	pair := Zip2(a, b)
	assert.Equal(t, Tuple2[float64, float64]{A: 0.0, B: 9.0}, pair.Value())

	c := NewSigWithValue(registry, 2.0, 0.0, Float)
	full := Zip2(a, c)
	assert.Equal(t, Tuple2[float64, float64]{A: 1.0, B: 2.0}, full.Value())
}

func TestZip3(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := NewSig[bool](registry, false, nil)
	c := NewSig(registry, Vec2{}, Vec)
	triple := Zip3(a, b, c)

	a.Emit(1.0)
	b.Emit(true)
	c.Emit(Vec2{X: 2, Y: 3})
	assert.Equal(t, Tuple3[float64, bool, Vec2]{
		A: 1.0,
		B: true,
		C: Vec2{X: 2, Y: 3},
	}, triple.Value())
}

func TestZip6(t *testing.T) {
	registry := NewRegistry()
	sigs := []*Sig[float64]{}
	for i := 0; i < 6; i += 1 {
		sigs = append(sigs, NewSig(registry, 0.0, Float))
	}
	wide := Zip6(sigs[0], sigs[1], sigs[2], sigs[3], sigs[4], sigs[5])

	emissions := 0
	wide.Subscribe(func(Tuple6[float64, float64, float64, float64, float64, float64]) {
		emissions += 1
	})

	for i, s := range sigs {
		s.Emit(float64(i + 1))
	}
	assert.Equal(t, 6, emissions)
	assert.Equal(t, Tuple6[float64, float64, float64, float64, float64, float64]{
		A: 1.0, B: 2.0, C: 3.0, D: 4.0, E: 5.0, F: 6.0,
	}, wide.Value())
}

func TestZipVec(t *testing.T) {
	registry := NewRegistry()
	x := NewSig(registry, 0.0, Float)
	y := NewSig(registry, 0.0, Float)
	position := ZipVec(x, y)

	if position.Algebra() != Vec {
		t.Fatal("expected zipped algebra to be Vec")
	}

	x.Emit(3.0)
	y.Emit(4.0)
	assert.Equal(t, Vec2{X: 3, Y: 4}, position.Value())
	assert.Equal(t, 5.0, position.Norm().Value())
}
