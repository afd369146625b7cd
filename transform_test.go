package sigflow

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestMap(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 2.0, Float)
	b := Map(a, func(value float64) float64 {
		return value * 10
	}, Float)

	// derived default holds with no emission at all
	assert.Equal(t, 20.0, b.Default())
	assert.Equal(t, 20.0, b.Value())

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})
	a.Emit(1.0)
	a.Emit(3.0)
	assert.Equal(t, []float64{10.0, 30.0}, values)
	assert.Equal(t, 30.0, b.Value())
}

func TestMapSeedsFromParentValue(t *testing.T) {
	registry := NewRegistry()
	a := NewSigWithValue(registry, 4.0, 0.0, Float)
	b := Map(a, func(value float64) float64 {
		return value + 1
	}, Float)
	assert.Equal(t, 5.0, b.Value())
}

func TestFilter(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Filter(func(value float64) bool {
		return 0 < value
	})

	assert.Equal(t, 0.0, b.Value())

	a.Emit(2.0)
	assert.Equal(t, 2.0, b.Value())

	// failing the predicate retains the previous effective value
	a.Emit(-1.0)
	assert.Equal(t, 2.0, b.Value())

	a.Emit(5.0)
	assert.Equal(t, 5.0, b.Value())
}

func TestFilterInitialValue(t *testing.T) {
	registry := NewRegistry()

	a := NewSigWithValue(registry, -3.0, 1.0, Float)
	b := a.Filter(func(value float64) bool {
		return 0 < value
	})
	// initial value fails the predicate, so the default shows through
	assert.Equal(t, 1.0, b.Value())

	c := NewSigWithValue(registry, 3.0, 1.0, Float)
	d := c.Filter(func(value float64) bool {
		return 0 < value
	})
	assert.Equal(t, 3.0, d.Value())
}

func TestRetag(t *testing.T) {
	registry := NewRegistry()
	a := NewSig[float64](registry, 2.0, nil)
	b := a.Retag(Float)

	// pointer identity: assert.Equal deep-compares func fields, always false
	if b.Algebra() != Float {
		t.Fatal("expected retagged algebra to be Float")
	}
	assert.Equal(t, 2.0, b.Default())

	a.Emit(4.0)
	assert.Equal(t, 4.0, b.Value())
}

func TestConstant(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := Constant(a, 9.0)

	// built-in algebra inferred from the value shape
	if b.Algebra() != Float {
		t.Fatal("expected inferred algebra to be Float")
	}
	assert.Equal(t, 9.0, b.Default())

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})
	a.Emit(1.0)
	a.Emit(100.0)
	assert.Equal(t, []float64{9.0, 9.0}, values)
}

func TestConstantVecInference(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)

	b := Constant(a, Vec2{X: 1, Y: 2})
	if b.Algebra() != Vec {
		t.Fatal("expected inferred algebra to be Vec")
	}

	c := Constant(a, "label")
	if c.Algebra() != nil {
		t.Fatal("no algebra should be inferred for a string")
	}
}

func TestScale(t *testing.T) {
	registry := NewRegistry()
	a := NewSig(registry, 2.0, Float)
	b := a.Scale(3)

	if b.Algebra() != Float {
		t.Fatal("expected scaled algebra to be Float")
	}
	assert.Equal(t, 6.0, b.Default())

	a.Emit(4.0)
	assert.Equal(t, 12.0, b.Value())
}

func TestScaleRequiresAlgebra(t *testing.T) {
	registry := NewRegistry()
	a := NewSig[float64](registry, 0.0, nil)
	expectPanic(t, ErrUnsupportedOperation, func() {
		a.Scale(2)
	})
}
