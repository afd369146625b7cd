package sigflow

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/sigflow/sigflow/ratelimit"
	"github.com/sigflow/sigflow/sched"
)

func TestThrottle(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Throttle(manual, 100*time.Millisecond, ratelimit.DefaultThrottleOptions())

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	// leading edge passes immediately, the burst is withheld
	a.Emit(1.0)
	a.Emit(2.0)
	a.Emit(3.0)
	assert.Equal(t, []float64{1.0}, values)

	// trailing edge relays the last withheld value
	manual.Advance(100 * time.Millisecond)
	assert.Equal(t, []float64{1.0, 3.0}, values)
}

func TestDebounce(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Debounce(manual, 100*time.Millisecond, ratelimit.DefaultDebounceOptions())

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	a.Emit(1.0)
	manual.Advance(50 * time.Millisecond)
	a.Emit(2.0)
	manual.Advance(50 * time.Millisecond)
	a.Emit(3.0)
	assert.Equal(t, 0, len(values))

	manual.Advance(100 * time.Millisecond)
	assert.Equal(t, []float64{3.0}, values)
}

func TestDelay(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Delay(manual, 50*time.Millisecond)

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	a.Emit(1.0)
	a.Emit(2.0)
	assert.Equal(t, 0, len(values))
	assert.Equal(t, 0.0, b.Value())

	// constant wait preserves relative order
	manual.Advance(50 * time.Millisecond)
	assert.Equal(t, []float64{1.0, 2.0}, values)
}

func TestInterval(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 7.0, Float)
	b := a.Interval(manual, 10*time.Millisecond)

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	// resamples the effective value whether or not the parent emitted
	manual.Advance(20 * time.Millisecond)
	assert.Equal(t, []float64{7.0, 7.0}, values)

	a.Emit(3.0)
	manual.Advance(10 * time.Millisecond)
	assert.Equal(t, []float64{7.0, 7.0, 3.0}, values)
}

func TestIntervalPerFrame(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 1.0, Float)
	b := a.Interval(manual, 0)

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	manual.Frame()
	a.Emit(2.0)
	manual.Frame()
	assert.Equal(t, []float64{1.0, 2.0}, values)
}

func TestLerp(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Lerp(manual, 0.5, 1.0)

	values := []float64{}
	b.Subscribe(func(value float64) {
		values = append(values, value)
	})

	// no prior value: the first step snaps to the target
	a.Emit(10.0)
	manual.Frame()
	assert.Equal(t, []float64{10.0}, values)

	// a new target glides halfway per frame until within threshold
	a.Emit(0.0)
	manual.Frame()
	manual.Frame()
	manual.Frame()
	manual.Frame()
	assert.Equal(t, []float64{10.0, 5.0, 2.5, 1.25, 0.0}, values)

	// loop stopped; further frames emit nothing
	manual.Frame()
	assert.Equal(t, 5, len(values))
}

func TestLerpRetargetsSingleLoop(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig(registry, 0.0, Float)
	b := a.Lerp(manual, 0.5, 1.0)

	emissions := 0
	b.Subscribe(func(float64) {
		emissions += 1
	})

	a.Emit(10.0)
	manual.Frame()
	assert.Equal(t, 1, emissions)

	// retargeting mid-animation re-arms the running loop instead of
	// starting a second one: still one step per frame
	a.Emit(100.0)
	a.Emit(40.0)
	manual.Frame()
	assert.Equal(t, 2, emissions)
	assert.Equal(t, 25.0, b.Value())
}

func TestLerpRequiresAlgebra(t *testing.T) {
	manual := sched.NewManual()
	registry := NewRegistry()
	a := NewSig[float64](registry, 0.0, nil)
	expectPanic(t, ErrUnsupportedOperation, func() {
		a.Lerp(manual, 0.5, 0)
	})
}
