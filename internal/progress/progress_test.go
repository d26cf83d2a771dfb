package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	fractions []float64
	messages  []string
}

func (r *recorder) Update(fraction float64, message string) {
	r.fractions = append(r.fractions, fraction)
	r.messages = append(r.messages, message)
}

func TestWrapper_ClampAndMonotonic(t *testing.T) {
	rec := &recorder{}
	w := New(rec)

	w.Set(0.5, "half")
	w.Set(0.2, "back")
	w.Set(1.7, "over")
	w.Set(-1, "under")

	assert.Equal(t, []float64{0.5, 0.5, 1, 1}, rec.fractions)
	assert.Equal(t, 1.0, w.Fraction())
}

func TestWrapper_Sub(t *testing.T) {
	rec := &recorder{}
	w := New(rec)

	sub := w.Sub(0.2, 0.6, "Downloading rules")
	sub.Set(0.5, "")
	sub.Set(1, "done")

	assert.InDeltaSlice(t, []float64{0.2, 0.4, 0.6}, rec.fractions, 1e-9)
	assert.Equal(t, []string{"Downloading rules", "Downloading rules", "done"}, rec.messages)
}

func TestWrapper_NestedSub(t *testing.T) {
	rec := &recorder{}
	w := New(rec)

	inner := w.Sub(0.5, 1, "outer").Sub(0, 0.5, "inner")
	inner.Set(1, "")

	assert.InDelta(t, 0.75, rec.fractions[len(rec.fractions)-1], 1e-9)
}

func TestWrapper_NilSafe(t *testing.T) {
	var w *Wrapper
	w.Set(0.5, "x")
	assert.Equal(t, 0.0, w.Fraction())

	Nop().Sub(0, 1, "x").Set(1, "y")
}

func TestMonitorFunc(t *testing.T) {
	var got float64
	w := New(MonitorFunc(func(f float64, _ string) { got = f }))
	w.Set(0.3, "")
	assert.Equal(t, 0.3, got)
}
