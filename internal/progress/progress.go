// Package progress reports the progress of long-running sync steps.
package progress

import (
	"math"
	"sync"
)

// Monitor receives progress updates. Fraction is always within [0,1].
type Monitor interface {
	Update(fraction float64, message string)
}

// MonitorFunc adapts a function to Monitor
type MonitorFunc func(fraction float64, message string)

// Update calls f
func (f MonitorFunc) Update(fraction float64, message string) {
	f(fraction, message)
}

// Wrapper maps its own [0,1] range onto a slice of the parent range
// and never reports a fraction lower than one already reported.
type Wrapper struct {
	monitor Monitor
	parent  *Wrapper
	message string
	mu      sync.Mutex
	start   float64
	span    float64
	last    float64
}

// New wraps a monitor. A nil monitor discards updates.
func New(monitor Monitor) *Wrapper {
	return &Wrapper{monitor: monitor, span: 1}
}

// Nop returns a wrapper that discards updates
func Nop() *Wrapper {
	return New(nil)
}

// Set reports the fraction of this wrapper's range that is done
func (w *Wrapper) Set(fraction float64, message string) {
	if w == nil {
		return
	}
	fraction = clamp(fraction)

	w.mu.Lock()
	if fraction < w.last {
		fraction = w.last
	}
	w.last = fraction
	if message == "" {
		message = w.message
	}
	w.mu.Unlock()

	if w.parent != nil {
		w.parent.Set(w.start+fraction*w.span, message)
		return
	}
	if w.monitor != nil {
		w.monitor.Update(fraction, message)
	}
}

// Sub returns a wrapper covering [from,to] of this wrapper's range.
// Its own updates are labelled with message unless they carry one.
func (w *Wrapper) Sub(from, to float64, message string) *Wrapper {
	from, to = clamp(from), clamp(to)
	if to < from {
		to = from
	}
	sub := &Wrapper{parent: w, start: from, span: to - from, message: message}
	if w != nil {
		w.Set(from, message)
	}
	return sub
}

// Fraction returns the last reported fraction of this wrapper's range
func (w *Wrapper) Fraction() float64 {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func clamp(f float64) float64 {
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	}
	return f
}
