package viewer

import (
	"time"

	"github.com/philipparndt/gopin/pkg/geometry"
)

// Double click thresholds
const (
	DoubleClickInterval  = 300 * time.Millisecond
	DoubleClickTolerance = 4.0
)

// DoubleClickDetector pairs consecutive presses into double clicks
type DoubleClickDetector struct {
	Interval  time.Duration
	Tolerance float64

	armed   bool
	lastAt  time.Time
	lastPos geometry.Vector2
}

// NewDoubleClickDetector creates a detector with the default thresholds
func NewDoubleClickDetector() *DoubleClickDetector {
	return &DoubleClickDetector{Interval: DoubleClickInterval, Tolerance: DoubleClickTolerance}
}

// Press records a button press and reports whether it completes a double
// click. A completed double click does not arm the next one.
func (d *DoubleClickDetector) Press(pos geometry.Vector2, at time.Time) bool {
	if d.armed && at.Sub(d.lastAt) <= d.Interval &&
		pos.Sub(d.lastPos).LengthSquared() <= d.Tolerance*d.Tolerance {
		d.armed = false
		return true
	}
	d.armed = true
	d.lastAt = at
	d.lastPos = pos
	return false
}

// Cancel forgets a pending first press
func (d *DoubleClickDetector) Cancel() {
	d.armed = false
}
