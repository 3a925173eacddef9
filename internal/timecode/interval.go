package timecode

import "math"

// Interval is a span of time in seconds. End is always expected to be at or
// after Start; Normalize repairs inputs that violate that.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Midpoint returns the temporal center of the interval.
func (iv Interval) Midpoint() float64 {
	return iv.Start + (iv.End-iv.Start)/2
}

// IsZero reports whether the interval has no extent.
func (iv Interval) IsZero() bool {
	return iv.End <= iv.Start
}

// Inverted reports whether the interval ends before it starts.
func (iv Interval) Inverted() bool {
	return iv.End < iv.Start
}

// Normalize clips an inverted interval to a zero-length marker at Start.
// It returns the repaired interval and whether a repair was needed.
func (iv Interval) Normalize() (Interval, bool) {
	if iv.Inverted() {
		return Interval{Start: iv.Start, End: iv.Start}, true
	}
	return iv, false
}

// Overlap returns the length in seconds shared by both intervals, or 0 when
// they are disjoint.
func (iv Interval) Overlap(other Interval) float64 {
	start := math.Max(iv.Start, other.Start)
	end := math.Min(iv.End, other.End)
	if end <= start {
		return 0
	}
	return end - start
}

// Distance returns the gap in seconds between two disjoint intervals, or 0
// when they touch or overlap.
func (iv Interval) Distance(other Interval) float64 {
	if iv.Overlap(other) > 0 {
		return 0
	}
	if other.Start >= iv.End {
		return other.Start - iv.End
	}
	if iv.Start >= other.End {
		return iv.Start - other.End
	}
	return 0
}

// Contains reports whether the instant t falls within the interval,
// inclusive of both bounds.
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t <= iv.End
}

// Union returns the smallest interval covering both inputs.
func (iv Interval) Union(other Interval) Interval {
	return Interval{
		Start: math.Min(iv.Start, other.Start),
		End:   math.Max(iv.End, other.End),
	}
}
