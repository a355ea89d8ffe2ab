package pumptrack

import (
	"time"
)

// RunBuilder accumulates an open run. It is owned by the segmenter and turned
// into an immutable Run by build.
type RunBuilder struct {
	points    []GeoPoint
	lastSpeed float64
	maxSpeed  float64
	distance  float64
}

func newRunBuilder(first Step) *RunBuilder {
	b := &RunBuilder{points: []GeoPoint{first.From}}
	b.add(first)
	return b
}

func (b *RunBuilder) add(s Step) {
	b.points = append(b.points, s.To)
	b.lastSpeed = s.Speed
	if s.Speed > b.maxSpeed {
		b.maxSpeed = s.Speed
	}
	b.distance += s.Distance
}

func (b *RunBuilder) build() Run {
	points := make([]GeoPoint, len(b.points))
	copy(points, b.points)
	return Run{
		points:    points,
		lastSpeed: b.lastSpeed,
		maxSpeed:  b.maxSpeed,
		distance:  b.distance,
	}
}

// Run is a finalized interval of sustained foiling speed.
type Run struct {
	points    []GeoPoint
	lastSpeed float64
	maxSpeed  float64
	distance  float64
}

// Points returns a copy of the run's points in time order.
func (r Run) Points() []GeoPoint {
	out := make([]GeoPoint, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of points.
func (r Run) Len() int { return len(r.points) }

// First returns the first point of the run.
func (r Run) First() GeoPoint {
	if len(r.points) == 0 {
		return GeoPoint{}
	}
	return r.points[0]
}

// Last returns the last point of the run.
func (r Run) Last() GeoPoint {
	if len(r.points) == 0 {
		return GeoPoint{}
	}
	return r.points[len(r.points)-1]
}

// MaxSpeed is the highest step speed in km/h.
func (r Run) MaxSpeed() float64 { return r.maxSpeed }

// LastSpeed is the speed of the last step in km/h.
func (r Run) LastSpeed() float64 { return r.lastSpeed }

// Distance is the cumulative step distance in meters.
func (r Run) Distance() float64 { return r.distance }

// Duration is the time between the first and the last point.
func (r Run) Duration() time.Duration {
	return r.Last().Time.Sub(r.First().Time)
}

// AvgSpeedMPS is distance over duration in m/s.
func (r Run) AvgSpeedMPS() float64 {
	d := r.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return r.distance / d
}

// AvgSpeedKMH is distance over duration in km/h.
func (r Run) AvgSpeedKMH() float64 {
	return r.AvgSpeedMPS() * secondsPerHour / metersPerKm
}

// merge returns a new run made of r followed by next.
func (r Run) merge(next Run) Run {
	points := make([]GeoPoint, 0, len(r.points)+len(next.points))
	points = append(points, r.points...)
	points = append(points, next.points...)
	return Run{
		points:    points,
		lastSpeed: next.lastSpeed,
		maxSpeed:  max(r.maxSpeed, next.maxSpeed),
		distance:  PathLength(points),
	}
}

// RunSet holds finalized runs in chronological order.
type RunSet []Run
