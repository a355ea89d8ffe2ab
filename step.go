package pumptrack

import (
	"github.com/tidwall/geodesic"
)

const (
	secondsPerHour = 3600.0
	metersPerKm    = 1000.0
)

// Step is the transition between two time-consecutive points.
type Step struct {
	From     GeoPoint
	To       GeoPoint // annotated with Speed
	Distance float64  // meters
	Elapsed  float64  // seconds
	Speed    float64  // km/h
}

// NewStep computes distance, elapsed time and speed between two points.
// It fails with *NonMonotonicTimeError when to is not strictly after from.
func NewStep(from, to GeoPoint) (Step, error) {
	elapsed := to.Time.Sub(from.Time).Seconds()
	if elapsed <= 0 {
		return Step{}, &NonMonotonicTimeError{Ref: to.Ref, Previous: from.Time, Current: to.Time}
	}
	dist := Distance(from, to)
	speed := speedKMH(dist, elapsed)
	return Step{
		From:     from,
		To:       to.WithSpeed(speed),
		Distance: dist,
		Elapsed:  elapsed,
		Speed:    speed,
	}, nil
}

// Distance returns the WGS-84 geodesic distance between a and b in meters.
// Degenerate results count as zero.
func Distance(a, b GeoPoint) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &s12, nil, nil)
	if !isFinite(s12) || s12 < 0 {
		return 0
	}
	return s12
}

// PathLength sums the step distances along points.
func PathLength(points []GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

func speedKMH(distance, elapsed float64) float64 {
	return distance * secondsPerHour / (elapsed * metersPerKm)
}
