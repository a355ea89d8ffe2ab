package pumptrack

import (
	"fmt"
	"math"
	"time"
)

// PointRef locates a point in the source document so writers can copy the
// source point with its elevation and extensions.
type PointRef struct {
	Track   int `json:"track"`
	Segment int `json:"segment"`
	Index   int `json:"index"`
}

// GeoPoint is one timestamped position of a recorded track.
type GeoPoint struct {
	Lat  float64
	Lon  float64
	Time time.Time
	Ref  PointRef

	speed    float64
	hasSpeed bool
}

// NewGeoPoint returns a point without a speed annotation.
func NewGeoPoint(lat, lon float64, ts time.Time) GeoPoint {
	return GeoPoint{Lat: lat, Lon: lon, Time: ts}
}

// Speed returns the instantaneous speed in km/h of the step ending at p.
func (p GeoPoint) Speed() (float64, bool) {
	return p.speed, p.hasSpeed
}

// WithSpeed returns a copy of p annotated with speed in km/h.
func (p GeoPoint) WithSpeed(kmh float64) GeoPoint {
	p.speed = kmh
	p.hasSpeed = true
	return p
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("{%v/%v (%v)}", p.Lat, p.Lon, p.Time.Format(time.RFC3339))
}

// Segment is one continuous recording inside a track.
type Segment struct {
	Points []GeoPoint
}

// Track is one recorded track made of ordered segments.
type Track struct {
	Name     string
	Segments []Segment
}

// PointCount returns the number of points over all segments.
func (t Track) PointCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Points)
	}
	return n
}

func validateTracks(tracks []Track) error {
	if len(tracks) == 0 {
		return &MalformedTrackError{Track: -1, Segment: -1, Point: -1, Reason: "no tracks"}
	}
	for ti, trk := range tracks {
		if len(trk.Segments) == 0 {
			return &MalformedTrackError{Track: ti, Segment: -1, Point: -1, Reason: "track has no segments"}
		}
		for si, seg := range trk.Segments {
			if len(seg.Points) < 2 {
				return &MalformedTrackError{
					Track:   ti,
					Segment: si,
					Point:   -1,
					Reason:  fmt.Sprintf("segment has %d points, need at least 2", len(seg.Points)),
				}
			}
			for pi, p := range seg.Points {
				if reason := invalidPointReason(p); reason != "" {
					return &MalformedTrackError{Track: ti, Segment: si, Point: pi, Reason: reason}
				}
			}
		}
	}
	return nil
}

func invalidPointReason(p GeoPoint) string {
	switch {
	case !isFinite(p.Lat) || p.Lat < -90 || p.Lat > 90:
		return fmt.Sprintf("invalid latitude %v", p.Lat)
	case !isFinite(p.Lon) || p.Lon < -180 || p.Lon > 180:
		return fmt.Sprintf("invalid longitude %v", p.Lon)
	case p.Time.IsZero():
		return "missing timestamp"
	}
	return ""
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
