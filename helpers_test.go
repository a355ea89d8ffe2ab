package pumptrack

import (
	"time"

	"github.com/tidwall/geodesic"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// leg moves east at a constant speed for a number of seconds.
type leg struct {
	kmh     float64
	seconds float64
}

func legs(n int, l leg) []leg {
	out := make([]leg, n)
	for i := range out {
		out[i] = l
	}
	return out
}

func route(start GeoPoint, ls ...leg) []GeoPoint {
	pts := []GeoPoint{start}
	for _, l := range ls {
		last := pts[len(pts)-1]
		var lat, lon float64
		geodesic.WGS84.Direct(last.Lat, last.Lon, 90, l.kmh/3.6*l.seconds, &lat, &lon, nil)
		ts := last.Time.Add(time.Duration(l.seconds * float64(time.Second)))
		pts = append(pts, NewGeoPoint(lat, lon, ts))
	}
	return pts
}

func startAt(ts time.Time) GeoPoint {
	return NewGeoPoint(47.3769, 8.5417, ts)
}

// session builds one track whose segments are the given point lists.
func session(segments ...[]GeoPoint) []Track {
	trk := Track{Name: "test"}
	for si, pts := range segments {
		seg := Segment{Points: make([]GeoPoint, len(pts))}
		for pi, p := range pts {
			p.Ref = PointRef{Track: 0, Segment: si, Index: pi}
			seg.Points[pi] = p
		}
		trk.Segments = append(trk.Segments, seg)
	}
	return []Track{trk}
}

func concat(parts ...[]leg) []leg {
	var out []leg
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
