// Package track reads and writes the track files around the run analysis:
// GPX and FIT input, GPX artifacts and the raw-file importer.
package track

import (
	"fmt"
	"os"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// Creator and Description are stamped on every GPX artifact.
const (
	Creator     = "pump tracker"
	Description = "pump foiling ftw"
)

// ReadGPX parses a GPX file.
func ReadGPX(path string) (*gpx.GPX, error) {
	g, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse GPX file: %w", err)
	}
	return g, nil
}

// ParseGPX parses an in-memory GPX document.
func ParseGPX(data []byte) (*gpx.GPX, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse GPX: %w", err)
	}
	return g, nil
}

// FromGPX converts a parsed document into analysis tracks. Every point keeps
// a reference to its position in g.
func FromGPX(g *gpx.GPX) []pumptrack.Track {
	if g == nil {
		return nil
	}
	tracks := make([]pumptrack.Track, 0, len(g.Tracks))
	for ti, t := range g.Tracks {
		trk := pumptrack.Track{Name: t.Name, Segments: make([]pumptrack.Segment, 0, len(t.Segments))}
		for si, s := range t.Segments {
			seg := pumptrack.Segment{Points: make([]pumptrack.GeoPoint, 0, len(s.Points))}
			for pi, p := range s.Points {
				gp := pumptrack.NewGeoPoint(p.Latitude, p.Longitude, utcOrZero(p.Timestamp))
				gp.Ref = pumptrack.PointRef{Track: ti, Segment: si, Index: pi}
				seg.Points = append(seg.Points, gp)
			}
			trk.Segments = append(trk.Segments, seg)
		}
		tracks = append(tracks, trk)
	}
	return tracks
}

// ToGPX builds a GPX document holding tracks. It is the base document for
// inputs that are not GPX themselves.
func ToGPX(tracks []pumptrack.Track) *gpx.GPX {
	g := &gpx.GPX{Version: "1.1", Creator: Creator}
	for _, t := range tracks {
		out := gpx.GPXTrack{Name: t.Name}
		for _, s := range t.Segments {
			seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(s.Points))}
			for _, p := range s.Points {
				seg.Points = append(seg.Points, newGPXPoint(p))
			}
			out.Segments = append(out.Segments, seg)
		}
		g.Tracks = append(g.Tracks, out)
	}
	if first, ok := FirstTime(tracks); ok {
		g.Time = &first
	}
	return g
}

// AllRunsGPX returns a document with one track per run.
func AllRunsGPX(base *gpx.GPX, runs pumptrack.RunSet) (*gpx.GPX, error) {
	if len(runs) == 0 {
		return nil, pumptrack.ErrNoRunsFound
	}
	out := newGPX(base, runs[0].First().Time)
	for _, r := range runs {
		out.Tracks = append(out.Tracks, runTrack(base, r))
	}
	return out, nil
}

// BestRunGPX returns a document holding only run.
func BestRunGPX(base *gpx.GPX, run pumptrack.Run) *gpx.GPX {
	out := newGPX(base, run.First().Time)
	out.Tracks = append(out.Tracks, runTrack(base, run))
	return out
}

// WriteGPX serializes g as indented GPX 1.1.
func WriteGPX(path string, g *gpx.GPX) error {
	data, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("serialize GPX: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write GPX file: %w", err)
	}
	return nil
}

func newGPX(base *gpx.GPX, ts time.Time) *gpx.GPX {
	out := &gpx.GPX{
		Version:     "1.1",
		Creator:     Creator,
		Description: Description,
	}
	if base != nil {
		out.Name = base.Name
		out.Waypoints = append([]gpx.GPXPoint(nil), base.Waypoints...)
		if ts.IsZero() && base.Time != nil {
			ts = *base.Time
		}
	}
	if !ts.IsZero() {
		out.Time = &ts
	}
	return out
}

func runTrack(base *gpx.GPX, r pumptrack.Run) gpx.GPXTrack {
	points := r.Points()
	seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(points))}
	for _, p := range points {
		if src, ok := sourcePoint(base, p.Ref); ok && src.Timestamp.Equal(p.Time) {
			seg.Points = append(seg.Points, src)
			continue
		}
		seg.Points = append(seg.Points, newGPXPoint(p))
	}
	return gpx.GPXTrack{Segments: []gpx.GPXTrackSegment{seg}}
}

func sourcePoint(base *gpx.GPX, ref pumptrack.PointRef) (gpx.GPXPoint, bool) {
	if base == nil || ref.Track < 0 || ref.Track >= len(base.Tracks) {
		return gpx.GPXPoint{}, false
	}
	segs := base.Tracks[ref.Track].Segments
	if ref.Segment < 0 || ref.Segment >= len(segs) {
		return gpx.GPXPoint{}, false
	}
	pts := segs[ref.Segment].Points
	if ref.Index < 0 || ref.Index >= len(pts) {
		return gpx.GPXPoint{}, false
	}
	return pts[ref.Index], true
}

func newGPXPoint(p pumptrack.GeoPoint) gpx.GPXPoint {
	return gpx.GPXPoint{
		Point:     gpx.Point{Latitude: p.Lat, Longitude: p.Lon},
		Timestamp: p.Time,
	}
}

func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

// FirstTime returns the timestamp of the first point of the first track.
func FirstTime(tracks []pumptrack.Track) (time.Time, bool) {
	for _, t := range tracks {
		for _, s := range t.Segments {
			for _, p := range s.Points {
				if !p.Time.IsZero() {
					return p.Time, true
				}
			}
		}
	}
	return time.Time{}, false
}
