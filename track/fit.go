package track

import (
	"fmt"
	"os"

	"github.com/tormoder/fit"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// ReadFIT decodes an activity FIT file into a single track.
func ReadFIT(path string) ([]pumptrack.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return FromFITActivity(activity), nil
}

// FromFITActivity converts the position records of an activity into one
// track with one segment, in file order. Records without a position or a
// valid timestamp are skipped.
func FromFITActivity(a *fit.ActivityFile) []pumptrack.Track {
	records := make([]*fit.RecordMsg, 0, len(a.Records))
	for _, rec := range a.Records {
		if rec == nil || rec.Timestamp.IsZero() || fit.IsBaseTime(rec.Timestamp) {
			continue
		}
		if rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		records = append(records, rec)
	}

	seg := pumptrack.Segment{Points: make([]pumptrack.GeoPoint, 0, len(records))}
	for i, rec := range records {
		p := pumptrack.NewGeoPoint(rec.PositionLat.Degrees(), rec.PositionLong.Degrees(), rec.Timestamp.UTC())
		p.Ref = pumptrack.PointRef{Track: 0, Segment: 0, Index: i}
		seg.Points = append(seg.Points, p)
	}

	name := ""
	if len(a.Sessions) > 0 && a.Sessions[0] != nil {
		name = fmt.Sprint(a.Sessions[0].Sport)
	}
	return []pumptrack.Track{{Name: name, Segments: []pumptrack.Segment{seg}}}
}
