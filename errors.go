package pumptrack

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoRunsFound is returned when a track holds no run passing the thresholds.
var ErrNoRunsFound = errors.New("no runs found")

// MalformedTrackError reports structurally invalid input. Indices are -1 when
// they do not apply.
type MalformedTrackError struct {
	Track   int
	Segment int
	Point   int
	Reason  string
}

func (e *MalformedTrackError) Error() string {
	switch {
	case e.Track < 0:
		return "malformed track: " + e.Reason
	case e.Segment < 0:
		return fmt.Sprintf("malformed track %d: %s", e.Track, e.Reason)
	case e.Point < 0:
		return fmt.Sprintf("malformed track %d segment %d: %s", e.Track, e.Segment, e.Reason)
	}
	return fmt.Sprintf("malformed track %d segment %d point %d: %s", e.Track, e.Segment, e.Point, e.Reason)
}

// NonMonotonicTimeError reports a step whose elapsed time is not positive, or
// a run starting before the previous run ended.
type NonMonotonicTimeError struct {
	Ref      PointRef
	Previous time.Time
	Current  time.Time
}

func (e *NonMonotonicTimeError) Error() string {
	return fmt.Sprintf(
		"non-monotonic time at track %d segment %d point %d: %s after %s",
		e.Ref.Track, e.Ref.Segment, e.Ref.Index,
		e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339),
	)
}
