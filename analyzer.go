package pumptrack

import (
	"fmt"
)

// Thresholds controls run detection. Speeds are km/h, gaps and durations
// seconds, distances meters.
type Thresholds struct {
	SpeedStart  float64 `json:"speed_start_threshold"`
	MaxStepGap  float64 `json:"max_step_gap"`
	MinDistance float64 `json:"min_distance"`
	MinMaxSpeed float64 `json:"min_max_speed"`
	MinDuration float64 `json:"min_duration"`
	MergeGap    float64 `json:"merge_gap"`
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpeedStart:  7,
		MaxStepGap:  10,
		MinDistance: 10,
		MinMaxSpeed: 12,
		MinDuration: 3,
		MergeGap:    10,
	}
}

// Validate rejects negative or non-finite thresholds.
func (t Thresholds) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"speed_start_threshold", t.SpeedStart},
		{"max_step_gap", t.MaxStepGap},
		{"min_distance", t.MinDistance},
		{"min_max_speed", t.MinMaxSpeed},
		{"min_duration", t.MinDuration},
		{"merge_gap", t.MergeGap},
	}
	for _, f := range fields {
		if !isFinite(f.value) || f.value < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.value)
		}
	}
	return nil
}

// Accepts reports whether a candidate run qualifies as a real run.
func (t Thresholds) Accepts(r Run) bool {
	return r.Distance() > t.MinDistance &&
		r.MaxSpeed() > t.MinMaxSpeed &&
		r.Duration().Seconds() > t.MinDuration
}

// continuous reports whether a step counts as in-run motion.
func (t Thresholds) continuous(s Step) bool {
	return s.Speed > t.SpeedStart && s.Elapsed < t.MaxStepGap
}

// mergeable reports whether next starts close enough after prev to join it.
// A run starting before prev ended never merges.
func (t Thresholds) mergeable(prev, next Run) bool {
	gap := next.First().Time.Sub(prev.Last().Time).Seconds()
	return gap >= 0 && gap < t.MergeGap
}

// Analysis is the outcome of segmenting one recording.
type Analysis struct {
	Runs       RunSet
	Warnings   []error
	PointCount int
}

// Analyze validates tracks and extracts the runs they contain. Every segment
// is walked independently; runs may still merge across segment boundaries.
func Analyze(tracks []Track, th Thresholds) (*Analysis, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	if err := validateTracks(tracks); err != nil {
		return nil, err
	}

	s := &segmenter{th: th}
	points := 0
	for _, trk := range tracks {
		for _, seg := range trk.Segments {
			s.segment(seg.Points)
			points += len(seg.Points)
		}
	}

	return &Analysis{
		Runs:       s.runs,
		Warnings:   s.warnings,
		PointCount: points,
	}, nil
}

// segmenter is Idle while open is nil and Active otherwise.
type segmenter struct {
	th       Thresholds
	open     *RunBuilder
	runs     RunSet
	warnings []error
}

func (s *segmenter) segment(points []GeoPoint) {
	if len(points) == 0 {
		return
	}
	prev := points[0]
	for _, cur := range points[1:] {
		step, err := NewStep(prev, cur)
		if err != nil {
			s.warnings = append(s.warnings, err)
			s.flush()
			prev = cur
			continue
		}

		switch {
		case !s.th.continuous(step):
			s.flush()
		case s.open == nil:
			s.open = newRunBuilder(step)
		default:
			s.open.add(step)
		}
		prev = step.To
	}
	s.flush()
}

// flush closes the open run, dropping it when it does not qualify and
// merging it into the previous run when the gap allows.
func (s *segmenter) flush() {
	if s.open == nil {
		return
	}
	candidate := s.open.build()
	s.open = nil

	if !s.th.Accepts(candidate) {
		return
	}
	n := len(s.runs)
	if n > 0 && s.th.mergeable(s.runs[n-1], candidate) {
		s.runs[n-1] = s.runs[n-1].merge(candidate)
		return
	}
	if n > 0 && !candidate.First().Time.After(s.runs[n-1].Last().Time) {
		// Runs stay strictly chronological; an overlapping run is dropped.
		s.warnings = append(s.warnings, &NonMonotonicTimeError{
			Ref:      candidate.First().Ref,
			Previous: s.runs[n-1].Last().Time,
			Current:  candidate.First().Time,
		})
		return
	}
	s.runs = append(s.runs, candidate)
}
