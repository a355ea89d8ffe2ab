package pumptrack

import (
	"sort"
	"time"
)

// RunSummary is the report view of one finalized run.
type RunSummary struct {
	Index           int       `json:"index"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds float64   `json:"duration_seconds"`
	DistanceMeters  float64   `json:"distance_meters"`
	AvgSpeedMps     float64   `json:"avg_speed_mps"`
	AvgSpeedKmh     float64   `json:"avg_speed_kmh"`
	MaxSpeedKmh     float64   `json:"max_speed_kmh"`
	PointCount      int       `json:"point_count"`
}

// Statistics is the aggregate over a non-empty RunSet.
type Statistics struct {
	Runs                 []RunSummary     `json:"runs"`
	BestRun              RunSummary       `json:"best_run"`
	BestRunIndex         int              `json:"best_run_index"`
	AvgDurationSeconds   float64          `json:"avg_duration_seconds"`
	AvgDistanceMeters    float64          `json:"avg_distance_meters"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
	TotalDistanceMeters  float64          `json:"total_distance_meters"`
	MaxSpeedKmh          float64          `json:"max_speed_kmh"`
	Structure            SessionStructure `json:"structure"`
}

// Summarize builds the summary of r. index is 1-based.
func Summarize(index int, r Run) RunSummary {
	return RunSummary{
		Index:           index,
		Start:           r.First().Time,
		End:             r.Last().Time,
		DurationSeconds: r.Duration().Seconds(),
		DistanceMeters:  r.Distance(),
		AvgSpeedMps:     r.AvgSpeedMPS(),
		AvgSpeedKmh:     r.AvgSpeedKMH(),
		MaxSpeedKmh:     r.MaxSpeed(),
		PointCount:      r.Len(),
	}
}

// Best returns the longest run, breaking ties by distance and then by
// position. The returned index is 0-based.
func (rs RunSet) Best() (Run, int, error) {
	if len(rs) == 0 {
		return Run{}, -1, ErrNoRunsFound
	}
	order := make([]int, len(rs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rs[order[a]], rs[order[b]]
		if ra.Duration() != rb.Duration() {
			return ra.Duration() > rb.Duration()
		}
		return ra.Distance() > rb.Distance()
	})
	return rs[order[0]], order[0], nil
}

// Statistics aggregates the run set. It never modifies rs.
func (rs RunSet) Statistics() (*Statistics, error) {
	best, bestIdx, err := rs.Best()
	if err != nil {
		return nil, err
	}

	st := &Statistics{
		Runs:         make([]RunSummary, 0, len(rs)),
		BestRun:      Summarize(bestIdx+1, best),
		BestRunIndex: bestIdx + 1,
		Structure:    InferSessionStructure(rs),
	}
	for i, r := range rs {
		s := Summarize(i+1, r)
		st.Runs = append(st.Runs, s)
		st.TotalDurationSeconds += s.DurationSeconds
		st.TotalDistanceMeters += s.DistanceMeters
		st.MaxSpeedKmh = max(st.MaxSpeedKmh, s.MaxSpeedKmh)
	}
	n := float64(len(rs))
	st.AvgDurationSeconds = st.TotalDurationSeconds / n
	st.AvgDistanceMeters = st.TotalDistanceMeters / n
	return st, nil
}
