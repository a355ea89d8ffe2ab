package pumptrack

import (
	"fmt"
	"time"
)

const sessionStructureSchemaVersion = "session_structure_v1"

// Block types of a SessionStructure.
const (
	BlockRun  = "run"
	BlockRest = "rest"
)

// SessionStructure is the alternating run/rest view of a session.
type SessionStructure struct {
	SchemaVersion      string         `json:"schema_version"`
	Blocks             []SessionBlock `json:"blocks,omitempty"`
	RunCount           int            `json:"run_count"`
	RestCount          int            `json:"rest_count"`
	AvgRestSeconds     float64        `json:"avg_rest_seconds"`
	LongestRestSeconds float64        `json:"longest_rest_seconds"`
	TotalRunSeconds    float64        `json:"total_run_seconds"`
	SessionSeconds     float64        `json:"session_seconds"`
	DutyCycle          float64        `json:"duty_cycle"`
	CanonicalLabel     string         `json:"canonical_label"`
}

// SessionBlock represents one contiguous run or rest.
type SessionBlock struct {
	BlockType       string    `json:"block_type"`
	RunIndex        int       `json:"run_index,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// InferSessionStructure converts a run set into run and rest blocks. Rest
// blocks fill the gaps between consecutive runs.
func InferSessionStructure(rs RunSet) SessionStructure {
	ss := SessionStructure{SchemaVersion: sessionStructureSchemaVersion}
	if len(rs) == 0 {
		ss.CanonicalLabel = "no runs"
		return ss
	}

	restTotal := 0.0
	for i, r := range rs {
		if i > 0 {
			prevEnd := rs[i-1].Last().Time
			rest := r.First().Time.Sub(prevEnd).Seconds()
			ss.Blocks = append(ss.Blocks, SessionBlock{
				BlockType:       BlockRest,
				Start:           prevEnd,
				End:             r.First().Time,
				DurationSeconds: rest,
			})
			ss.RestCount++
			restTotal += rest
			if rest > ss.LongestRestSeconds {
				ss.LongestRestSeconds = rest
			}
		}
		d := r.Duration().Seconds()
		ss.Blocks = append(ss.Blocks, SessionBlock{
			BlockType:       BlockRun,
			RunIndex:        i + 1,
			Start:           r.First().Time,
			End:             r.Last().Time,
			DurationSeconds: d,
		})
		ss.RunCount++
		ss.TotalRunSeconds += d
	}

	if ss.RestCount > 0 {
		ss.AvgRestSeconds = restTotal / float64(ss.RestCount)
	}
	ss.SessionSeconds = rs[len(rs)-1].Last().Time.Sub(rs[0].First().Time).Seconds()
	if ss.SessionSeconds > 0 {
		ss.DutyCycle = ss.TotalRunSeconds / ss.SessionSeconds
	}
	ss.CanonicalLabel = buildCanonicalStructureLabel(ss)
	return ss
}

func buildCanonicalStructureLabel(ss SessionStructure) string {
	if ss.RestCount == 0 {
		return fmt.Sprintf("1 run of %s", FormatDuration(ss.TotalRunSeconds))
	}
	return fmt.Sprintf(
		"%d runs / %d rests, avg rest %s, longest rest %s, %.0f%% on foil",
		ss.RunCount,
		ss.RestCount,
		FormatDuration(ss.AvgRestSeconds),
		FormatDuration(ss.LongestRestSeconds),
		ss.DutyCycle*100,
	)
}
