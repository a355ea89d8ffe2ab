package pumptrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRun(t *testing.T, pts []GeoPoint) Run {
	t.Helper()
	var b *RunBuilder
	for i := 1; i < len(pts); i++ {
		s, err := NewStep(pts[i-1], pts[i])
		require.NoError(t, err)
		if b == nil {
			b = newRunBuilder(s)
			continue
		}
		b.add(s)
	}
	require.NotNil(t, b)
	return b.build()
}

func TestBestRunOrdering(t *testing.T) {
	slow := buildRun(t, route(startAt(t0), legs(10, leg{kmh: 15, seconds: 1})...))
	fast := buildRun(t, route(startAt(t0.Add(time.Minute)), legs(10, leg{kmh: 18, seconds: 1})...))
	fastTwin := buildRun(t, route(startAt(t0.Add(2*time.Minute)), legs(10, leg{kmh: 18, seconds: 1})...))
	long := buildRun(t, route(startAt(t0.Add(3*time.Minute)), legs(6, leg{kmh: 13, seconds: 2})...))

	tests := []struct {
		name  string
		runs  RunSet
		index int
	}{
		{"single", RunSet{slow}, 0},
		{"distance breaks duration tie", RunSet{slow, fast}, 1},
		{"earliest wins full tie", RunSet{slow, fast, fastTwin}, 1},
		{"duration beats distance", RunSet{fast, long, slow}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, idx, err := tt.runs.Best()
			require.NoError(t, err)
			assert.Equal(t, tt.index, idx)
			assert.Equal(t, tt.runs[tt.index].First().Time, best.First().Time)
		})
	}
}

func TestBestDoesNotReorderRunSet(t *testing.T) {
	short := buildRun(t, route(startAt(t0), legs(5, leg{kmh: 15, seconds: 1})...))
	long := buildRun(t, route(startAt(t0.Add(time.Minute)), legs(20, leg{kmh: 15, seconds: 1})...))
	rs := RunSet{short, long}

	_, idx, err := rs.Best()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, t0, rs[0].First().Time)
}

func TestStatistics(t *testing.T) {
	a := buildRun(t, route(startAt(t0), legs(10, leg{kmh: 18, seconds: 1})...))
	b := buildRun(t, route(startAt(t0.Add(30*time.Second)), legs(20, leg{kmh: 9, seconds: 1})...))

	st, err := RunSet{a, b}.Statistics()
	require.NoError(t, err)
	require.Len(t, st.Runs, 2)

	assert.Equal(t, 1, st.Runs[0].Index)
	assert.Equal(t, 2, st.Runs[1].Index)
	assert.Equal(t, 11, st.Runs[0].PointCount)
	assert.InDelta(t, 5.0, st.Runs[0].AvgSpeedMps, 1e-6)
	assert.InDelta(t, 18.0, st.Runs[0].AvgSpeedKmh, 1e-6)
	assert.InDelta(t, 2.5, st.Runs[1].AvgSpeedMps, 1e-6)

	assert.Equal(t, 2, st.BestRunIndex)
	assert.Equal(t, st.Runs[1], st.BestRun)
	assert.InDelta(t, 15.0, st.AvgDurationSeconds, 1e-9)
	assert.InDelta(t, 50.0, st.AvgDistanceMeters, 1e-6)
	assert.InDelta(t, 30.0, st.TotalDurationSeconds, 1e-9)
	assert.InDelta(t, 100.0, st.TotalDistanceMeters, 1e-6)
	assert.InDelta(t, 18.0, st.MaxSpeedKmh, 1e-6)

	assert.Equal(t, 2, st.Structure.RunCount)
	assert.Equal(t, 1, st.Structure.RestCount)
}

func TestStatisticsEmpty(t *testing.T) {
	st, err := RunSet{}.Statistics()
	assert.ErrorIs(t, err, ErrNoRunsFound)
	assert.Nil(t, st)
}

func TestInferSessionStructure(t *testing.T) {
	a := buildRun(t, route(startAt(t0), legs(10, leg{kmh: 15, seconds: 1})...))
	b := buildRun(t, route(startAt(t0.Add(25*time.Second)), legs(10, leg{kmh: 15, seconds: 1})...))
	c := buildRun(t, route(startAt(t0.Add(95*time.Second)), legs(5, leg{kmh: 15, seconds: 1})...))

	ss := InferSessionStructure(RunSet{a, b, c})
	assert.Equal(t, sessionStructureSchemaVersion, ss.SchemaVersion)
	require.Len(t, ss.Blocks, 5)
	for i, want := range []string{BlockRun, BlockRest, BlockRun, BlockRest, BlockRun} {
		assert.Equal(t, want, ss.Blocks[i].BlockType, "block %d", i)
	}
	assert.Equal(t, 3, ss.Blocks[4].RunIndex)
	assert.Equal(t, 3, ss.RunCount)
	assert.Equal(t, 2, ss.RestCount)
	assert.InDelta(t, 15.0, ss.Blocks[1].DurationSeconds, 1e-9)
	assert.InDelta(t, 60.0, ss.LongestRestSeconds, 1e-9)
	assert.InDelta(t, 37.5, ss.AvgRestSeconds, 1e-9)
	assert.InDelta(t, 25.0, ss.TotalRunSeconds, 1e-9)
	assert.InDelta(t, 100.0, ss.SessionSeconds, 1e-9)
	assert.InDelta(t, 0.25, ss.DutyCycle, 1e-9)
	assert.Equal(t, "3 runs / 2 rests, avg rest 37s, longest rest 1m, 25% on foil", ss.CanonicalLabel)
}

func TestInferSessionStructureSingleRun(t *testing.T) {
	a := buildRun(t, route(startAt(t0), legs(12, leg{kmh: 15, seconds: 1})...))
	ss := InferSessionStructure(RunSet{a})
	assert.Equal(t, 0, ss.RestCount)
	assert.InDelta(t, 1.0, ss.DutyCycle, 1e-9)
	assert.Equal(t, "1 run of 12s", ss.CanonicalLabel)

	assert.Equal(t, "no runs", InferSessionStructure(nil).CanonicalLabel)
}
