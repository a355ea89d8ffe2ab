package track

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// buildTestFIT encodes an activity with n position records at about
// 16 km/h, plus one record without a position. A swapAt >= 0 writes
// records swapAt and swapAt+1 in reverse order.
func buildTestFIT(t *testing.T, n, swapAt int) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}

	for j := 0; j < n; j++ {
		i := j
		if swapAt >= 0 && j == swapAt {
			i = j + 1
		} else if swapAt >= 0 && j == swapAt+1 {
			i = j - 1
		}
		record := fit.NewRecordMsg()
		record.Timestamp = sessionStart.Add(time.Duration(i) * time.Second)
		record.PositionLat = fit.NewLatitudeDegrees(47.3 + float64(i)*0.00004)
		record.PositionLong = fit.NewLongitudeDegrees(8.5)
		activity.Records = append(activity.Records, record)
	}
	noFix := fit.NewRecordMsg()
	noFix.Timestamp = sessionStart.Add(time.Duration(n) * time.Second)
	activity.Records = append(activity.Records, noFix)

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}

func TestReadFIT(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "session.fit", buildTestFIT(t, 12, -1))

	tracks, err := ReadFIT(path)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Len(t, tracks[0].Segments, 1)

	pts := tracks[0].Segments[0].Points
	require.Len(t, pts, 12)
	for i, p := range pts {
		assert.Equal(t, sessionStart.Add(time.Duration(i)*time.Second), p.Time, "point %d", i)
		assert.Equal(t, i, p.Ref.Index)
	}
	// FIT stores positions as semicircles.
	assert.InDelta(t, 47.3, pts[0].Lat, 1e-6)
	assert.InDelta(t, 8.5, pts[0].Lon, 1e-6)

	a, err := pumptrack.Analyze(tracks, pumptrack.DefaultThresholds())
	require.NoError(t, err)
	assert.Len(t, a.Runs, 1)
}

func TestReadFITErrors(t *testing.T) {
	_, err := ReadFIT(filepath.Join(t.TempDir(), "missing.fit"))
	assert.Error(t, err)

	path := writeFixture(t, t.TempDir(), "broken.fit", []byte("not a fit file"))
	_, err = ReadFIT(path)
	assert.Error(t, err)
}

func TestLoadFITSynthesizesGPX(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "session.FIT", buildTestFIT(t, 12, -1))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatFIT, src.Format)
	require.NotNil(t, src.GPX)
	require.Len(t, src.GPX.Tracks, 1)
	assert.Len(t, src.GPX.Tracks[0].Segments[0].Points, 12)

	a, err := pumptrack.Analyze(src.Tracks, pumptrack.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, a.Runs, 1)

	best := BestRunGPX(src.GPX, a.Runs[0])
	assert.Len(t, best.Tracks[0].Segments[0].Points, a.Runs[0].Len())
}

func TestReadFITKeepsRecordOrder(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "session.fit", buildTestFIT(t, 12, 5))

	tracks, err := ReadFIT(path)
	require.NoError(t, err)
	pts := tracks[0].Segments[0].Points
	require.Len(t, pts, 12)
	assert.Equal(t, sessionStart.Add(6*time.Second), pts[5].Time)
	assert.Equal(t, sessionStart.Add(5*time.Second), pts[6].Time)

	a, err := pumptrack.Analyze(tracks, pumptrack.DefaultThresholds())
	require.NoError(t, err)
	require.NotEmpty(t, a.Warnings)
	var nm *pumptrack.NonMonotonicTimeError
	require.ErrorAs(t, a.Warnings[0], &nm)
	assert.Equal(t, 6, nm.Ref.Index)
	require.Len(t, a.Runs, 1)
	assert.Equal(t, 6, a.Runs[0].Len())
}
