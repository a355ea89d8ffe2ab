package render

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// sessionRuns analyzes two runs of 15 points heading north-east, the
// second one faster.
func sessionRuns(t *testing.T) (pumptrack.RunSet, *pumptrack.Statistics) {
	t.Helper()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var pts []pumptrack.GeoPoint
	lat, lon := 47.3, 8.5
	ts := start
	for _, step := range []float64{0.00004, 0.00007} {
		for i := 0; i < 15; i++ {
			pts = append(pts, pumptrack.NewGeoPoint(lat, lon, ts))
			lat += step
			lon += step / 2
			ts = ts.Add(time.Second)
		}
		ts = ts.Add(time.Minute)
	}
	a, err := pumptrack.Analyze([]pumptrack.Track{{Segments: []pumptrack.Segment{{Points: pts}}}}, pumptrack.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, a.Runs, 2)
	st, err := a.Runs.Statistics()
	require.NoError(t, err)
	return a.Runs, st
}

func TestBucketColor(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{0, "#808080"},
		{9.99, "#808080"},
		{10, "#fffafa"},
		{10.9, "#fffafa"},
		{11, "#ffebeb"},
		{18.5, "#ff8080"},
		{26.99, "#ff0f0f"},
		{27, "#ff0a0a"},
		{45, "#ff0a0a"},
		{math.Inf(1), "#ff0a0a"},
		{math.NaN(), "#808080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketHex(tt.speed), "speed %v", tt.speed)
	}
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x0a, B: 0x0a, A: 0xff}, BucketColor(30))
}

func TestWriteMap(t *testing.T) {
	runs, _ := sessionRuns(t)

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, runs[0]))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestSaveMap(t *testing.T) {
	runs, _ := sessionRuns(t)
	path := filepath.Join(t.TempDir(), "best.png")
	require.NoError(t, SaveMap(path, runs[1]))
	assert.FileExists(t, path)

	assert.Error(t, WriteMap(&bytes.Buffer{}, pumptrack.Run{}))
	assert.Error(t, SaveMap(filepath.Join(t.TempDir(), "missing", "x.png"), runs[0]))
}

func TestWriteProfile(t *testing.T) {
	runs, st := sessionRuns(t)

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, "2024-05-01 session", st, runs))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "not an HTML page")
	assert.Contains(t, html, "2024-05-01 session")
	assert.Contains(t, html, "duration (s)")
	assert.Contains(t, html, "max speed (km/h)")
	assert.Contains(t, html, "best run 02")

	err := WriteProfile(&bytes.Buffer{}, "x", nil, runs)
	assert.ErrorIs(t, err, pumptrack.ErrNoRunsFound)
}
