package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// writeRunGPX writes a single 12 second run at about 16 km/h.
func writeRunGPX(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="watch" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
`)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		fmt.Fprintf(&b, "    <trkpt lat=\"%.6f\" lon=\"8.5\"><time>%s</time></trkpt>\n",
			47.3+float64(i)*0.00004, ts.Add(time.Duration(i)*time.Second).Format(time.RFC3339))
	}
	b.WriteString("  </trkseg></trk>\n</gpx>\n")
	path := filepath.Join(t.TempDir(), "session.gpx")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{"a.gpx", "b.gpx"}},
		{"unknown flag", []string{"--bogus", "a.gpx"}},
		{"bad flag value", []string{"--min-distance", "far", "a.gpx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 2, run(tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "Usage")
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "--json")
}

func TestRunReportAndJSON(t *testing.T) {
	path := writeRunGPX(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{path}, &stdout, &stderr), stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "01 10:00:00-10:00:12 : 12s"), stdout.String())

	stdout.Reset()
	require.Equal(t, 0, run([]string{"--json", path}, &stdout, &stderr), stderr.String())
	var st pumptrack.Statistics
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &st))
	assert.Equal(t, 1, st.BestRunIndex)
	assert.Len(t, st.Runs, 1)
}

func TestRunAnalysisFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.gpx")
	assert.Equal(t, 1, run([]string{missing}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "pumpnotes: "+missing)
}
