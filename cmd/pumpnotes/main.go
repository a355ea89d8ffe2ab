package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	pumptrack "github.com/lucasjlepore/pump-tracker"
	"github.com/lucasjlepore/pump-tracker/config"
	"github.com/lucasjlepore/pump-tracker/monitoring"
	"github.com/lucasjlepore/pump-tracker/track"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 2 for usage errors, 1 when the
// analysis fails.
func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("pumpnotes", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	jsonOut := fs.Bool("json", false, "Emit the session statistics as JSON")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pumpnotes [flags] <track.gpx|track.fit>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(fs, config.SearchPaths())
	if err != nil {
		fmt.Fprintf(stderr, "pumpnotes: %v\n", err)
		return 2
	}

	path := fs.Arg(0)
	stats, err := analyze(path, cfg.Thresholds())
	if err != nil {
		fmt.Fprintf(stderr, "pumpnotes: %s: %v\n", path, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			fmt.Fprintf(stderr, "json encode failed: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintln(stdout, pumptrack.BuildReport(stats))
	return 0
}

func analyze(path string, th pumptrack.Thresholds) (*pumptrack.Statistics, error) {
	src, err := track.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}
	analysis, err := pumptrack.Analyze(src.Tracks, th)
	if err != nil {
		return nil, fmt.Errorf("analyze track: %w", err)
	}
	monitoring.LogWarnings(path, analysis.Warnings, 5)
	return analysis.Runs.Statistics()
}
