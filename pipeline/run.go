package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	pumptrack "github.com/lucasjlepore/pump-tracker"
	"github.com/lucasjlepore/pump-tracker/config"
	"github.com/lucasjlepore/pump-tracker/monitoring"
	"github.com/lucasjlepore/pump-tracker/render"
	"github.com/lucasjlepore/pump-tracker/track"
)

// maxLoggedWarnings bounds the per-file warning lines.
const maxLoggedWarnings = 5

// OptionsFromConfig builds the options for analyzing path under cfg.
func OptionsFromConfig(path string, cfg config.Config) Options {
	return Options{
		InputPath:     path,
		OutDir:        cfg.OutDir,
		Thresholds:    cfg.Thresholds(),
		WriteAllGPX:   cfg.WriteAllGPXFile,
		WriteBestGPX:  cfg.WriteBestGPXFile,
		WritePNG:      cfg.WritePNGFiles,
		WriteProfile:  cfg.WriteProfile,
		WriteSummary:  cfg.WriteSummary,
		SamplesFormat: cfg.SamplesFormat,
	}
}

// Run loads one track file, extracts its runs and writes the enabled
// artifacts. Load and analysis errors are wrapped, so callers can match
// pumptrack.ErrNoRunsFound and *pumptrack.MalformedTrackError.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.SamplesFormat))
	if format == "" {
		format = config.SamplesNone
	}
	if format != config.SamplesParquet && format != config.SamplesCSV && format != config.SamplesNone {
		return nil, fmt.Errorf("unsupported samples format %q (expected parquet|csv|none)", format)
	}

	src, err := track.Load(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}
	analysis, err := pumptrack.Analyze(src.Tracks, opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("analyze track: %w", err)
	}
	monitoring.LogWarnings(opts.InputPath, analysis.Warnings, maxLoggedWarnings)

	stats, err := analysis.Runs.Statistics()
	if err != nil {
		return nil, fmt.Errorf("analyze track: %w", err)
	}
	best := analysis.Runs[stats.BestRunIndex-1]

	res := &Result{
		AnalysisID: uuid.NewString(),
		Source:     opts.InputPath,
		Format:     string(src.Format),
		Analysis:   analysis,
		Statistics: stats,
		Report:     pumptrack.BuildReport(stats),
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	out := func(suffix, ext string) string {
		p := track.OutputPath(opts.InputPath, suffix, ext)
		if opts.OutDir != "" {
			p = filepath.Join(opts.OutDir, filepath.Base(p))
		}
		return p
	}

	if opts.WriteAllGPX {
		all, err := track.AllRunsGPX(src.GPX, analysis.Runs)
		if err != nil {
			return nil, fmt.Errorf("build all runs GPX: %w", err)
		}
		res.Artifacts.AllGPX = out("all", "gpx")
		if err := track.WriteGPX(res.Artifacts.AllGPX, all); err != nil {
			return nil, err
		}
	}
	if opts.WriteBestGPX {
		res.Artifacts.BestGPX = out("best", "gpx")
		if err := track.WriteGPX(res.Artifacts.BestGPX, track.BestRunGPX(src.GPX, best)); err != nil {
			return nil, err
		}
	}

	if opts.WritePNG {
		res.Artifacts.BestPNG = out("best", "png")
		if err := render.SaveMap(res.Artifacts.BestPNG, best); err != nil {
			return nil, fmt.Errorf("write best run map: %w", err)
		}
		for i, r := range analysis.Runs {
			path := out(fmt.Sprintf("run-%02d", i+1), "png")
			if err := render.SaveMap(path, r); err != nil {
				return nil, fmt.Errorf("write run %d map: %w", i+1, err)
			}
			res.Artifacts.RunPNGs = append(res.Artifacts.RunPNGs, path)
		}
	}

	if opts.WriteProfile {
		res.Artifacts.Profile = out("profile", "html")
		title := strings.TrimSuffix(filepath.Base(opts.InputPath), filepath.Ext(opts.InputPath))
		if err := render.SaveProfile(res.Artifacts.Profile, title, stats, analysis.Runs); err != nil {
			return nil, fmt.Errorf("write profile: %w", err)
		}
	}

	if format != config.SamplesNone {
		samples := buildRunSamples(analysis.Runs)
		res.Artifacts.Samples = out("samples", format)
		switch format {
		case config.SamplesCSV:
			if err := writeSamplesCSV(res.Artifacts.Samples, samples); err != nil {
				return nil, fmt.Errorf("write samples csv: %w", err)
			}
		case config.SamplesParquet:
			if err := writeSamplesParquet(res.Artifacts.Samples, samples); err != nil {
				return nil, fmt.Errorf("write samples parquet: %w", err)
			}
		}
	}

	if opts.WriteSummary {
		res.Artifacts.Summary = out("summary", "json")
		summary := SummaryFile{
			SchemaVersion: summarySchemaVersion,
			AnalysisID:    res.AnalysisID,
			GeneratedAt:   time.Now().UTC(),
			Source:        opts.InputPath,
			Format:        res.Format,
			PointCount:    analysis.PointCount,
			Thresholds:    opts.Thresholds,
			Statistics:    stats,
			Warnings:      warningStrings(analysis.Warnings),
			Artifacts:     res.Artifacts,
		}
		if err := writeJSON(res.Artifacts.Summary, summary); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	return res, nil
}

// buildRunSamples flattens runs into one row per point with the elapsed
// time and cumulative distance since the start of its run.
func buildRunSamples(runs pumptrack.RunSet) []RunSample {
	n := 0
	for _, r := range runs {
		n += r.Len()
	}
	samples := make([]RunSample, 0, n)
	for ri, r := range runs {
		pts := r.Points()
		start := r.First().Time
		dist := 0.0
		for pi, p := range pts {
			if pi > 0 {
				dist += pumptrack.Distance(pts[pi-1], p)
			}
			s := RunSample{
				RunIndex:   ri + 1,
				PointIndex: pi,
				TSUTCISO:   p.Time.UTC().Format(time.RFC3339),
				Timestamp:  p.Time,
				Lat:        p.Lat,
				Lon:        p.Lon,
				ElapsedS:   p.Time.Sub(start).Seconds(),
				DistanceM:  dist,
			}
			if speed, ok := p.Speed(); ok {
				s.SpeedKMH = floatPtr(speed)
			}
			samples = append(samples, s)
		}
	}
	return samples
}

func warningStrings(warnings []error) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Error())
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var samplesHeader = []string{
	"run_index", "point_index", "ts_utc_iso", "lat", "lon", "speed_kmh", "elapsed_s", "distance_m",
}

func writeSamplesCSV(path string, samples []RunSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(samplesHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.RunIndex),
			strconv.Itoa(s.PointIndex),
			s.TSUTCISO,
			formatCoord(s.Lat),
			formatCoord(s.Lon),
			formatFloatPtr(s.SpeedKMH),
			formatFloat(s.ElapsedS),
			formatFloat(s.DistanceM),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatPtr(v float64) *float64 {
	return &v
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
