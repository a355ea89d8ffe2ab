package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// WriteProfile renders an HTML page with per-run bars (duration, distance,
// max speed colored like the map) and the speed trace of the best run.
func WriteProfile(w io.Writer, title string, st *pumptrack.Statistics, runs pumptrack.RunSet) error {
	if st == nil || len(st.Runs) == 0 {
		return pumptrack.ErrNoRunsFound
	}
	best := st.BestRunIndex - 1
	if best < 0 || best >= len(runs) {
		return errors.New("best run is not part of the run set")
	}

	page := components.NewPage()
	page.SetPageTitle(title)
	page.AddCharts(runsChart(title, st), speedChart(st.BestRun, runs[best]))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render profile: %w", err)
	}
	return nil
}

// SaveProfile writes the profile page to path.
func SaveProfile(path, title string, st *pumptrack.Statistics, runs pumptrack.RunSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile file: %w", err)
	}
	if err := WriteProfile(f, title, st, runs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runsChart(title string, st *pumptrack.Statistics) *charts.Bar {
	labels := make([]string, 0, len(st.Runs))
	durations := make([]opts.BarData, 0, len(st.Runs))
	distances := make([]opts.BarData, 0, len(st.Runs))
	maxSpeeds := make([]opts.BarData, 0, len(st.Runs))
	for _, r := range st.Runs {
		labels = append(labels, fmt.Sprintf("%02d", r.Index))
		durations = append(durations, opts.BarData{Value: math.Round(r.DurationSeconds)})
		distances = append(distances, opts.BarData{Value: math.Round(r.DistanceMeters)})
		maxSpeeds = append(maxSpeeds, opts.BarData{
			Value:     math.Round(r.MaxSpeedKmh*10) / 10,
			ItemStyle: &opts.ItemStyle{Color: BucketHex(r.MaxSpeedKmh)},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Subtitle: fmt.Sprintf("%d runs, avg %s / %.0fm",
				len(st.Runs), pumptrack.FormatDuration(st.AvgDurationSeconds), st.AvgDistanceMeters),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
	)
	bar.SetXAxis(labels).
		AddSeries("duration (s)", durations).
		AddSeries("distance (m)", distances).
		AddSeries("max speed (km/h)", maxSpeeds)
	return bar
}

func speedChart(summary pumptrack.RunSummary, run pumptrack.Run) *charts.Line {
	pts := run.Points()
	offsets := make([]string, 0, len(pts))
	speeds := make([]opts.LineData, 0, len(pts))
	start := run.First().Time
	for _, p := range pts {
		speed, ok := p.Speed()
		if !ok {
			continue
		}
		offsets = append(offsets, fmt.Sprintf("%.0f", p.Time.Sub(start).Seconds()))
		speeds = append(speeds, opts.LineData{Value: math.Round(speed*10) / 10})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("best run %02d", summary.Index),
			Subtitle: fmt.Sprintf("%s, %.0fm, %.1fkm/h avg, %.1fkm/h max",
				pumptrack.FormatDuration(summary.DurationSeconds), summary.DistanceMeters,
				summary.AvgSpeedKmh, summary.MaxSpeedKmh),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "s"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km/h"}),
	)
	line.SetXAxis(offsets).AddSeries("speed", speeds)
	return line
}
