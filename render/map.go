package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// MapSize is the map edge length; 1024 px at the 96 dpi PNG default.
const MapSize vg.Length = 768

// mapPadding is the share of the run extent left free around it.
const mapPadding = 0.05

// NewMapPlot draws run as one line per step, colored by the speed of the step.
func NewMapPlot(run pumptrack.Run) (*plot.Plot, error) {
	pts := run.Points()
	if len(pts) < 2 {
		return nil, errors.New("run needs at least two points to draw")
	}

	proj := newProjection(pts)
	p := plot.New()
	p.HideAxes()
	for i := 1; i < len(pts); i++ {
		speed, _ := pts[i].Speed()
		line, err := plotter.NewLine(plotter.XYs{proj.xy(pts[i-1]), proj.xy(pts[i])})
		if err != nil {
			return nil, fmt.Errorf("draw step %d: %w", i, err)
		}
		line.Color = BucketColor(speed)
		line.Width = vg.Points(2)
		p.Add(line)
	}
	proj.frame(p)
	return p, nil
}

// WriteMap renders run as a PNG map to w.
func WriteMap(w io.Writer, run pumptrack.Run) error {
	p, err := NewMapPlot(run)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(MapSize, MapSize, "png")
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

// SaveMap renders run as a PNG file.
func SaveMap(path string, run pumptrack.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	if err := WriteMap(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// projection is an equirectangular projection around the mean latitude of
// a run.
type projection struct {
	kx                     float64
	minX, maxX, minY, maxY float64
}

func newProjection(pts []pumptrack.GeoPoint) projection {
	meanLat := 0.0
	for _, p := range pts {
		meanLat += p.Lat
	}
	meanLat /= float64(len(pts))

	pr := projection{kx: math.Cos(meanLat * math.Pi / 180)}
	pr.minX, pr.minY = math.Inf(1), math.Inf(1)
	pr.maxX, pr.maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		xy := pr.xy(p)
		pr.minX = math.Min(pr.minX, xy.X)
		pr.maxX = math.Max(pr.maxX, xy.X)
		pr.minY = math.Min(pr.minY, xy.Y)
		pr.maxY = math.Max(pr.maxY, xy.Y)
	}
	return pr
}

func (pr projection) xy(p pumptrack.GeoPoint) plotter.XY {
	return plotter.XY{X: p.Lon * pr.kx, Y: p.Lat}
}

// frame sets equal axis spans so the map is not distorted.
func (pr projection) frame(p *plot.Plot) {
	span := math.Max(pr.maxX-pr.minX, pr.maxY-pr.minY)
	if span <= 0 {
		span = 1e-5
	}
	half := span * (0.5 + mapPadding)
	cx := (pr.minX + pr.maxX) / 2
	cy := (pr.minY + pr.maxY) / 2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}
