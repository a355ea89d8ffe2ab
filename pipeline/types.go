package pipeline

import (
	"time"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

const summarySchemaVersion = "pump_tracker_summary_v1"

// Options configures one pipeline run over a single track file.
type Options struct {
	InputPath     string
	OutDir        string // empty: next to the input file
	Thresholds    pumptrack.Thresholds
	WriteAllGPX   bool
	WriteBestGPX  bool
	WritePNG      bool
	WriteProfile  bool
	WriteSummary  bool
	SamplesFormat string // parquet|csv|none
}

// Result holds the analysis of one file and the artifacts written for it.
type Result struct {
	AnalysisID string                `json:"analysis_id"`
	Source     string                `json:"source"`
	Format     string                `json:"format"`
	Analysis   *pumptrack.Analysis   `json:"-"`
	Statistics *pumptrack.Statistics `json:"statistics"`
	Report     string                `json:"-"`
	Artifacts  Artifacts             `json:"artifacts"`
}

// Artifacts lists generated output paths. Disabled outputs stay empty.
type Artifacts struct {
	AllGPX  string   `json:"all_gpx,omitempty"`
	BestGPX string   `json:"best_gpx,omitempty"`
	BestPNG string   `json:"best_png,omitempty"`
	RunPNGs []string `json:"run_pngs,omitempty"`
	Profile string   `json:"profile,omitempty"`
	Samples string   `json:"samples,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// RunSample is one point of one run in the samples table.
type RunSample struct {
	RunIndex   int       `json:"run_index"`
	PointIndex int       `json:"point_index"`
	TSUTCISO   string    `json:"ts_utc_iso"`
	Timestamp  time.Time `json:"-"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	SpeedKMH   *float64  `json:"speed_kmh,omitempty"`
	ElapsedS   float64   `json:"elapsed_s"`
	DistanceM  float64   `json:"distance_m"`
}

// SummaryFile is the -summary.json document.
type SummaryFile struct {
	SchemaVersion string                `json:"schema_version"`
	AnalysisID    string                `json:"analysis_id"`
	GeneratedAt   time.Time             `json:"generated_at"`
	Source        string                `json:"source"`
	Format        string                `json:"format"`
	PointCount    int                   `json:"point_count"`
	Thresholds    pumptrack.Thresholds  `json:"thresholds"`
	Statistics    *pumptrack.Statistics `json:"statistics"`
	Warnings      []string              `json:"warnings,omitempty"`
	Artifacts     Artifacts             `json:"artifacts"`
}
