// Package config loads the pump-tracker configuration from defaults, YAML
// files, PUMP_TRACKER_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// EnvPrefix prefixes every environment override, e.g. PUMP_TRACKER_MIN_DISTANCE.
const EnvPrefix = "PUMP_TRACKER"

// Samples formats.
const (
	SamplesParquet = "parquet"
	SamplesCSV     = "csv"
	SamplesNone    = "none"
)

// Config is the resolved configuration. It is a plain value; nothing reads
// configuration from global state after Load returns.
type Config struct {
	TracksDir        string  `mapstructure:"tracks_dir" json:"tracks_dir"`
	DownloadsDir     string  `mapstructure:"downloads_dir" json:"downloads_dir"`
	OutDir           string  `mapstructure:"out_dir" json:"out_dir,omitempty"`
	PrintTable       bool    `mapstructure:"print_table" json:"print_table"`
	WriteBestGPXFile bool    `mapstructure:"write_best_gpx_file" json:"write_best_gpx_file"`
	WriteAllGPXFile  bool    `mapstructure:"write_all_gpx_file" json:"write_all_gpx_file"`
	WritePNGFiles    bool    `mapstructure:"write_png_files" json:"write_png_files"`
	WriteProfile     bool    `mapstructure:"write_profile" json:"write_profile"`
	WriteSummary     bool    `mapstructure:"write_summary" json:"write_summary"`
	SamplesFormat    string  `mapstructure:"samples_format" json:"samples_format"`
	MinDistance      float64 `mapstructure:"min_distance" json:"min_distance"`
	MinSpeed         float64 `mapstructure:"min_speed" json:"min_speed"`
	MinMaxSpeed      float64 `mapstructure:"min_max_speed" json:"min_max_speed"`
	MinDuration      float64 `mapstructure:"min_duration" json:"min_duration"`
	MaxStepDuration  float64 `mapstructure:"max_step_duration" json:"max_step_duration"`
	MergeGap         float64 `mapstructure:"merge_gap" json:"merge_gap"`
}

// Default returns the built-in configuration.
func Default() Config {
	th := pumptrack.DefaultThresholds()
	return Config{
		TracksDir:        "tracks",
		DownloadsDir:     "~/Downloads/",
		PrintTable:       true,
		WriteBestGPXFile: true,
		WriteAllGPXFile:  true,
		WritePNGFiles:    true,
		WriteProfile:     true,
		WriteSummary:     true,
		SamplesFormat:    SamplesParquet,
		MinDistance:      th.MinDistance,
		MinSpeed:         th.SpeedStart,
		MinMaxSpeed:      th.MinMaxSpeed,
		MinDuration:      th.MinDuration,
		MaxStepDuration:  th.MaxStepGap,
		MergeGap:         th.MergeGap,
	}
}

// Thresholds returns the run detection thresholds of c.
func (c Config) Thresholds() pumptrack.Thresholds {
	return pumptrack.Thresholds{
		SpeedStart:  c.MinSpeed,
		MaxStepGap:  c.MaxStepDuration,
		MinDistance: c.MinDistance,
		MinMaxSpeed: c.MinMaxSpeed,
		MinDuration: c.MinDuration,
		MergeGap:    c.MergeGap,
	}
}

// Validate checks the thresholds and the samples format.
func (c Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	switch c.SamplesFormat {
	case SamplesParquet, SamplesCSV, SamplesNone:
	default:
		return fmt.Errorf("samples_format must be parquet, csv or none, got %q", c.SamplesFormat)
	}
	return nil
}

// SearchPaths lists the configuration files read when present. Later files
// override earlier ones.
func SearchPaths() []string {
	paths := []string{"pump-tracker.yml", "pump-tracker.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "pump-tracker.yml"),
			filepath.Join(home, ".config", "pump-tracker.yaml"),
		)
	}
	return paths
}

// aliases maps alternative key names onto configuration keys.
var aliases = map[string]string{
	"speed_start_threshold": "min_speed",
	"max_step_gap":          "max_step_duration",
}

// RegisterFlags adds one flag per configuration key plus --config to fs.
// Flag names use dashes: min_distance is --min-distance.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "explicit config file (YAML)")
	fs.String(flagName("tracks_dir"), d.TracksDir, "directory holding imported tracks")
	fs.String(flagName("downloads_dir"), d.DownloadsDir, "directory scanned by --import")
	fs.String(flagName("out_dir"), d.OutDir, "artifact directory (default: next to the input)")
	fs.Bool(flagName("print_table"), d.PrintTable, "print the run report")
	fs.Bool(flagName("write_best_gpx_file"), d.WriteBestGPXFile, "write <track>-best.gpx")
	fs.Bool(flagName("write_all_gpx_file"), d.WriteAllGPXFile, "write <track>-all.gpx")
	fs.Bool(flagName("write_png_files"), d.WritePNGFiles, "write speed colored PNG maps")
	fs.Bool(flagName("write_profile"), d.WriteProfile, "write <track>-profile.html")
	fs.Bool(flagName("write_summary"), d.WriteSummary, "write <track>-summary.json")
	fs.String(flagName("samples_format"), d.SamplesFormat, "run samples output: parquet|csv|none")
	fs.Float64(flagName("min_distance"), d.MinDistance, "minimum run distance in meters")
	fs.Float64(flagName("min_speed"), d.MinSpeed, "speed in km/h a step must exceed to count as foiling")
	fs.Float64(flagName("min_max_speed"), d.MinMaxSpeed, "top speed in km/h a run must exceed")
	fs.Float64(flagName("min_duration"), d.MinDuration, "minimum run duration in seconds")
	fs.Float64(flagName("max_step_duration"), d.MaxStepDuration, "longest gap in seconds between two points of a run")
	fs.Float64(flagName("merge_gap"), d.MergeGap, "runs closer than this many seconds are merged")
}

// Load resolves the configuration. fs must have been set up with
// RegisterFlags and parsed; nil fs skips the flag layer.
func Load(fs *pflag.FlagSet, searchPaths []string) (Config, error) {
	v := viper.New()
	defaults := Default()
	for key, value := range defaultMap(defaults) {
		v.SetDefault(key, value)
	}
	for _, path := range searchPaths {
		if _, err := os.Stat(expandHome(path)); err != nil {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return Config{}, err
		}
	}
	if fs != nil {
		if explicit, _ := fs.GetString("config"); explicit != "" {
			if err := mergeFile(v, explicit); err != nil {
				return Config{}, err
			}
		}
	}

	// Registering after the files moves aliased file values onto their key.
	for alias, key := range aliases {
		v.RegisterAlias(alias, key)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key := range defaultMap(defaults) {
			if f := fs.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.TracksDir = expandHome(cfg.TracksDir)
	cfg.DownloadsDir = expandHome(cfg.DownloadsDir)
	cfg.OutDir = expandHome(cfg.OutDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	v.SetConfigFile(expandHome(path))
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func defaultMap(c Config) map[string]any {
	return map[string]any{
		"tracks_dir":          c.TracksDir,
		"downloads_dir":       c.DownloadsDir,
		"out_dir":             c.OutDir,
		"print_table":         c.PrintTable,
		"write_best_gpx_file": c.WriteBestGPXFile,
		"write_all_gpx_file":  c.WriteAllGPXFile,
		"write_png_files":     c.WritePNGFiles,
		"write_profile":       c.WriteProfile,
		"write_summary":       c.WriteSummary,
		"samples_format":      c.SamplesFormat,
		"min_distance":        c.MinDistance,
		"min_speed":           c.MinSpeed,
		"min_max_speed":       c.MinMaxSpeed,
		"min_duration":        c.MinDuration,
		"max_step_duration":   c.MaxStepDuration,
		"merge_gap":           c.MergeGap,
	}
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
