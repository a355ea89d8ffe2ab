package track

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	pumptrack "github.com/lucasjlepore/pump-tracker"
)

// Format is a supported input file type.
type Format string

const (
	FormatGPX Format = "gpx"
	FormatFIT Format = "fit"
)

// Source is a loaded input file. GPX is the base document for artifacts; for
// FIT input it is synthesized from Tracks.
type Source struct {
	Path   string
	Format Format
	GPX    *gpx.GPX
	Tracks []pumptrack.Track
}

// DetectFormat maps a file extension to its Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return FormatGPX, nil
	case ".fit":
		return FormatFIT, nil
	}
	return "", fmt.Errorf("unsupported track file %q: want .gpx or .fit", filepath.Base(path))
}

// Load reads a GPX or FIT file.
func Load(path string) (*Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	src := &Source{Path: path, Format: format}
	switch format {
	case FormatGPX:
		g, err := ReadGPX(path)
		if err != nil {
			return nil, err
		}
		src.GPX = g
		src.Tracks = FromGPX(g)
	case FormatFIT:
		tracks, err := ReadFIT(path)
		if err != nil {
			return nil, err
		}
		src.Tracks = tracks
		src.GPX = ToGPX(tracks)
	}
	return src, nil
}

// OutputPath derives an artifact path from the input path:
// 2024-05-01-10-00-raw.gpx with suffix "all" and ext "gpx" becomes
// 2024-05-01-10-00-all.gpx.
func OutputPath(input, suffix, ext string) string {
	dir, base := filepath.Split(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "-" + suffix
	name = strings.ReplaceAll(name, "-raw-", "-")
	return filepath.Join(dir, name+"."+ext)
}
