package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	pumptrack "github.com/lucasjlepore/pump-tracker"
	"github.com/lucasjlepore/pump-tracker/config"
	"github.com/lucasjlepore/pump-tracker/pipeline"
	"github.com/lucasjlepore/pump-tracker/track"
)

const name = "pump-tracker"

func main() {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	importMode := fs.Bool("import", false, "move raw track files from [source-dir] (default downloads_dir) into tracks_dir")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] <track.gpx|track.fit>...\n  %s --import [source-dir]\n\nFlags:\n", name, name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs, config.SearchPaths())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(2)
	}

	if *importMode {
		if fs.NArg() > 1 {
			fs.Usage()
			os.Exit(2)
		}
		source := cfg.DownloadsDir
		if fs.NArg() == 1 {
			source = fs.Arg(0)
		}
		imported, err := track.ImportFiles(source, cfg.TracksDir)
		for _, im := range imported {
			fmt.Printf("imported %s -> %s\n", im.From, im.To)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range fs.Args() {
		if err := analyze(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", name, path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func analyze(path string, cfg config.Config) error {
	res, err := pipeline.Run(pipeline.OptionsFromConfig(path, cfg))
	if errors.Is(err, pumptrack.ErrNoRunsFound) {
		return fmt.Errorf("no pump foiling runs detected: %w", err)
	}
	if err != nil {
		return err
	}

	if cfg.PrintTable {
		fmt.Printf("%s\n%s\n\n", filepath.Base(path), res.Report)
	}
	return nil
}
