package track

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lucasjlepore/pump-tracker/monitoring"
)

const rawNameLayout = "2006-01-02-15-04-raw"

// Imported records one moved file.
type Imported struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ImportFiles moves every track file in sourceDir into targetDir, renamed
// after the time of its first point. Existing targets are never overwritten.
func ImportFiles(sourceDir, targetDir string) ([]Imported, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read import dir: %w", err)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tracks dir: %w", err)
	}

	var imported []Imported
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, err := DetectFormat(e.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(sourceDir, e.Name())
		dst, err := RawName(path, targetDir, format)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", path, err)
		}
		if _, err := os.Stat(dst); err == nil {
			monitoring.Logf("skip %s: %s already exists", path, dst)
			continue
		}

		monitoring.Logf("importing %s", path)
		if err := moveFile(path, dst); err != nil {
			return imported, fmt.Errorf("import %s: %w", path, err)
		}
		imported = append(imported, Imported{From: path, To: dst})
	}
	return imported, nil
}

// RawName returns the import target of path inside dir.
func RawName(path, dir string, format Format) (string, error) {
	src, err := Load(path)
	if err != nil {
		return "", err
	}
	first, ok := FirstTime(src.Tracks)
	if !ok {
		return "", errors.New("track has no timestamped point")
	}
	return filepath.Join(dir, first.UTC().Format(rawNameLayout)+"."+string(format)), nil
}

// rename is swapped in tests to exercise the copy fallback.
var rename = os.Rename

func moveFile(src, dst string) error {
	if err := rename(src, dst); err == nil {
		return nil
	}

	// Rename fails across file systems; fall back to copy and remove.
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close target: %w", err)
	}
	return os.Remove(src)
}
