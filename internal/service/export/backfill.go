package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	_ "image/png"

	"clickcounter/internal/logger"
	"clickcounter/internal/model"
	"clickcounter/internal/repository"
	"clickcounter/internal/source"
)

// Backfill records every export file found in dir that the journal does not
// know about yet. Mark counts of backfilled records are unknown and stored
// as zero. It returns how many records were added and how many files were
// skipped.
func Backfill(dir string, repo repository.ExportRepository, logger *logger.Logger) (int, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	known, err := repo.GetAll(nil)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]bool, len(known))
	for _, exp := range known {
		seen[exp.FilePath] = true
	}

	added, skipped := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, at, ok := ParseExportName(entry.Name(), time.Local)
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if seen[path] {
			skipped++
			continue
		}

		record, err := describe(path, stem, at)
		if err != nil {
			logger.Warning("Skipping %s: %v", entry.Name(), err)
			skipped++
			continue
		}

		if _, err := repo.Insert(record); err != nil {
			logger.Warning("Skipping %s: %v", entry.Name(), err)
			skipped++
			continue
		}
		added++
	}

	logger.Info("Backfilled %d exports from %s (%d skipped)", added, dir, skipped)
	return added, skipped, nil
}

func describe(path, stem string, at time.Time) (*model.Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return &model.Export{
		Filename:   filepath.Base(path),
		SourcePath: sourceFor(filepath.Dir(path), stem),
		FilePath:   path,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FileSize:   info.Size(),
		Timestamp:  at,
	}, nil
}

// sourceFor finds the image an export was made from. When no candidate is
// left in dir the extensionless stem is recorded.
func sourceFor(dir, stem string) string {
	for _, ext := range source.DefaultExtensions {
		candidate := filepath.Join(dir, stem+ext)
		if exists(candidate) {
			return candidate
		}
	}
	return filepath.Join(dir, stem)
}
