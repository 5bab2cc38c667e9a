package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"clickcounter/internal/logger"
)

// FileWriter persists frames as PNG files on the local filesystem.
type FileWriter struct {
	logger *logger.Logger
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(logger *logger.Logger) *FileWriter {
	return &FileWriter{logger: logger}
}

// WriteImage encodes img as PNG at path and returns the number of bytes
// written. The file is written next to its destination and renamed into
// place, so a failed save never leaves a truncated image behind.
func (w *FileWriter) WriteImage(path string, img image.Image) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".clickcounter-*.png")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	info, err := os.Stat(tmpName)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to move image into %s: %w", path, err)
	}

	w.logger.Info("Wrote %s (%d bytes)", path, info.Size())
	return info.Size(), nil
}
