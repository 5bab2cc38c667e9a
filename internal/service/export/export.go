// Package export turns rendered frames into timestamped files next to the
// source image and, optionally, records each save in the export journal.
package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clickcounter/internal/logger"
	"clickcounter/internal/model"
	"clickcounter/internal/repository"
)

const (
	// Separator sits between the source name and the timestamp.
	Separator = "_annotated_"
	// TimestampLayout renders a fixed-width, sortable, filesystem-safe stamp.
	TimestampLayout = "20060102150405"
	// Extension is the raster format of every export.
	Extension = ".png"
)

var exportName = regexp.MustCompile(`^(.+)` + Separator + `(\d{14})(?:-\d+)?\` + Extension + `$`)

// ErrSaveWrite is returned when the annotated image could not be persisted.
var ErrSaveWrite = errors.New("failed to save annotated image")

// Writer persists an image at a path and reports the bytes written.
type Writer interface {
	WriteImage(path string, img image.Image) (int64, error)
}

// Service saves annotated frames.
type Service struct {
	writer   Writer
	journal  repository.ExportRepository
	logger   *logger.Logger
	now      func() time.Time
	lastPath string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithJournal records every successful save in repo.
func WithJournal(repo repository.ExportRepository) Option {
	return func(s *Service) { s.journal = repo }
}

// NewService creates a Service writing through writer.
func NewService(writer Writer, logger *logger.Logger, opts ...Option) *Service {
	s := &Service{
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportPath derives the export path for sourcePath at the given time:
// the source path without its extension, Separator, the timestamp and
// Extension.
func ExportPath(sourcePath string, at time.Time) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	return base + Separator + at.Format(TimestampLayout) + Extension
}

// ParseExportName splits a file name produced by ExportPath into the source
// name stem and the save time, interpreted in loc.
func ParseExportName(name string, loc *time.Location) (string, time.Time, bool) {
	m := exportName.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, false
	}
	at, err := time.ParseInLocation(TimestampLayout, m[2], loc)
	if err != nil {
		return "", time.Time{}, false
	}
	return m[1], at, true
}

// Save writes frame next to sourcePath and returns the path written.
// A second save within the same second gets a "-2", "-3", ... suffix rather
// than overwriting the first.
func (s *Service) Save(frame image.Image, sourcePath string, count int) (string, error) {
	at := s.now()
	path := s.uniquePath(ExportPath(sourcePath, at))

	size, err := s.writer.WriteImage(path, frame)
	if err != nil {
		s.logger.Error("Error saving image %s: %v", path, err)
		return "", fmt.Errorf("%w: %w", ErrSaveWrite, err)
	}
	s.lastPath = path
	s.logger.Info("Saved %s (%d marks)", filepath.Base(path), count)

	if s.journal != nil {
		b := frame.Bounds()
		record := &model.Export{
			Filename:   filepath.Base(path),
			SourcePath: sourcePath,
			FilePath:   path,
			MarkCount:  count,
			Width:      b.Dx(),
			Height:     b.Dy(),
			FileSize:   size,
			Timestamp:  at,
		}
		if _, err := s.journal.Insert(record); err != nil {
			s.logger.Warning("Error recording export %s in journal: %v", record.Filename, err)
		}
	}

	return path, nil
}

func (s *Service) uniquePath(path string) string {
	stem := strings.TrimSuffix(path, Extension)
	candidate := path
	for n := 2; candidate == s.lastPath || exists(candidate); n++ {
		candidate = stem + "-" + strconv.Itoa(n) + Extension
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
