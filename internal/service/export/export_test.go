package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"clickcounter/internal/logger"
	"clickcounter/internal/model"
	"clickcounter/internal/service/storage"
)

var savedName = regexp.MustCompile(`^image_annotated_\d{14}\.png$`)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type failingWriter struct{}

func (failingWriter) WriteImage(string, image.Image) (int64, error) {
	return 0, errors.New("disk full")
}

type memoryJournal struct {
	records []model.Export
	err     error
}

func (j *memoryJournal) Insert(exp *model.Export) (int64, error) {
	if j.err != nil {
		return 0, j.err
	}
	j.records = append(j.records, *exp)
	return int64(len(j.records)), nil
}

func (j *memoryJournal) GetByID(int64) (*model.Export, error) {
	return nil, nil
}

func (j *memoryJournal) GetAll(*model.ExportFilter) ([]model.Export, error) {
	return j.records, nil
}

func (j *memoryJournal) GetTotalCount(*model.ExportFilter) (int, error) {
	return len(j.records), nil
}

func (j *memoryJournal) DeleteAll() error {
	j.records = nil
	return nil
}

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetRGBA(3, 3, color.RGBA{R: 255, A: 255})
	return img
}

func TestExportPath(t *testing.T) {
	at := time.Date(2025, 7, 4, 9, 5, 3, 0, time.Local)

	tests := []struct {
		source   string
		expected string
	}{
		{"/home/user/Desktop/image.png", "/home/user/Desktop/image_annotated_20250704090503.png"},
		{"/data/scan.final.tiff", "/data/scan.final_annotated_20250704090503.png"},
		{"/data/noext", "/data/noext_annotated_20250704090503.png"},
		{"/data.v2/photo.JPG", "/data.v2/photo_annotated_20250704090503.png"},
	}

	for _, tt := range tests {
		if got := ExportPath(tt.source, at); got != tt.expected {
			t.Errorf("ExportPath(%q) = %q, expected %q", tt.source, got, tt.expected)
		}
	}
}

func TestParseExportName(t *testing.T) {
	tests := []struct {
		name     string
		stem     string
		expected time.Time
		ok       bool
	}{
		{"image_annotated_20250704090503.png", "image", time.Date(2025, 7, 4, 9, 5, 3, 0, time.UTC), true},
		{"my_cells_annotated_20241231235959-3.png", "my_cells", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), true},
		{"image_annotated_2025070409050.png", "", time.Time{}, false},
		{"image_annotated_20251304090503.png", "", time.Time{}, false},
		{"image_annotated_20250704090503.jpg", "", time.Time{}, false},
		{"image.png", "", time.Time{}, false},
	}

	for _, tt := range tests {
		stem, at, ok := ParseExportName(tt.name, time.UTC)
		if ok != tt.ok || stem != tt.stem || !at.Equal(tt.expected) {
			t.Errorf("ParseExportName(%q) = %q, %v, %v; expected %q, %v, %v",
				tt.name, stem, at, ok, tt.stem, tt.expected, tt.ok)
		}
	}
}

func TestParseExportName_RoundTrip(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	path := ExportPath("/data/slide 7.tif", at)

	stem, parsed, ok := ParseExportName(filepath.Base(path), time.UTC)
	if !ok || stem != "slide 7" || !parsed.Equal(at) {
		t.Errorf("ParseExportName(%q) = %q, %v, %v", filepath.Base(path), stem, parsed, ok)
	}
}

func TestSave_WritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "image.png")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	svc := NewService(storage.NewFileWriter(logger.NewNop()), logger.NewNop(), WithClock(fixedClock(at)))
	path, err := svc.Save(testFrame(), source, 3)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("saved to %s, expected directory %s", path, dir)
	}
	if !savedName.MatchString(filepath.Base(path)) {
		t.Errorf("filename %s does not match %s", filepath.Base(path), savedName)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export missing: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("export is not a PNG: %v", err)
	}
}

func TestSave_SameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "image.png")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	svc := NewService(storage.NewFileWriter(logger.NewNop()), logger.NewNop(), WithClock(fixedClock(at)))

	first, err := svc.Save(testFrame(), source, 1)
	if err != nil {
		t.Fatalf("first Save() error: %v", err)
	}
	second, err := svc.Save(testFrame(), source, 2)
	if err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	third, err := svc.Save(testFrame(), source, 3)
	if err != nil {
		t.Fatalf("third Save() error: %v", err)
	}

	if filepath.Base(first) != "image_annotated_20250102030405.png" {
		t.Errorf("first = %s", first)
	}
	if filepath.Base(second) != "image_annotated_20250102030405-2.png" {
		t.Errorf("second = %s", second)
	}
	if filepath.Base(third) != "image_annotated_20250102030405-3.png" {
		t.Errorf("third = %s", third)
	}
}

func TestSave_WriteFailure(t *testing.T) {
	journal := &memoryJournal{}
	svc := NewService(failingWriter{}, logger.NewNop(), WithJournal(journal))

	path, err := svc.Save(testFrame(), "/tmp/image.png", 2)
	if !errors.Is(err, ErrSaveWrite) {
		t.Fatalf("Save() error = %v, expected ErrSaveWrite", err)
	}
	if path != "" {
		t.Errorf("path = %q, expected empty on failure", path)
	}
	if len(journal.records) != 0 {
		t.Errorf("journal recorded a failed save: %v", journal.records)
	}
}

func TestSave_RecordsJournal(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "cells.jpg")
	at := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	journal := &memoryJournal{}

	svc := NewService(storage.NewFileWriter(logger.NewNop()), logger.NewNop(),
		WithClock(fixedClock(at)), WithJournal(journal))

	path, err := svc.Save(testFrame(), source, 4)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if len(journal.records) != 1 {
		t.Fatalf("journal has %d records, expected 1", len(journal.records))
	}
	rec := journal.records[0]
	if rec.FilePath != path || rec.SourcePath != source || rec.MarkCount != 4 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Width != 12 || rec.Height != 8 || rec.FileSize <= 0 {
		t.Errorf("record dimensions/size = %dx%d %d bytes", rec.Width, rec.Height, rec.FileSize)
	}
	if !rec.Timestamp.Equal(at) {
		t.Errorf("record timestamp = %v, expected %v", rec.Timestamp, at)
	}
}

func TestSave_JournalFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	journal := &memoryJournal{err: errors.New("database is locked")}

	svc := NewService(storage.NewFileWriter(logger.NewNop()), logger.NewNop(), WithJournal(journal))

	path, err := svc.Save(testFrame(), filepath.Join(dir, "image.png"), 1)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export missing after journal failure: %v", err)
	}
}
