package model

import "time"

// Export represents one saved annotated image in the export journal.
type Export struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	SourcePath string    `json:"source_path"`
	FilePath   string    `json:"filepath"`
	MarkCount  int       `json:"mark_count"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	FileSize   int64     `json:"filesize"`
	Timestamp  time.Time `json:"timestamp"`
}

// ExportFilter contains filtering options for querying exports.
type ExportFilter struct {
	SourcePath string
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
	Offset     int
}
