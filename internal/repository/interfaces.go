package repository

import "clickcounter/internal/model"

// ExportRepository defines the interface for export journal operations.
type ExportRepository interface {
	// Create operations
	Insert(exp *model.Export) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Export, error)
	GetAll(filter *model.ExportFilter) ([]model.Export, error)
	GetTotalCount(filter *model.ExportFilter) (int, error)

	// Delete operations
	DeleteAll() error
}
