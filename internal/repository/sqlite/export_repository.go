package sqlite

import (
	"database/sql"
	"fmt"

	"clickcounter/internal/model"
)

// ExportRepository implements repository.ExportRepository for SQLite.
type ExportRepository struct {
	db *DB
}

// NewExportRepository creates a new SQLite export repository.
func NewExportRepository(db *DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Insert adds a new export record to the database. Timestamps are stored in
// UTC so that range filters compare correctly.
func (r *ExportRepository) Insert(exp *model.Export) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO exports (filename, source_path, filepath, mark_count, width, height, filesize, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, exp.Filename, exp.SourcePath, exp.FilePath, exp.MarkCount, exp.Width, exp.Height, exp.FileSize, exp.Timestamp.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert export: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves an export by its ID.
func (r *ExportRepository) GetByID(id int64) (*model.Export, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var exp model.Export
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, source_path, filepath, mark_count, width, height, filesize, timestamp
		FROM exports WHERE id = ?
	`, id).Scan(&exp.ID, &exp.Filename, &exp.SourcePath, &exp.FilePath, &exp.MarkCount,
		&exp.Width, &exp.Height, &exp.FileSize, &exp.Timestamp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return &exp, nil
}

// GetAll retrieves exports based on filter criteria, newest first.
func (r *ExportRepository) GetAll(filter *model.ExportFilter) ([]model.Export, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, filename, source_path, filepath, mark_count, width, height, filesize, timestamp
		FROM exports
		WHERE 1=1
	`
	where, args := filterClause(filter)
	query += where + " ORDER BY timestamp DESC, id DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var exports []model.Export
	for rows.Next() {
		var exp model.Export
		if err := rows.Scan(&exp.ID, &exp.Filename, &exp.SourcePath, &exp.FilePath, &exp.MarkCount,
			&exp.Width, &exp.Height, &exp.FileSize, &exp.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, exp)
	}

	return exports, rows.Err()
}

// GetTotalCount returns the total count of exports matching the filter.
func (r *ExportRepository) GetTotalCount(filter *model.ExportFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := filterClause(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM exports WHERE 1=1`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}

	return count, nil
}

// DeleteAll removes all export records.
func (r *ExportRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM exports`); err != nil {
		return fmt.Errorf("failed to delete exports: %w", err)
	}
	return nil
}

func filterClause(filter *model.ExportFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	where := ""
	args := []interface{}{}

	if filter.SourcePath != "" {
		where += " AND source_path = ?"
		args = append(args, filter.SourcePath)
	}

	if !filter.StartDate.IsZero() {
		where += " AND timestamp >= ?"
		args = append(args, filter.StartDate.UTC())
	}

	if !filter.EndDate.IsZero() {
		where += " AND timestamp <= ?"
		args = append(args, filter.EndDate.UTC())
	}

	return where, args
}
