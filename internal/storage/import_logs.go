package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/wodparse/internal/models"
)

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log models.ImportLogRow) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (source, status, files_seen, files_parsed, files_skipped,
		 files_failed, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.Source, log.Status, log.FilesSeen, log.FilesParsed, log.FilesSkipped,
		log.FilesFailed, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log models.ImportLogRow) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, files_seen = $3, files_parsed = $4, files_skipped = $5,
		 files_failed = $6, duration_ms = $7, error_message = $8
		 WHERE id = $1`,
		id, log.Status, log.FilesSeen, log.FilesParsed, log.FilesSkipped,
		log.FilesFailed, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs.
func (db *DB) QueryImportLogs(ctx context.Context, limit int) ([]models.ImportLogRow, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, status, files_seen, files_parsed, files_skipped,
		 files_failed, duration_ms, error_message
		 FROM import_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []models.ImportLogRow
	for rows.Next() {
		var l models.ImportLogRow
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.Status, &l.FilesSeen,
			&l.FilesParsed, &l.FilesSkipped, &l.FilesFailed, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
