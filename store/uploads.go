// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/gatherly/models"
)

func (s *Store) InsertUpload(ctx context.Context, f *models.UploadedFile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (id, file_name, original_name, content_type,
			size_bytes, extracted_text, extraction_error, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, f.ID, f.Name, f.OriginalName, f.ContentType, f.Size,
		toNull(f.ExtractedText), toNull(f.ExtractionError), f.UploadedBy, f.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// FindUploadByName returns the upload row for a stored file name, or nil
func (s *Store) FindUploadByName(ctx context.Context, name string) (*models.UploadedFile, error) {
	var f models.UploadedFile
	var extracted, extractionErr sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, file_name, original_name, content_type, size_bytes,
		       extracted_text, extraction_error, uploaded_by, uploaded_at
		FROM uploads WHERE file_name = $1
	`, name).Scan(&f.ID, &f.Name, &f.OriginalName, &f.ContentType, &f.Size,
		&extracted, &extractionErr, &f.UploadedBy, &f.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query upload: %w", err)
	}
	f.ExtractedText = nullable(extracted)
	f.ExtractionError = nullable(extractionErr)
	return &f, nil
}

// ListUploads returns all upload rows, newest first
func (s *Store) ListUploads(ctx context.Context) ([]models.UploadedFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, original_name, content_type, size_bytes,
		       extracted_text, extraction_error, uploaded_by, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	files := []models.UploadedFile{}
	for rows.Next() {
		var f models.UploadedFile
		var extracted, extractionErr sql.NullString
		if err := rows.Scan(&f.ID, &f.Name, &f.OriginalName, &f.ContentType, &f.Size,
			&extracted, &extractionErr, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		f.ExtractedText = nullable(extracted)
		f.ExtractionError = nullable(extractionErr)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read uploads: %w", err)
	}
	return files, nil
}

func (s *Store) DeleteUploadByName(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE file_name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// UploadStats returns the file count and total stored bytes
func (s *Store) UploadStats(ctx context.Context) (count int, totalBytes int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM uploads
	`).Scan(&count, &totalBytes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query upload stats: %w", err)
	}
	return count, totalBytes, nil
}
