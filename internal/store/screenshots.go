package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"epicsnap/internal/model"
)

// CreateScreenshot inserts a new screenshot record. Records are never
// mutated in place after insertion.
func (s *Store) CreateScreenshot(ctx context.Context, sc model.Screenshot) (model.Screenshot, error) {
	if sc.UserID == "" {
		return model.Screenshot{}, errors.New("missing user id")
	}
	if sc.FilePath == "" {
		return model.Screenshot{}, errors.New("missing file path")
	}

	sc.ID = uuid.NewString()
	sc.CreatedAt = nowMillis()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO screenshots (id, user_id, title, description, file_name, file_path, file_type, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.UserID, sc.Title, sc.Description, sc.FileName, sc.FilePath, sc.FileType, sc.FileSize, sc.CreatedAt)
	if err != nil {
		return model.Screenshot{}, err
	}
	return sc, nil
}

// ListScreenshots returns the user's screenshots newest first. A
// non-positive limit returns all of them.
func (s *Store) ListScreenshots(ctx context.Context, userID string, limit int) ([]model.Screenshot, error) {
	query := `
		SELECT id, user_id, title, description, file_name, file_path, file_type, file_size, created_at
		FROM screenshots
		WHERE user_id = ?
		ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Screenshot, 0)
	for rows.Next() {
		var sc model.Screenshot
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Title, &sc.Description, &sc.FileName,
			&sc.FilePath, &sc.FileType, &sc.FileSize, &sc.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (s *Store) GetScreenshot(ctx context.Context, userID, id string) (model.Screenshot, bool, error) {
	var sc model.Screenshot
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, file_name, file_path, file_type, file_size, created_at
		FROM screenshots WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&sc.ID, &sc.UserID, &sc.Title, &sc.Description, &sc.FileName,
			&sc.FilePath, &sc.FileType, &sc.FileSize, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Screenshot{}, false, nil
	}
	if err != nil {
		return model.Screenshot{}, false, err
	}
	return sc, true, nil
}
