package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"epicsnap/internal/model"
)

var ErrAlbumNotVisible = errors.New("album not found or not accessible")

func (s *Store) CreateAlbum(ctx context.Context, ownerID, title string) (model.Album, error) {
	if ownerID == "" {
		return model.Album{}, errors.New("missing owner id")
	}
	if title == "" {
		return model.Album{}, errors.New("missing title")
	}

	a := model.Album{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: nowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO albums (id, owner_id, title, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Title, a.CreatedAt)
	if err != nil {
		return model.Album{}, err
	}
	return a, nil
}

// ListAlbums returns the union of albums the user owns and albums the
// user is a member of, deduplicated by id, newest first, each with its
// screenshot count computed from the link table.
func (s *Store) ListAlbums(ctx context.Context, userID string) ([]model.AlbumView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.owner_id, a.title, a.created_at,
		       (SELECT COUNT(*) FROM album_screenshots l WHERE l.album_id = a.id) AS screenshot_count
		FROM albums a
		WHERE a.owner_id = ?
		   OR a.id IN (SELECT m.album_id FROM album_members m WHERE m.user_id = ?)
		ORDER BY a.created_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.AlbumView, 0)
	for rows.Next() {
		var v model.AlbumView
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.CreatedAt, &v.ScreenshotCount); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// AlbumVisible reports whether the user owns the album or is a member.
func (s *Store) AlbumVisible(ctx context.Context, userID, albumID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM albums a
		WHERE a.id = ?
		  AND (a.owner_id = ? OR EXISTS (SELECT 1 FROM album_members m WHERE m.album_id = a.id AND m.user_id = ?))
		LIMIT 1`, albumID, userID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LinkScreenshot joins a screenshot into an album visible to the user.
// The caller treats a failure here as partial: the screenshot record is
// already committed and stays.
func (s *Store) LinkScreenshot(ctx context.Context, userID, albumID, screenshotID string) error {
	visible, err := s.AlbumVisible(ctx, userID, albumID)
	if err != nil {
		return err
	}
	if !visible {
		return ErrAlbumNotVisible
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO album_screenshots (album_id, screenshot_id) VALUES (?, ?)`,
		albumID, screenshotID)
	return err
}

func (s *Store) AddAlbumMember(ctx context.Context, albumID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO album_members (album_id, user_id) VALUES (?, ?)`,
		albumID, userID)
	return err
}
