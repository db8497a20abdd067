package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"epicsnap/internal/model"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("not found")
)

// CreateUser registers a new unconfirmed user together with a one-time
// confirmation code. Sign-up with an email that already exists returns
// ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, email, passHash string) (model.User, model.Confirmation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, model.Confirmation{}, errors.New("missing email")
	}

	now := nowMillis()
	u := model.User{
		ID:        uuid.NewString(),
		Email:     email,
		PassHash:  passHash,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, model.Confirmation{}, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, email).Scan(&exists)
	if err == nil {
		return model.User{}, model.Confirmation{}, ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return model.User{}, model.Confirmation{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, pass_hash, confirmed, created_at) VALUES (?, ?, ?, 0, ?)`,
		u.ID, u.Email, u.PassHash, u.CreatedAt)
	if err != nil {
		return model.User{}, model.Confirmation{}, err
	}

	conf := model.Confirmation{Code: uuid.NewString(), UserID: u.ID, CreatedAt: now}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO confirmations (code, user_id, created_at) VALUES (?, ?, ?)`,
		conf.Code, conf.UserID, conf.CreatedAt)
	if err != nil {
		return model.User{}, model.Confirmation{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, model.Confirmation{}, err
	}
	return u, conf, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, pass_hash, confirmed, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Confirmed, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, bool, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, pass_hash, confirmed, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Confirmed, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// ConsumeConfirmation exchanges a one-time code for its user, marking
// the user confirmed and deleting the code. A second exchange of the
// same code returns ErrNotFound.
func (s *Store) ConsumeConfirmation(ctx context.Context, code string) (model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM confirmations WHERE code = ?`, code).Scan(&userID)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM confirmations WHERE code = ?`, code); err != nil {
		return model.User{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET confirmed = 1 WHERE id = ?`, userID); err != nil {
		return model.User{}, err
	}

	var u model.User
	err = tx.QueryRowContext(ctx,
		`SELECT id, email, pass_hash, confirmed, created_at FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Confirmed, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// CreateSessionToken records the server-side row for an issued token,
// keyed by its jti.
func (s *Store) CreateSessionToken(ctx context.Context, tok model.SessionToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_tokens (id, user_id, created_at, expires_at, revoked) VALUES (?, ?, ?, ?, 0)`,
		tok.ID, tok.UserID, nowMillis(), tok.ExpiresAt)
	return err
}

// SessionTokenLive reports whether the jti row exists, is unrevoked and
// unexpired. A verified JWT whose jti is not live is treated as no
// session.
func (s *Store) SessionTokenLive(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT revoked, expires_at FROM session_tokens WHERE id = ?`, jti).
		Scan(&revoked, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !revoked && expiresAt > nowMillis(), nil
}

func (s *Store) RevokeSessionToken(ctx context.Context, jti string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE session_tokens SET revoked = 1 WHERE id = ?`, jti)
	return err
}

func (s *Store) RevokeUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE session_tokens SET revoked = 1 WHERE user_id = ?`, userID)
	return err
}
