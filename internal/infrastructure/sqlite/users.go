package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

// CreateUser inserts a new account and fills in its generated ID.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, user.Name, user.PasswordHash, user.IsActive,
		user.CreatedAt.Unix(), user.UpdatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	return nil
}

// UserByEmail looks an account up by its email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_active, created_at, updated_at
		 FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserByID looks an account up by its ID.
func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_active, created_at, updated_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// SaveUser updates a stored account's mutable fields.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, password_hash = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email, user.Name, user.PasswordHash, user.IsActive,
		user.UpdatedAt.Unix(), user.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireRow(res)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u                  domain.User
		createdAt, updated int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &createdAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.CreatedAt = unixTime(createdAt)
	u.UpdatedAt = unixTime(updated)
	return &u, nil
}

// CreateOTP inserts a verification code for a user.
func (s *Store) CreateOTP(ctx context.Context, otp *domain.OTP) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO otps (user_id, code, verified, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		otp.UserID, otp.Code, otp.Verified, otp.CreatedAt.Unix(), otp.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting otp: %w", err)
	}

	otp.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading otp id: %w", err)
	}
	return nil
}

// LatestOTP returns the most recently issued code for a user.
func (s *Store) LatestOTP(ctx context.Context, userID int64) (*domain.OTP, error) {
	var (
		o                  domain.OTP
		createdAt, expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, code, verified, created_at, expires_at
		 FROM otps WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID).
		Scan(&o.ID, &o.UserID, &o.Code, &o.Verified, &createdAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning otp: %w", err)
	}
	o.CreatedAt = unixTime(createdAt)
	o.ExpiresAt = unixTime(expires)
	return &o, nil
}

// MarkOTPVerified flags a code as used.
func (s *Store) MarkOTPVerified(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE otps SET verified = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("updating otp: %w", err)
	}
	return requireRow(res)
}

// CreateSession stores a login session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID, session.CreatedAt.Unix(), session.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// SessionByToken looks a session up by its bearer token.
func (s *Store) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var (
		sess               domain.Session
		createdAt, expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID, &createdAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	sess.CreatedAt = unixTime(createdAt)
	sess.ExpiresAt = unixTime(expires)
	return &sess, nil
}

// DeleteSession removes a session, if present.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.Unix()); err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
