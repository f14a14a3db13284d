// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/authflow/authflow/internal/models"
)

// CreateUser inserts a new user record. The email must already be
// normalized; the unique index maps collisions to ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, email, displayName, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		email, displayName, passwordHash, now, now)
	if err != nil {
		return nil, wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves the user holding the given reset token,
// filtered to unexpired tokens (strict comparison). An expired-but-stored
// token is indistinguishable from an absent one on this path.
func (r *Repository) GetUserByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT * FROM users WHERE reset_token = ? AND reset_token_expiry > ?`,
		token, now.UTC())
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UpdateDisplayName updates a user's display name.
func (r *Repository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`,
		displayName, time.Now().UTC(), id)
	if err != nil {
		return wrapError(err)
	}
	return requireRow(res.RowsAffected())
}

// UpdatePassword stores a new password hash for a user. Callers hash the
// plain text before reaching the store; this path never re-derives.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return wrapError(err)
	}
	return requireRow(res.RowsAffected())
}

// SetResetToken stores a reset token and its expiry in a single update,
// overwriting any pending pair. The previous token becomes invalid the
// instant this statement commits.
func (r *Repository) SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = ?, reset_token_expiry = ?, updated_at = ? WHERE id = ?`,
		token, expiry.UTC(), time.Now().UTC(), id)
	if err != nil {
		return wrapError(err)
	}
	return requireRow(res.RowsAffected())
}

// ConsumeResetToken atomically redeems a reset token: it stores the new
// password hash and clears the token pair in one conditional update keyed
// on the token still being present and unexpired. It returns false when no
// row was claimed, which is how the loser of a concurrent redemption race
// observes that the token is gone.
func (r *Repository) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, reset_token = NULL, reset_token_expiry = NULL, updated_at = ?
		 WHERE reset_token = ? AND reset_token_expiry > ?`,
		passwordHash, now.UTC(), token, now.UTC())
	if err != nil {
		return false, wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}

func requireRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
