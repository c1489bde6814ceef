// repository.go: SQL for the users and login_attempts tables.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pipstracker/internal/common"
	"pipstracker/internal/db/postgres"
)

// Repository performs operations on the users table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. Returns common.ErrUserExists when the
// username is already taken.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (username, password_hash, current_streak)
		VALUES ($1, $2, 0)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, created_at, updated_at
	`
	u := User{Username: username, PasswordHash: passwordHash}
	err := r.db.QueryRow(ctx, query, username, passwordHash).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// GetByUsername returns the user with that username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getBy(ctx, "username = $1", username)
}

// GetByID returns the user with that id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *Repository) getBy(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, username, password_hash, current_streak, last_played, created_at, updated_at
		FROM users
		WHERE ` + where
	var u User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.CurrentStreak,
		&u.LastPlayed, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdateStreak writes the streak counter and last_played day after a
// full-day completion. Only the achievement evaluator calls this.
func (r *Repository) UpdateStreak(ctx context.Context, userID int64, streak int, lastPlayed time.Time) error {
	query := `
		UPDATE users
		SET current_streak = $2, last_played = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID, streak, lastPlayed); err != nil {
		return fmt.Errorf("updating streak: %w", err)
	}
	return nil
}

// ResetStreaksIn zeroes the streaks of the given users inside the
// caller's transaction. Only the reconciler calls this.
func (r *Repository) ResetStreaksIn(ctx context.Context, q postgres.Querier, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		UPDATE users
		SET current_streak = 0, updated_at = NOW()
		WHERE id = ANY($1)
	`
	if _, err := q.Exec(ctx, query, userIDs); err != nil {
		return fmt.Errorf("resetting streaks: %w", err)
	}
	return nil
}

// LogLoginAttempt records one login attempt for the brute-force throttle.
func (r *Repository) LogLoginAttempt(ctx context.Context, userID int64, success bool) error {
	query := `INSERT INTO login_attempts (user_id, success) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, userID, success); err != nil {
		return fmt.Errorf("logging login attempt: %w", err)
	}
	return nil
}

// CountRecentFailures counts failed login attempts for the user inside
// the throttle window.
func (r *Repository) CountRecentFailures(ctx context.Context, userID int64, window time.Duration) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE user_id = $1 AND success = FALSE AND attempted_at > NOW() - make_interval(secs => $2)
	`
	var n int
	err := r.db.QueryRow(ctx, query, userID, window.Seconds()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting login attempts: %w", err)
	}
	return n, nil
}
