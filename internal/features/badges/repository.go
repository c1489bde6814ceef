// repository.go: SQL for the badges and user_badges tables.
package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserBadge is one earned badge joined with its catalog row.
type UserBadge struct {
	Name        string    `json:"name"`
	Category    int       `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// Repository performs operations on the user_badges table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a badges repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Award grants a badge to a user and reports whether the award is new.
// The uniqueness constraint on (user_id, badge_id) is the authoritative
// guard: a repeat award inserts nothing and returns false, so concurrent
// qualifying submissions cannot double-award.
func (r *Repository) Award(ctx context.Context, userID int64, b Badge) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id)
		SELECT $1, b.id FROM badges b WHERE b.name = $2
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, b.Name)
	if err != nil {
		return false, fmt.Errorf("awarding badge %q: %w", b.Name, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Has reports whether the user already holds the badge. Purely an
// optimization for skipping rule work; Award stays safe without it.
func (r *Repository) Has(ctx context.Context, userID int64, b Badge) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_badges ub
			JOIN badges b ON b.id = ub.badge_id
			WHERE ub.user_id = $1 AND b.name = $2
		)
	`
	var held bool
	if err := r.db.QueryRow(ctx, query, userID, b.Name).Scan(&held); err != nil {
		return false, fmt.Errorf("checking badge %q: %w", b.Name, err)
	}
	return held, nil
}

// ListByUser returns the user's earned badges, oldest award first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]UserBadge, error) {
	query := `
		SELECT b.name, b.category, b.image, b.description, ub.awarded_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing badges: %w", err)
	}
	defer rows.Close()

	var out []UserBadge
	for rows.Next() {
		var ub UserBadge
		if err := rows.Scan(&ub.Name, &ub.Category, &ub.Image, &ub.Description, &ub.AwardedAt); err != nil {
			return nil, fmt.Errorf("scanning badge: %w", err)
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}
