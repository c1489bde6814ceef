// repository.go: SQL for the results table.
package results

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

// Repository performs operations on the results table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a results repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool exposes the underlying pool so callers can open transactions that
// span this repository and others.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// Insert records one completion. Returns common.ErrDuplicateResult when a
// row already exists for (user, difficulty, day); the ledger never updates
// in place.
func (r *Repository) Insert(ctx context.Context, userID int64, d Difficulty, day time.Time, minutes, seconds int) (*Result, error) {
	query := `
		INSERT INTO results (user_id, difficulty, day, minutes, seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, difficulty, day) DO NOTHING
		RETURNING id, created_at
	`
	res := Result{UserID: userID, Difficulty: d, Day: day, Minutes: minutes, Seconds: seconds}
	err := r.db.QueryRow(ctx, query, userID, string(d), day, minutes, seconds).
		Scan(&res.ID, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrDuplicateResult
	}
	if err != nil {
		return nil, fmt.Errorf("inserting result: %w", err)
	}
	return &res, nil
}

// ByUserAndDay returns the user's results for one day, penalty records included.
func (r *Repository) ByUserAndDay(ctx context.Context, userID int64, day time.Time) ([]Result, error) {
	query := `
		SELECT id, user_id, difficulty, day, minutes, seconds, created_at
		FROM results
		WHERE user_id = $1 AND day = $2
	`
	rows, err := r.db.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("querying day results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// WorstOfDay finds the slowest result for (day, difficulty) across all users.
// Ties break toward the lowest user id so the pick is deterministic.
// Returns (nil, nil) when nobody played that difficulty that day; a
// legitimate skip condition, not an error.
func (r *Repository) WorstOfDay(ctx context.Context, day time.Time, d Difficulty) (*Result, error) {
	return r.WorstOfDayIn(ctx, r.db, day, d)
}

// WorstOfDayIn is WorstOfDay against a caller-supplied Querier, so the
// reconciliation pass can run it inside its transaction.
func (r *Repository) WorstOfDayIn(ctx context.Context, q postgres.Querier, day time.Time, d Difficulty) (*Result, error) {
	query := `
		SELECT id, user_id, difficulty, day, minutes, seconds, created_at
		FROM results
		WHERE day = $1 AND difficulty = $2
		ORDER BY minutes * 60 + seconds DESC, user_id ASC
		LIMIT 1
	`
	var res Result
	var diff string
	err := q.QueryRow(ctx, query, day, string(d)).Scan(
		&res.ID, &res.UserID, &diff, &res.Day, &res.Minutes, &res.Seconds, &res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying worst of day: %w", err)
	}
	res.Difficulty = Difficulty(diff)
	return &res, nil
}

// BackfillMissingIn inserts a penalty result for every user without a row
// for (day, difficulty) and returns the affected user ids. ON CONFLICT
// absorbs races with a concurrent pass, so reruns insert nothing.
func (r *Repository) BackfillMissingIn(ctx context.Context, q postgres.Querier, day time.Time, d Difficulty, minutes, seconds int) ([]int64, error) {
	query := `
		INSERT INTO results (user_id, difficulty, day, minutes, seconds)
		SELECT u.id, $2, $1, $3, $4
		FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM results r
			WHERE r.user_id = u.id AND r.difficulty = $2 AND r.day = $1
		)
		ON CONFLICT (user_id, difficulty, day) DO NOTHING
		RETURNING user_id
	`
	rows, err := q.Query(ctx, query, day, string(d), minutes, seconds)
	if err != nil {
		return nil, fmt.Errorf("backfilling %s: %w", d, err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning backfilled user: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// HardTotalsBetween returns total seconds of the user's Hard results with
// day in [from, to], ordered by day. Used by the Prime badge check.
func (r *Repository) HardTotalsBetween(ctx context.Context, userID int64, from, to time.Time) ([]int, error) {
	query := `
		SELECT minutes * 60 + seconds
		FROM results
		WHERE user_id = $1 AND difficulty = $2 AND day BETWEEN $3 AND $4
		ORDER BY day ASC
	`
	rows, err := r.db.Query(ctx, query, userID, string(Hard), from, to)
	if err != nil {
		return nil, fmt.Errorf("querying hard totals: %w", err)
	}
	defer rows.Close()

	var totals []int
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning hard total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ListAll returns every result joined with its username, oldest day first.
// Read-only surface for the stats page.
func (r *Repository) ListAll(ctx context.Context) ([]StatsRow, error) {
	query := `
		SELECT u.username, r.difficulty, r.day, r.minutes, r.seconds
		FROM results r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.day ASC, u.username ASC, r.difficulty ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var out []StatsRow
	for rows.Next() {
		var row StatsRow
		var diff string
		if err := rows.Scan(&row.Username, &diff, &row.Day, &row.Minutes, &row.Seconds); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		row.Difficulty = Difficulty(diff)
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanResults(rows pgx.Rows) ([]Result, error) {
	var out []Result
	for rows.Next() {
		var res Result
		var diff string
		err := rows.Scan(&res.ID, &res.UserID, &diff, &res.Day, &res.Minutes, &res.Seconds, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		res.Difficulty = Difficulty(diff)
		out = append(out, res)
	}
	return out, rows.Err()
}
