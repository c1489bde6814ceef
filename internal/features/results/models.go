// Package results is the ledger of daily puzzle completions.
// One row per (user, difficulty, day); rows are append-only; a recorded
// result is never updated or deleted, and duplicates are rejected by a
// uniqueness constraint.
package results

import (
	"fmt"
	"time"

	"pipstracker/internal/common"
)

// Difficulty is one of the three submittable puzzle tiers.
// A fourth tier ("Extreme") exists only as a badge category and is
// deliberately absent here.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists every submittable tier, in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownDifficulty, s)
}

// Result is one completion record. Created either by a user submission or
// by the reconciler as a synthetic penalty record.
type Result struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	Difficulty Difficulty `db:"difficulty"`
	Day        time.Time  `db:"day"`
	Minutes    int        `db:"minutes"`
	Seconds    int        `db:"seconds"`
	CreatedAt  time.Time  `db:"created_at"`
}

// TotalSeconds collapses the minutes:seconds pair into a single comparable value.
func (r Result) TotalSeconds() int {
	return r.Minutes*60 + r.Seconds
}

// Submission is one validated (difficulty, minutes, seconds) tuple from the
// HTTP gateway.
type Submission struct {
	Difficulty Difficulty
	Minutes    int
	Seconds    int
}

// Validate checks the time fields. Difficulty is validated separately by
// ParseDifficulty before a Submission is built.
func (s Submission) Validate() error {
	if s.Minutes < 0 || s.Seconds < 0 || s.Seconds > 59 {
		return fmt.Errorf("%w: %d:%02d", common.ErrInvalidTime, s.Minutes, s.Seconds)
	}
	return nil
}

// NewBadge describes a badge awarded during one submission, returned to the
// caller for one-shot display. Not persisted as pending state.
type NewBadge struct {
	Name     string `json:"name"`
	Category int    `json:"category"`
}

// StatsRow is one entry of the all-results listing used by the stats page.
type StatsRow struct {
	Username   string     `json:"username"`
	Difficulty Difficulty `json:"difficulty"`
	Day        time.Time  `json:"day"`
	Minutes    int        `json:"minutes"`
	Seconds    int        `json:"seconds"`
}
