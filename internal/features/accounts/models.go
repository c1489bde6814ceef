// Package accounts owns the users table: registration, login and the two
// streak fields (current_streak, last_played) that the achievement engine
// reads and writes.
package accounts

import "time"

// User is one registered player.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	// CurrentStreak counts consecutive days on which the user completed
	// all three difficulties. Reset to 0 by the reconciler on a missed day.
	CurrentStreak int `db:"current_streak"`
	// LastPlayed is the most recent day with a full three-difficulty
	// completion. Nil until the first completion.
	LastPlayed *time.Time `db:"last_played"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
