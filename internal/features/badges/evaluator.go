// evaluator.go: the streak and achievement engine, run synchronously on
// every submission. Phase 1 evaluates per-result time badges; phase 2
// fires once all three difficulties are in for the day and handles the
// combo badge, the streak update, milestones and the early-bird badge.
package badges

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"pipstracker/internal/common"
	"pipstracker/internal/features/accounts"
	"pipstracker/internal/features/results"
)

// Ledger is the slice of the results repository the evaluator needs.
type Ledger interface {
	Insert(ctx context.Context, userID int64, d results.Difficulty, day time.Time, minutes, seconds int) (*results.Result, error)
	ByUserAndDay(ctx context.Context, userID int64, day time.Time) ([]results.Result, error)
	HardTotalsBetween(ctx context.Context, userID int64, from, to time.Time) ([]int, error)
}

// UserStore is the slice of the accounts repository the evaluator needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*accounts.User, error)
	UpdateStreak(ctx context.Context, userID int64, streak int, lastPlayed time.Time) error
}

// Awarder grants badges idempotently, reporting whether an award is new.
type Awarder interface {
	Award(ctx context.Context, userID int64, b Badge) (bool, error)
	Has(ctx context.Context, userID int64, b Badge) (bool, error)
}

// Evaluator owns all writes to current_streak, last_played and
// user_badges. It returns the badges newly awarded by one submission as
// an explicit value; nothing about the award set lives in request state.
type Evaluator struct {
	awards Awarder
	ledger Ledger
	users  UserStore
	loc    *time.Location
	now    func() time.Time
}

// NewEvaluator creates the evaluator for the given reference zone.
func NewEvaluator(awards Awarder, ledger Ledger, users UserStore, loc *time.Location) *Evaluator {
	return &Evaluator{
		awards: awards,
		ledger: ledger,
		users:  users,
		loc:    loc,
		now:    time.Now,
	}
}

// SubmitResults persists the validated tuples for today and evaluates the
// badge rules. Duplicate difficulties for the day are dropped silently;
// the ledger never updates in place. Every rule and write past the insert
// loop is idempotent, so a retried submission re-evaluates the completed
// day safely. Implements results.Evaluator.
func (e *Evaluator) SubmitResults(ctx context.Context, userID int64, subs []results.Submission) ([]results.NewBadge, error) {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := common.DayOf(e.now(), e.loc)

	var inserted []results.Result
	for _, sub := range subs {
		r, err := e.ledger.Insert(ctx, userID, sub.Difficulty, today, sub.Minutes, sub.Seconds)
		if errors.Is(err, common.ErrDuplicateResult) {
			log.WithFields(log.Fields{
				"user_id":    userID,
				"difficulty": sub.Difficulty,
			}).Debug("Duplicate submission dropped")
			continue
		}
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, *r)
	}

	// No early return when every tuple was a duplicate: phase 2 is
	// idempotent, and a retried submission must be able to finish a day
	// whose first attempt failed after the inserts landed.
	var awarded []results.NewBadge

	// Phase 1: per-result time badges.
	for _, r := range inserted {
		if b, ok := TimeBadge(r.Difficulty, r.TotalSeconds()); ok {
			if err := e.award(ctx, userID, b, &awarded); err != nil {
				return nil, err
			}
		}
		if r.Difficulty == results.Hard && r.TotalSeconds() < primeLimitSeconds {
			if err := e.checkPrime(ctx, userID, today, &awarded); err != nil {
				return nil, err
			}
		}
	}

	// Phase 2: day-completion badges and the streak update. Penalty
	// records count as present for the completion gate.
	todays, err := e.ledger.ByUserAndDay(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if len(todays) < len(results.Difficulties) {
		return awarded, nil
	}

	if ComboQualifies(todays) {
		if err := e.award(ctx, userID, Catalog[Speedrun], &awarded); err != nil {
			return nil, err
		}
	}

	// The completion check gates the streak update; the last_played
	// comparison keeps it to at most once per day.
	streak := user.CurrentStreak
	if user.LastPlayed == nil || !common.SameDay(*user.LastPlayed, today, e.loc) {
		streak = NextStreak(user.LastPlayed, today, user.CurrentStreak, e.loc)
		if err := e.users.UpdateStreak(ctx, userID, streak, today); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"user_id": userID, "streak": streak}).Info("Streak updated")
	}

	// The milestone is evaluated outside the update guard so a retry can
	// still grant it when the streak write landed but the award did not.
	if b, ok := MilestoneBadge(streak); ok {
		if err := e.award(ctx, userID, b, &awarded); err != nil {
			return nil, err
		}
	}

	if EarlyBird(e.now(), e.loc) {
		if err := e.award(ctx, userID, Catalog[Precoz], &awarded); err != nil {
			return nil, err
		}
	}

	return awarded, nil
}

// checkPrime evaluates the five-consecutive-days Hard rule ending today.
// Holders skip the window query.
func (e *Evaluator) checkPrime(ctx context.Context, userID int64, today time.Time, awarded *[]results.NewBadge) error {
	held, err := e.awards.Has(ctx, userID, Catalog[Prime])
	if err != nil {
		return err
	}
	if held {
		return nil
	}
	from := today.AddDate(0, 0, -(primeStreakDays - 1))
	totals, err := e.ledger.HardTotalsBetween(ctx, userID, from, today)
	if err != nil {
		return err
	}
	if !PrimeQualifies(totals) {
		return nil
	}
	return e.award(ctx, userID, Catalog[Prime], awarded)
}

// award grants b once per user. A repeat award is absorbed by the
// uniqueness constraint and contributes nothing to the response.
func (e *Evaluator) award(ctx context.Context, userID int64, b Badge, awarded *[]results.NewBadge) error {
	fresh, err := e.awards.Award(ctx, userID, b)
	if err != nil {
		return fmt.Errorf("award %q: %w", b.Name, err)
	}
	if !fresh {
		return nil
	}
	log.WithFields(log.Fields{"user_id": userID, "badge": b.Name}).Info("Badge awarded")
	*awarded = append(*awarded, results.NewBadge{Name: b.Name, Category: b.Category})
	return nil
}
