// Package reconcile backfills penalty results for users who skipped a day.
// The pass runs once per calendar day in the reference zone: per
// difficulty it takes yesterday's worst (slowest) time and inserts it for
// every user without a result, resetting their streaks. Difficulties
// nobody played are skipped entirely. The whole pass is one transaction.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/common"
	"pipstracker/internal/db/postgres"
	"pipstracker/internal/features/results"
)

// Ledger is the slice of the results repository the pass needs.
type Ledger interface {
	WorstOfDayIn(ctx context.Context, q postgres.Querier, day time.Time, d results.Difficulty) (*results.Result, error)
	BackfillMissingIn(ctx context.Context, q postgres.Querier, day time.Time, d results.Difficulty, minutes, seconds int) ([]int64, error)
}

// StreakResetter is the slice of the accounts repository the pass needs.
type StreakResetter interface {
	ResetStreaksIn(ctx context.Context, q postgres.Querier, userIDs []int64) error
}

// TxBeginner opens the transaction a pass runs in. Satisfied by
// *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service owns the reconciliation pass and its once-per-day gate.
type Service struct {
	db     TxBeginner
	ledger Ledger
	users  StreakResetter
	loc    *time.Location
	now    func() time.Time
	gate   dayGate
}

// NewService creates the reconciler for the given reference zone.
func NewService(db TxBeginner, ledger Ledger, users StreakResetter, loc *time.Location) *Service {
	return &Service{
		db:     db,
		ledger: ledger,
		users:  users,
		loc:    loc,
		now:    time.Now,
	}
}

// EnsureReconciled runs the backfill pass if it has not run yet today.
// Idempotent and safe under concurrent triggers; a failed pass leaves the
// day marker untouched so the next trigger retries.
func (s *Service) EnsureReconciled(ctx context.Context) error {
	today := common.DayOf(s.now(), s.loc)
	return s.gate.run(today, func() error {
		return s.runPass(ctx, today)
	})
}

// runPass backfills yesterday relative to today, inside one transaction.
func (s *Service) runPass(ctx context.Context, today time.Time) error {
	yesterday := today.AddDate(0, 0, -1)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning reconciliation: %w", err)
	}
	defer tx.Rollback(ctx)

	backfilled := 0
	for _, d := range results.Difficulties {
		worst, err := s.ledger.WorstOfDayIn(ctx, tx, yesterday, d)
		if err != nil {
			return err
		}
		if worst == nil {
			// Nobody played this difficulty yesterday: no penalty for
			// anyone, no streak resets on its account.
			log.WithFields(log.Fields{
				"day":        common.FormatDay(yesterday),
				"difficulty": d,
			}).Debug("No results yesterday, skipping difficulty")
			continue
		}

		userIDs, err := s.ledger.BackfillMissingIn(ctx, tx, yesterday, d, worst.Minutes, worst.Seconds)
		if err != nil {
			return err
		}
		if err := s.users.ResetStreaksIn(ctx, tx, userIDs); err != nil {
			return err
		}
		backfilled += len(userIDs)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reconciliation: %w", err)
	}

	log.WithFields(log.Fields{
		"day":        common.FormatDay(yesterday),
		"backfilled": backfilled,
	}).Info("Reconciliation pass finished")
	return nil
}
