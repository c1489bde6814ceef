package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pipstracker/internal/db/postgres"
	"pipstracker/internal/features/results"
)

// --- stubs ---

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(context.Context) error          { t.commits++; return nil }
func (t *fakeTx) Rollback(context.Context) error        { t.rollbacks++; return nil }
func (t *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                         { return nil }

type fakeDB struct {
	tx     fakeTx
	begins int
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.begins++
	return &f.tx, nil
}

type fakePassLedger struct {
	worst     map[results.Difficulty]*results.Result
	missing   map[results.Difficulty][]int64
	backfills map[results.Difficulty]int
	worstErr  error
}

func (f *fakePassLedger) WorstOfDayIn(_ context.Context, _ postgres.Querier, _ time.Time, d results.Difficulty) (*results.Result, error) {
	if f.worstErr != nil {
		return nil, f.worstErr
	}
	return f.worst[d], nil
}

func (f *fakePassLedger) BackfillMissingIn(_ context.Context, _ postgres.Querier, _ time.Time, d results.Difficulty, _, _ int) ([]int64, error) {
	if f.backfills == nil {
		f.backfills = make(map[results.Difficulty]int)
	}
	f.backfills[d]++
	return f.missing[d], nil
}

type fakeResetter struct {
	resets [][]int64
}

func (f *fakeResetter) ResetStreaksIn(_ context.Context, _ postgres.Querier, ids []int64) error {
	if len(ids) > 0 {
		f.resets = append(f.resets, ids)
	}
	return nil
}

// --- helpers ---

func worstAll(minutes int) map[results.Difficulty]*results.Result {
	out := make(map[results.Difficulty]*results.Result)
	for _, d := range results.Difficulties {
		out[d] = &results.Result{Difficulty: d, Minutes: minutes, Seconds: 30}
	}
	return out
}

func newTestService(db *fakeDB, ledger *fakePassLedger, users *fakeResetter, at time.Time) *Service {
	s := NewService(db, ledger, users, time.UTC)
	s.now = func() time.Time { return at }
	return s
}

// --- tests ---

var reconcileAt = time.Date(2025, 7, 10, 1, 0, 0, 0, time.UTC)

func TestEnsureReconciled_BackfillsAndResets(t *testing.T) {
	db := &fakeDB{}
	ledger := &fakePassLedger{
		worst: worstAll(9),
		missing: map[results.Difficulty][]int64{
			results.Easy:   {2},
			results.Medium: {2, 3},
		},
	}
	users := &fakeResetter{}
	s := newTestService(db, ledger, users, reconcileAt)

	if err := s.EnsureReconciled(context.Background()); err != nil {
		t.Fatalf("EnsureReconciled: %v", err)
	}

	total := 0
	for _, ids := range users.resets {
		total += len(ids)
	}
	if total != 3 {
		t.Errorf("reset %d streaks, want 3", total)
	}
	for _, d := range results.Difficulties {
		if ledger.backfills[d] != 1 {
			t.Errorf("backfill for %s ran %d times, want 1", d, ledger.backfills[d])
		}
	}
	if db.tx.commits != 1 {
		t.Errorf("pass committed %d times, want 1", db.tx.commits)
	}
}

func TestEnsureReconciled_SkipsEmptyDifficulty(t *testing.T) {
	db := &fakeDB{}
	// Nobody played Hard yesterday: no worst time exists for it.
	worst := worstAll(9)
	delete(worst, results.Hard)
	ledger := &fakePassLedger{worst: worst}
	s := newTestService(db, ledger, &fakeResetter{}, reconcileAt)

	if err := s.EnsureReconciled(context.Background()); err != nil {
		t.Fatalf("EnsureReconciled: %v", err)
	}
	if ledger.backfills[results.Hard] != 0 {
		t.Error("empty difficulty must be skipped, not backfilled")
	}
	if ledger.backfills[results.Easy] != 1 || ledger.backfills[results.Medium] != 1 {
		t.Error("played difficulties must still be backfilled")
	}
	if db.tx.commits != 1 {
		t.Errorf("pass committed %d times, want 1", db.tx.commits)
	}
}

func TestEnsureReconciled_OncePerDay(t *testing.T) {
	db := &fakeDB{}
	ledger := &fakePassLedger{worst: worstAll(9)}
	s := newTestService(db, ledger, &fakeResetter{}, reconcileAt)

	for i := 0; i < 3; i++ {
		if err := s.EnsureReconciled(context.Background()); err != nil {
			t.Fatalf("EnsureReconciled: %v", err)
		}
	}
	if db.begins != 1 {
		t.Errorf("pass ran %d times for one day, want 1", db.begins)
	}
}

func TestEnsureReconciled_NothingMissingResetsNobody(t *testing.T) {
	// Everybody played yesterday: backfill finds no rows to insert and no
	// streak is touched on a rerun of the same data.
	db := &fakeDB{}
	ledger := &fakePassLedger{worst: worstAll(9)}
	users := &fakeResetter{}
	s := newTestService(db, ledger, users, reconcileAt)

	if err := s.EnsureReconciled(context.Background()); err != nil {
		t.Fatalf("EnsureReconciled: %v", err)
	}
	if len(users.resets) != 0 {
		t.Errorf("streaks reset with nothing to backfill: %v", users.resets)
	}
}

func TestEnsureReconciled_FailureRollsBackAndRetries(t *testing.T) {
	db := &fakeDB{}
	ledger := &fakePassLedger{worst: worstAll(9), worstErr: errors.New("db down")}
	s := newTestService(db, ledger, &fakeResetter{}, reconcileAt)

	if err := s.EnsureReconciled(context.Background()); err == nil {
		t.Fatal("expected the pass to fail")
	}
	if db.tx.commits != 0 {
		t.Error("failed pass must not commit")
	}
	if db.tx.rollbacks == 0 {
		t.Error("failed pass must roll back its transaction")
	}

	// Marker did not advance: the next trigger reruns the pass.
	ledger.worstErr = nil
	if err := s.EnsureReconciled(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if db.begins != 2 {
		t.Errorf("pass began %d times, want 2 (failure then retry)", db.begins)
	}
	if db.tx.commits != 1 {
		t.Errorf("retry committed %d times, want 1", db.tx.commits)
	}
}
