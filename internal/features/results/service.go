// service.go: read-side queries over the ledger for the display layer.
package results

import (
	"context"
	"time"

	"pipstracker/internal/common"
)

// Service answers the display layer's read-only questions: what did the
// user already submit today, and what was the worst time per difficulty.
type Service struct {
	repo *Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates the read-side service for the given reference zone.
func NewService(repo *Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// Today returns the current calendar day in the reference zone.
func (s *Service) Today() time.Time {
	return common.DayOf(s.now(), s.loc)
}

// SubmittedToday reports, per difficulty, whether the user already has a
// result for today. Mirrors the submit-page pre-fill.
func (s *Service) SubmittedToday(ctx context.Context, userID int64) (map[Difficulty]bool, error) {
	submitted := make(map[Difficulty]bool, len(Difficulties))
	for _, d := range Difficulties {
		submitted[d] = false
	}
	rows, err := s.repo.ByUserAndDay(ctx, userID, s.Today())
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		submitted[r.Difficulty] = true
	}
	return submitted, nil
}

// WorstForDay returns the slowest result per difficulty for one day.
// Difficulties nobody played are absent from the map.
func (s *Service) WorstForDay(ctx context.Context, day time.Time) (map[Difficulty]*Result, error) {
	out := make(map[Difficulty]*Result)
	for _, d := range Difficulties {
		worst, err := s.repo.WorstOfDay(ctx, day, d)
		if err != nil {
			return nil, err
		}
		if worst != nil {
			out[d] = worst
		}
	}
	return out, nil
}

// AllResults lists every recorded result, oldest first.
func (s *Service) AllResults(ctx context.Context) ([]StatsRow, error) {
	return s.repo.ListAll(ctx)
}
