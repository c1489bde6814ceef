// Package jobs runs background tasks on a cron schedule.
// The daily reconciliation pass is primarily request-triggered; the cron
// entry is the safety net that runs it shortly after midnight even on
// days with no early traffic.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/features/reconcile"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *reconcile.Service
}

// NewScheduler creates the scheduler in the reference time zone, so the
// midnight run lines up with the day boundary used everywhere else.
func NewScheduler(reconciler *reconcile.Service, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		reconciler: reconciler,
	}
}

// Start registers and launches the jobs.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc("5 0 * * *", func() {
		log.Info("[CRON] Daily reconciliation")
		if err := s.reconciler.EnsureReconciled(ctx); err != nil {
			log.WithError(err).Error("[CRON] Reconciliation failed")
		}
	})

	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}
