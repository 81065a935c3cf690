package scheduler

import (
	"context"
	"log"
	"time"

	"wordrealm/internal/game"
	"wordrealm/internal/service"
)

// rolloverHour and rolloverMinute place the nightly sweep just after
// midnight in the campaign timezone, so a finished final day is rolled
// over before anyone wakes up to play.
const (
	rolloverHour   = 0
	rolloverMinute = 5
)

// Scheduler runs the nightly campaign rollover
type Scheduler struct {
	lifecycle *service.LifecycleService
}

// New creates a new scheduler
func New(lifecycle *service.LifecycleService) *Scheduler {
	return &Scheduler{lifecycle: lifecycle}
}

// Run blocks until ctx is cancelled, sweeping expired campaigns once at
// startup and then every night after the rollover time.
func (s *Scheduler) Run(ctx context.Context) {
	s.sweep(ctx)

	for {
		wait := time.Until(nextRollover(time.Now()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	count, err := s.lifecycle.ResetExpired(ctx, time.Now())
	if err != nil {
		log.Printf("campaign reset sweep: %v", err)
		return
	}
	if count > 0 {
		log.Printf("campaign reset sweep: %d campaign(s) rolled over", count)
	}
}

// nextRollover returns the next occurrence of the rollover time in the
// campaign timezone
func nextRollover(now time.Time) time.Time {
	loc := game.Location()
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), rolloverHour, rolloverMinute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
