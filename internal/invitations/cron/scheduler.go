package cronjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

// Reconciler runs one placeholder-linking pass.
type Reconciler interface {
	Sweep(ctx context.Context, limiter *rate.Limiter) (int, error)
}

// Scheduler periodically runs the reconciliation sweep.
type Scheduler struct {
	reconciler Reconciler
	schedule   string
	c          *cron.Cron
}

func NewScheduler(reconciler Reconciler, schedule string) *Scheduler {
	return &Scheduler{reconciler: reconciler, schedule: schedule}
}

// Start initializes the cron task.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	log.Printf("CRON: reconciliation sweep scheduled (%s)", s.schedule)
	c.Start()
	s.c = c
	return nil
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(5), 10)
	linked, err := s.reconciler.Sweep(ctx, limiter)
	if err != nil {
		log.Printf("CRON: reconciliation sweep failed: %v", err)
		return
	}
	if linked > 0 {
		log.Printf("CRON: reconciliation sweep linked %d placeholder(s)", linked)
	}
}
