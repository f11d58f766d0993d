package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled task. Its context is cancelled on Stop.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// NewScheduler builds a scheduler whose specs include a seconds field.
func NewScheduler(timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
}

// Add registers job under name at spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		log := logging.FromContext(s.ctx)
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			log.LogErrorf("jobs."+name, "%s failed: %v", name, err)
			return
		}
		log.LogInfof("jobs."+name, "%s completed in %s", name, time.Since(started))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.FromContext(s.ctx).LogInfof("jobs.start", "Cron scheduler started with %d job(s)", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
