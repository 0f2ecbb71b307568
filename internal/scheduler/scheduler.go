// Package scheduler runs the built-in cron triggers. The service stays fully
// usable from the external POST triggers; this just removes the need for an
// outside cron when one isn't available.
package scheduler

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron *cron.Cron
	log  hclog.Logger
}

func New(log hclog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// Add registers fn on a standard 5-field cron spec. Each firing gets its own
// bounded context.
func (s *Scheduler) Add(spec, name string, fn func(context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.log.Debug("cron job fired", "job", name)
		fn(ctx)
	})
	return err
}

// Run starts the cron loop and blocks until ctx is done, then waits for any
// in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stop := s.cron.Stop()
	<-stop.Done()
	return ctx.Err()
}
