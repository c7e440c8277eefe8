package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a function repeatedly, waiting Delay after a success and
// ErrDelay after a failure
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick blocks until ctx is done
func (w TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	dur := time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onTick(ctx); err != nil {
				dur = w.ErrDelay
			} else {
				dur = w.Delay
			}
		}
	}
}

// CronWorker runs a function on a cron schedule, skipping a run while the
// previous one is still going
type CronWorker struct {
	Spec     string
	Location *time.Location
}

// StartCron blocks until ctx is done
func (w CronWorker) StartCron(ctx context.Context, onWork func(ctx context.Context) error) error {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.Spec, func() {
		_ = onWork(ctx)
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// Every cron spec running once per d
func Every(d time.Duration) string {
	return "@every " + d.String()
}
