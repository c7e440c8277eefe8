package accrual

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
)

// Pool the part of the pool the accrual worker drives
type Pool interface {
	Vaults(ctx context.Context) []*core.Vault
	AccrueInterest(ctx context.Context, token string) (*compound.Accrual, error)
}

// Config accrual worker config
type Config struct {
	Interval time.Duration
	Location *time.Location
}

// Worker brings every vault up to the current step on a schedule, so idle
// vaults do not fall behind and rates track utilization
type Worker struct {
	worker.CronWorker
	pool Pool
}

// New new accrual worker
func New(pool Pool, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	return &Worker{
		CronWorker: worker.CronWorker{
			Spec:     worker.Every(cfg.Interval),
			Location: cfg.Location,
		},
		pool: pool,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartCron(ctx, w.onWork)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	var failed error
	for _, v := range w.pool.Vaults(ctx) {
		a, err := w.pool.AccrueInterest(ctx, v.Token)
		if err != nil {
			log.WithError(err).Errorln("accrue", v.Token)
			failed = err
			continue
		}

		if a.Accrued {
			log.Debugf("%s accrued %d steps, interest %s", v.Token, a.ElapsedSteps, a.Interest)
		}
	}

	return failed
}
