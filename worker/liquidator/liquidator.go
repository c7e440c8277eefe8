package liquidator

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/metric"
	"lendpool/pkg/number"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool the part of the pool the liquidator watches and acts on
type Pool interface {
	Borrowers(ctx context.Context) []string
	UserData(ctx context.Context, user string) (*core.UserData, error)
	ToAssetAmount(ctx context.Context, token string, shares *uint256.Int, roundUp bool) (*uint256.Int, error)
	ToBorrowAmount(ctx context.Context, token string, shares *uint256.Int, roundUp bool) (*uint256.Int, error)
	USDValue(ctx context.Context, token string, amount *uint256.Int) (*uint256.Int, error)
	MaxLiquidatable(ctx context.Context, borrower, debtToken string) (*uint256.Int, error)
	Liquidate(ctx context.Context, liquidator, borrower, collateralToken, debtToken string, amount *uint256.Int) (*core.Liquidated, error)
}

// Config liquidator config
type Config struct {
	// Keeper account repaying debt, the worker only watches when empty
	Keeper   string
	Parallel int64
	Interval time.Duration
}

// Liquidator scans borrowers, publishes their health factor and liquidates
// the unhealthy ones on behalf of the keeper
type Liquidator struct {
	worker.TickWorker
	pool    Pool
	metrics *metric.Metrics
	cfg     Config
}

// New new liquidator
func New(pool Pool, metrics *metric.Metrics, cfg Config) *Liquidator {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}

	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}

	return &Liquidator{
		TickWorker: worker.TickWorker{
			Delay:    cfg.Interval,
			ErrDelay: cfg.Interval,
		},
		pool:    pool,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Run run worker
func (w *Liquidator) Run(ctx context.Context) error {
	return w.StartTick(ctx, w.onWork)
}

func (w *Liquidator) onWork(ctx context.Context) error {
	sem := semaphore.NewWeighted(w.cfg.Parallel)
	g := errgroup.Group{}

	for _, user := range w.pool.Borrowers(ctx) {
		user := user

		if err := sem.Acquire(ctx, 1); err != nil {
			return g.Wait()
		}

		g.Go(func() error {
			defer sem.Release(1)
			return w.handleBorrower(ctx, user)
		})
	}

	return g.Wait()
}

func (w *Liquidator) handleBorrower(ctx context.Context, user string) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"worker": "liquidator",
		"user":   user,
	})

	data, err := w.pool.UserData(ctx, user)
	if err != nil {
		log.WithError(err).Errorln("UserData")
		return err
	}

	hf := number.ToDecimal(data.HealthFactor, 18)
	w.metrics.SetHealthFactor(user, hf.InexactFloat64())

	if compound.IsHealthy(data.HealthFactor) || w.cfg.Keeper == "" || w.cfg.Keeper == user {
		return nil
	}

	collateral, debt, err := w.pick(ctx, data.Positions)
	if err != nil {
		log.WithError(err).Errorln("pick tokens")
		return err
	}

	if collateral == "" || debt == "" {
		return nil
	}

	amount, err := w.pool.MaxLiquidatable(ctx, user, debt)
	if err != nil {
		log.WithError(err).Errorln("MaxLiquidatable")
		return err
	}

	if amount.IsZero() {
		return nil
	}

	event, err := w.pool.Liquidate(ctx, w.cfg.Keeper, user, collateral, debt, amount)
	if err != nil {
		// another actor may have moved first, the next scan sees the new state
		if core.KindOf(err) == core.KindSolvency {
			log.WithError(err).Debugln("skip liquidation")
			return nil
		}

		log.WithError(err).Errorln("Liquidate")
		return err
	}

	if event != nil {
		log.Infof("liquidated %s %s against %s %s, health factor %s", event.Repaid, debt, event.Seized, collateral, hf)
	}

	return nil
}

// pick the collateral and the debt positions worth the most
func (w *Liquidator) pick(ctx context.Context, positions []*core.Position) (collateral, debt string, err error) {
	var maxCollateral, maxDebt uint256.Int

	for _, pos := range positions {
		if !pos.CollateralShares.IsZero() {
			value, err := w.worth(ctx, pos.Token, pos.CollateralShares, w.pool.ToAssetAmount)
			if err != nil {
				return "", "", err
			}

			if value.Gt(&maxCollateral) {
				maxCollateral.Set(value)
				collateral = pos.Token
			}
		}

		if !pos.BorrowShares.IsZero() {
			value, err := w.worth(ctx, pos.Token, pos.BorrowShares, w.pool.ToBorrowAmount)
			if err != nil {
				return "", "", err
			}

			if value.Gt(&maxDebt) {
				maxDebt.Set(value)
				debt = pos.Token
			}
		}
	}

	return collateral, debt, nil
}

type toAmount func(ctx context.Context, token string, shares *uint256.Int, roundUp bool) (*uint256.Int, error)

func (w *Liquidator) worth(ctx context.Context, token string, shares *uint256.Int, fn toAmount) (*uint256.Int, error) {
	amount, err := fn(ctx, token, shares, false)
	if err != nil {
		return nil, err
	}

	return w.pool.USDValue(ctx, token, amount)
}
