package pool

import (
	"context"
	"errors"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/logger"
)

// errNoop ends a unit of work without error and without effects
var errNoop = errors.New("pool: nothing to do")

type txKey struct{}

type snapshot struct {
	ledger    int
	reverters []int
	events    int
}

// atomic runs fn as one unit of work. Any error unwinds the ledger, the
// buffered events and every collaborator implementing core.Reverter.
//
// Calls reaching the pool again through a transfer callback must pass on the
// context they were given, they then join the running unit of work instead
// of waiting for it.
func (p *Pool) atomic(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if p.inTx(ctx) {
		return p.run(ctx, fn)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	ctx = context.WithValue(ctx, txKey{}, p)
	log := logger.FromContext(ctx).WithField("op", op)

	s := p.snapshot()
	err := p.run(ctx, fn)
	if err == nil {
		if err = p.commit(ctx); err != nil {
			p.revert(s)
			log.WithError(err).Error("commit")
		}
	}

	switch {
	case err == nil, errors.Is(err, errNoop):
	case core.KindOf(err) == core.KindUnknown, core.KindOf(err) == core.KindOverflow:
		log.WithError(err).Error(op)
	default:
		log.WithError(err).Info(op)
	}

	p.metrics.ObserveOperation(op, result(err), time.Since(start).Seconds())
	return err
}

// read runs fn with the pool locked, or directly inside a unit of work
func (p *Pool) read(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.inTx(ctx) {
		return fn(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(ctx)
}

func (p *Pool) inTx(ctx context.Context) bool {
	tx, _ := ctx.Value(txKey{}).(*Pool)
	return tx == p
}

func (p *Pool) run(ctx context.Context, fn func(ctx context.Context) error) error {
	s := p.snapshot()
	if err := fn(ctx); err != nil {
		p.revert(s)
		return err
	}

	return nil
}

func (p *Pool) snapshot() snapshot {
	s := snapshot{
		ledger:    p.ledger.Snapshot(),
		reverters: make([]int, len(p.reverters)),
		events:    len(p.events),
	}

	for i, r := range p.reverters {
		s.reverters[i] = r.Snapshot()
	}

	return s
}

func (p *Pool) revert(s snapshot) {
	p.ledger.RevertToSnapshot(s.ledger)
	for i := len(p.reverters) - 1; i >= 0; i-- {
		p.reverters[i].RevertToSnapshot(s.reverters[i])
	}
	p.events = p.events[:s.events]
}

func (p *Pool) commit(ctx context.Context) error {
	changes := p.ledger.Pending()
	changes.Events = p.events

	if p.committer != nil {
		if err := p.committer.Commit(ctx, changes); err != nil {
			return err
		}
	}

	p.ledger.Commit()
	for _, r := range p.reverters {
		r.Commit()
	}

	events := p.events
	p.events = nil

	for _, e := range events {
		if a, ok := e.(*core.AccruedInterest); ok {
			f, _ := number.ToDecimal(a.Interest, 0).Float64()
			p.metrics.AddInterest(a.Token, f)
		}
	}

	if len(events) > 0 {
		p.sink.Emit(ctx, events)
	}

	return nil
}

func (p *Pool) emit(events ...core.Event) {
	p.events = append(p.events, events...)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errNoop):
		return "noop"
	default:
		return string(core.KindOf(err))
	}
}
