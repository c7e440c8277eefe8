package pauser

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/spf13/cast"
)

const (
	globalKey = "pause:global"
	keyPrefix = "pause:"
)

type propertyPauser struct {
	journal
	store property.Store
}

// Property pause flags kept in the property store so they survive restarts
func Property(store property.Store) core.Pauser {
	return &propertyPauser{store: store}
}

func key(scope string) string {
	if scope == core.GlobalScope {
		return globalKey
	}

	return keyPrefix + scope
}

func (p *propertyPauser) Paused(ctx context.Context, scope string) (bool, error) {
	v, err := p.store.Get(ctx, key(scope))
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("property.Get", key(scope))
		return false, err
	}

	return cast.ToBool(v.String()), nil
}

func (p *propertyPauser) SetPaused(ctx context.Context, scope string, paused bool) error {
	prev, err := p.Paused(ctx, scope)
	if err != nil {
		return err
	}

	if err := p.store.Save(ctx, key(scope), cast.ToString(paused)); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("property.Save", key(scope))
		return err
	}

	p.record(scope, prev)
	return nil
}

// RevertToSnapshot writes back the flags saved before the snapshot
func (p *propertyPauser) RevertToSnapshot(id int) {
	ctx := context.Background()
	for _, e := range p.since(id) {
		if err := p.store.Save(ctx, key(e.scope), cast.ToString(e.prev)); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("property.Save", key(e.scope))
		}
	}
}
