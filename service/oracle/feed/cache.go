package feed

import (
	"context"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wraps feed, rounds are reused for exp and concurrent misses share one request
func Cache(feed core.PriceFeed, exp time.Duration) core.PriceFeed {
	return &cacheFeed{
		PriceFeed: feed,
		cache:     gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:        &singleflight.Group{},
	}
}

type cacheFeed struct {
	core.PriceFeed
	cache gcache.Cache
	sf    *singleflight.Group
}

func (f *cacheFeed) Latest(ctx context.Context, feed string) (*core.PriceRound, error) {
	if v, err := f.cache.Get(feed); err == nil {
		if round, ok := v.(*core.PriceRound); ok {
			return round, nil
		}
	}

	v, err, _ := f.sf.Do(feed, func() (interface{}, error) {
		round, err := f.PriceFeed.Latest(ctx, feed)
		if err != nil {
			return nil, err
		}

		_ = f.cache.Set(feed, round)
		return round, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.PriceRound), nil
}
