package oracle

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type service struct {
	tokens core.TokenRegistry
	feed   core.PriceFeed
	clock  core.Clock
	maxAge time.Duration
}

// Option oracle option
type Option func(s *service)

// WithMaxAge overrides the staleness window
func WithMaxAge(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// New price oracle reading the feed registered for each token
func New(tokens core.TokenRegistry, feed core.PriceFeed, clock core.Clock, opts ...Option) core.PriceOracle {
	s := &service{
		tokens: tokens,
		feed:   feed,
		clock:  clock,
		maxAge: compound.PriceMaxAge,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Price USD price of token with 18 decimals
func (s *service) Price(ctx context.Context, token string) (*uint256.Int, error) {
	log := logger.FromContext(ctx).WithField("token", token)

	t, err := s.tokens.Find(ctx, token)
	if err != nil {
		return nil, err
	}

	round, err := s.feed.Latest(ctx, t.Feed)
	if err != nil {
		log.WithError(err).Errorln("feed.Latest", t.Feed)
		return nil, core.WrapError(core.ErrInvalidPrice, err)
	}

	if !round.Price.IsPositive() {
		return nil, core.NewError(core.ErrInvalidPrice, "%s price %s is not positive", token, round.Price)
	}

	if age := s.clock.Now().Time.Sub(round.UpdatedAt); age > s.maxAge {
		return nil, core.NewError(core.ErrStalePrice, "%s price updated %s ago", token, age.Truncate(time.Second))
	}

	price, err := number.FromDecimal(round.Price, compound.PriceDecimals)
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidPrice, err)
	}

	if price.IsZero() {
		return nil, core.NewError(core.ErrInvalidPrice, "%s price %s below precision", token, round.Price)
	}

	return price, nil
}
