package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PriceRound latest answer of a price feed
type PriceRound struct {
	Feed      string          `json:"feed"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceFeed upstream source of USD prices
type PriceFeed interface {
	Latest(ctx context.Context, feed string) (*PriceRound, error)
}

// PriceOracle USD price of a token, normalized to 18 decimals
type PriceOracle interface {
	Price(ctx context.Context, token string) (*uint256.Int, error)
}
