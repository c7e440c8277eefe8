package feed

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type ticker struct {
	Symbol    string          `json:"symbol,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type httpFeed struct {
	endpoint string
}

// HTTP feed pulling tickers from a price service
func HTTP(endpoint string) core.PriceFeed {
	return &httpFeed{endpoint: endpoint}
}

func (f *httpFeed) Latest(ctx context.Context, feed string) (*core.PriceRound, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s", f.endpoint, feed)
	logger.FromContext(ctx).Debugln("pull price:", url)

	var t ticker
	if err := resthttp.GetJSON(ctx, url, &t); err != nil {
		return nil, err
	}

	return &core.PriceRound{
		Feed:      feed,
		Price:     t.Price,
		UpdatedAt: time.Unix(t.Timestamp, 0),
	}, nil
}
