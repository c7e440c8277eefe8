package config

import (
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Config lendpool config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Pool   Pool      `json:"pool"`
	Oracle Oracle    `json:"oracle"`
	Worker Worker    `json:"worker"`
	Server Server    `json:"server"`
	Vaults []Vault   `json:"vaults"`
	Bank   Bank      `json:"bank"`
}

// App clock config
type App struct {
	// Genesis unix seconds of step zero
	Genesis int64 `json:"genesis" valid:"required"`
	// SecondsPerStep must equal compound.SecondsPerStep, interest and price
	// staleness are both counted in steps of that length
	SecondsPerStep int64  `json:"seconds_per_step"`
	Location       string `json:"location"`
}

// Pool engine config
type Pool struct {
	ProtocolAccount string   `json:"protocol_account"`
	Account         string   `json:"account"`
	Admins          []string `json:"admins"`
	BootstrapPaused bool     `json:"bootstrap_paused"`
	// Pauser memory or property
	Pauser string `json:"pauser" valid:"in(memory|property)"`
}

// Oracle price feed config, a static feed seeded from the vault prices is
// used without an endpoint
type Oracle struct {
	Endpoint string `json:"endpoint" valid:"url,optional"`
	CacheTTL string `json:"cache_ttl"`
}

// Worker keeper config
type Worker struct {
	AccrualInterval    string `json:"accrual_interval"`
	LiquidatorInterval string `json:"liquidator_interval"`
	Keeper             string `json:"keeper"`
	Parallel           int    `json:"parallel"`
}

// Server http config
type Server struct {
	Port int `json:"port"`
	// Tokens bearer token to user
	Tokens map[string]string `json:"tokens"`
}

// Bank wallet balances credited to the in-memory bank at start up
type Bank struct {
	Balances []Balance `json:"balances"`
}

// Balance amount in base units of token held by user
type Balance struct {
	Token  string `json:"token" valid:"required"`
	User   string `json:"user" valid:"required"`
	Amount string `json:"amount" valid:"numeric,required"`
}

// Vault token config, ratios and rates are fractions
type Vault struct {
	Token              string          `json:"token" valid:"required"`
	Feed               string          `json:"feed" valid:"required"`
	Decimals           uint8           `json:"decimals"`
	Price              decimal.Decimal `json:"price"`
	ReserveRatio       decimal.Decimal `json:"reserve_ratio"`
	FeeToProtocolRate  decimal.Decimal `json:"fee_to_protocol_rate"`
	FlashFeeRate       decimal.Decimal `json:"flash_fee_rate"`
	OptimalUtilization decimal.Decimal `json:"optimal_utilization"`
	BaseRate           decimal.Decimal `json:"base_rate"`
	Slope1             decimal.Decimal `json:"slope1"`
	Slope2             decimal.Decimal `json:"slope2"`
}

// SupportedToken registry entry of v
func (v Vault) SupportedToken() *core.SupportedToken {
	return &core.SupportedToken{Token: v.Token, Feed: v.Feed, Decimals: v.Decimals}
}

// Params fixed point rate parameters, ratios in 1e5 and rates in 1e18
func (v Vault) Params() (core.RateParams, error) {
	var p core.RateParams
	fields := []struct {
		dst    *uint64
		value  decimal.Decimal
		places int32
	}{
		{&p.ReserveRatio, v.ReserveRatio, 5},
		{&p.FeeToProtocolRate, v.FeeToProtocolRate, 5},
		{&p.FlashFeeRate, v.FlashFeeRate, 5},
		{&p.OptimalUtilization, v.OptimalUtilization, 18},
		{&p.BaseRate, v.BaseRate, 18},
		{&p.Slope1, v.Slope1, 18},
		{&p.Slope2, v.Slope2, 18},
	}

	for _, f := range fields {
		x, err := number.FromDecimal(f.value, f.places)
		if err != nil {
			return p, core.WrapError(core.ErrInvalidParams, err)
		}

		if !x.IsUint64() {
			return p, core.NewError(core.ErrInvalidParams, "%s of %s out of range", f.value, v.Token)
		}

		*f.dst = x.Uint64()
	}

	return p, nil
}

// Duration parses a duration setting, fallback when empty or malformed
func Duration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}

	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}
