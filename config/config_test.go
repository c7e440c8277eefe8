package config

import (
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultParams(t *testing.T) {
	v := Vault{
		Token:              "X",
		Feed:               "x-usd",
		Decimals:           18,
		ReserveRatio:       number.Decimal("0.2"),
		FeeToProtocolRate:  number.Decimal("0.1"),
		OptimalUtilization: number.Decimal("0.8"),
		Slope1:             number.Decimal("0.04"),
		Slope2:             number.Decimal("3"),
	}

	p, err := v.Params()
	require.Nil(t, err)
	assert.Equal(t, core.RateParams{
		ReserveRatio:       20000,
		FeeToProtocolRate:  10000,
		OptimalUtilization: 8e17,
		Slope1:             4e16,
		Slope2:             3e18,
	}, p)

	v.BaseRate = number.Decimal("-0.01")
	_, err = v.Params()
	assert.ErrorIs(t, err, core.ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	cfg := &Config{App: App{Genesis: 1_600_000_000}}
	defaults(cfg)
	assert.Nil(t, Validate(cfg))
	assert.Equal(t, int64(15), cfg.App.SecondsPerStep)

	cfg.Vaults = []Vault{{Token: "X", Feed: "x-usd", ReserveRatio: number.Decimal("1.5"), OptimalUtilization: number.Decimal("0.8")}}
	assert.ErrorIs(t, Validate(cfg), core.ErrInvalidParams)

	cfg.Vaults = nil
	cfg.Pool.Pauser = "redis"
	assert.NotNil(t, Validate(cfg))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, 30*time.Second, Duration("30s", time.Minute))
	assert.Equal(t, time.Minute, Duration("soon", time.Minute))
}

func TestValidateBalances(t *testing.T) {
	cfg := &Config{App: App{Genesis: 1_600_000_000}}
	defaults(cfg)

	cfg.Bank.Balances = []Balance{{Token: "X", User: "alice", Amount: "1000"}}
	assert.Nil(t, Validate(cfg))

	cfg.Bank.Balances = []Balance{{Token: "X", User: "alice", Amount: "1e3"}}
	assert.NotNil(t, Validate(cfg))
}

func TestValidateStepLength(t *testing.T) {
	cfg := &Config{App: App{Genesis: 1_600_000_000, SecondsPerStep: 5}}
	defaults(cfg)
	assert.ErrorIs(t, Validate(cfg), core.ErrInvalidParams)

	cfg.App.SecondsPerStep = 15
	assert.Nil(t, Validate(cfg))
}
