package store

import (
	"context"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"
	"lendpool/store/ledger"
	"lendpool/store/token"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryVaults struct {
	vaults []*core.Vault
	tokens []*core.SupportedToken
}

func (m *memoryVaults) Save(context.Context, *db.DB, *core.Vault) error { return nil }

func (m *memoryVaults) SaveToken(context.Context, *db.DB, *core.SupportedToken) error { return nil }

func (m *memoryVaults) List(context.Context) ([]*core.Vault, error) { return m.vaults, nil }

func (m *memoryVaults) ListTokens(context.Context) ([]*core.SupportedToken, error) {
	return m.tokens, nil
}

type memoryPositions struct {
	positions []*core.Position
}

func (m *memoryPositions) Save(context.Context, *db.DB, *core.Position) error { return nil }

func (m *memoryPositions) List(context.Context) ([]*core.Position, error) { return m.positions, nil }

func (m *memoryPositions) ListUser(context.Context, string) ([]*core.Position, error) {
	return nil, nil
}

func TestEventLogs(t *testing.T) {
	trace := "b0f0a0e4-6f3c-4d0e-9f58-6a3f5d3c2b1a"
	events := []core.Event{
		&core.Deposit{User: "alice", Token: "X", Amount: number.U(10), Shares: number.U(10)},
		&core.Liquidated{
			Liquidator:       "carol",
			Borrower:         "bob",
			CollateralToken:  "Y",
			DebtToken:        "X",
			Repaid:           number.U(5),
			Seized:           number.U(2),
			Bonus:            number.U(1),
			DebtShares:       number.U(5),
			CollateralShares: number.U(3),
		},
	}

	logs, err := EventLogs(trace, events)
	require.Nil(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, core.EventDeposit, logs[0].Name)
	assert.Equal(t, "X", logs[0].Token)
	assert.JSONEq(t, `{"user":"alice","token":"X","amount":"10","shares":"10"}`, logs[0].Data.String())

	assert.Equal(t, core.EventLiquidated, logs[1].Name)
	assert.Equal(t, "X", logs[1].Token)
	assert.NotEqual(t, logs[0].TraceID, logs[1].TraceID)

	again, err := EventLogs(trace, events)
	require.Nil(t, err)
	assert.Equal(t, logs[1].TraceID, again[1].TraceID)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	v := core.NewVault("X", core.RateParams{OptimalUtilization: 8e17}, core.Tick{Step: 7, Time: time.Unix(1_700_000_000, 0)})
	v.TotalAsset = core.Balance{Amount: number.U(100), Shares: number.U(90)}

	p := core.NewPosition("alice", "X")
	p.CollateralShares = number.U(90)

	vaults := &memoryVaults{
		vaults: []*core.Vault{v},
		tokens: []*core.SupportedToken{{Token: "X", Feed: "x-usd", Decimals: 18}},
	}
	positions := &memoryPositions{positions: []*core.Position{p}}

	l := ledger.New()
	tokens := token.New(&core.SupportedToken{Token: "X", Feed: "stale", Decimals: 18})
	require.Nil(t, Restore(ctx, vaults, positions, l, tokens))

	got, ok := l.Vault("X")
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.Equal(t, number.U(90), l.Position("alice", "X").CollateralShares)
	assert.Nil(t, l.Verify())

	found, err := tokens.Find(ctx, "X")
	require.Nil(t, err)
	assert.Equal(t, "x-usd", found.Feed)
}
