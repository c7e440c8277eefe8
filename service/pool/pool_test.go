package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/internal/compound"
	pc "lendpool/pkg/compound"
	"lendpool/pkg/number"
	"lendpool/service/auth"
	"lendpool/service/bank"
	"lendpool/service/oracle"
	"lendpool/service/oracle/feed"
	"lendpool/service/pauser"
	"lendpool/store/ledger"
	"lendpool/store/token"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin = "admin"
	alice = "alice"
	bob   = "bob"
	carol = "carol"
)

var kinked = core.RateParams{
	ReserveRatio:       20000,
	FeeToProtocolRate:  10000,
	OptimalUtilization: 8e17,
	Slope1:             4e16,
	Slope2:             3e18,
}

type recorder struct {
	events []core.Event
}

func (r *recorder) Emit(_ context.Context, events []core.Event) {
	r.events = append(r.events, events...)
}

func (r *recorder) names() []string {
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.EventName())
	}
	return names
}

type env struct {
	pool   *Pool
	bank   *bank.Bank
	clock  *compound.ManualClock
	prices *feed.Static
	pauser core.Pauser
	sink   *recorder
}

func units(n uint64, decimals uint8) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), number.Pow10(decimals))
}

func newEnv(t *testing.T, opts ...Option) *env {
	ctx := context.Background()
	clock := compound.NewManualClock(time.Unix(1_700_000_000, 0), 100, 15*time.Second)
	prices := feed.NewStatic(clock)
	tokens := token.New()
	pause := pauser.Memory()
	b := bank.New("pool")
	sink := &recorder{}

	opts = append([]Option{WithEventSink(sink), WithProtocolAccount("treasury")}, opts...)
	p := New(ledger.New(), tokens, pause, oracle.New(tokens, prices, clock), b, auth.New([]string{admin}), clock, opts...)

	require.Nil(t, p.SetupVault(ctx, admin, &core.SupportedToken{Token: "X", Feed: "x-usd", Decimals: 18}, kinked, true))
	require.Nil(t, p.SetupVault(ctx, admin, &core.SupportedToken{Token: "Y", Feed: "y-usd", Decimals: 8}, kinked, true))

	prices.Set("x-usd", number.Decimal("1"))
	prices.Set("y-usd", number.Decimal("4"))

	require.Nil(t, b.Credit("X", alice, units(40, 18)))
	require.Nil(t, b.Credit("Y", bob, units(10, 8)))
	require.Nil(t, b.Credit("X", carol, units(30, 18)))

	sink.events = nil
	return &env{pool: p, bank: b, clock: clock, prices: prices, pauser: pause, sink: sink}
}

// alice supplies 40 X, bob supplies 10 Y worth 40 USD and borrows 20 X
func (e *env) open(t *testing.T) {
	ctx := context.Background()

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	require.Nil(t, err)

	_, err = e.pool.Supply(ctx, bob, "Y", units(10, 8), nil)
	require.Nil(t, err)

	_, err = e.pool.Borrow(ctx, bob, "X", units(20, 18))
	require.Nil(t, err)
}

func TestSupplyAndBorrow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	v, err := e.pool.Vault(ctx, "X")
	require.Nil(t, err)
	assert.Equal(t, units(40, 18), v.TotalAsset.Amount)
	assert.Equal(t, units(20, 18), v.TotalBorrow.Amount)
	assert.Equal(t, units(20, 18), v.TotalBorrow.Shares)

	assert.Equal(t, units(20, 18), e.bank.BalanceOf("X", "pool"))
	assert.Equal(t, units(20, 18), e.bank.BalanceOf("X", bob))

	hf, err := e.pool.HealthFactor(ctx, bob)
	require.Nil(t, err)
	assert.Equal(t, "1600000000000000000", hf.Dec())

	hf, err = e.pool.HealthFactor(ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, pc.HealthFactorNoDebt, hf)

	assert.Equal(t, []string{core.EventDeposit, core.EventDeposit, core.EventBorrow}, e.sink.names())
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestInterestOverOneYear(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)
	e.sink.events = nil

	e.clock.Advance(pc.StepsPerYear)
	a, err := e.pool.AccrueInterest(ctx, "X")
	require.Nil(t, err)
	assert.True(t, a.Accrued)
	assert.Equal(t, uint64(25e15), a.BorrowRate)
	assert.Equal(t, "500000000000000000", a.Interest.Dec())

	v, _ := e.pool.Vault(ctx, "X")
	assert.Equal(t, "20500000000000000000", v.TotalBorrow.Amount.Dec())
	assert.Equal(t, "40500000000000000000", v.TotalAsset.Amount.Dec())

	treasury := e.pool.Position(ctx, "treasury", "X")
	assert.Equal(t, "49382716049382716", treasury.CollateralShares.Dec())

	hf, err := e.pool.HealthFactor(ctx, bob)
	require.Nil(t, err)
	assert.Equal(t, "1560975609756097560", hf.Dec())
	assert.True(t, pc.IsHealthy(hf))
	assert.True(t, hf.Lt(pc.HealthFactorNoDebt))

	assert.Equal(t, []string{core.EventAccruedInterest, core.EventUpdateInterestRate}, e.sink.names())

	// a second accrual within the step changes nothing
	e.sink.events = nil
	a, err = e.pool.AccrueInterest(ctx, "X")
	require.Nil(t, err)
	assert.True(t, a.Skipped)
	assert.Empty(t, e.sink.events)
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestAccrueWhilePaused(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	require.Nil(t, e.pool.SetPaused(ctx, admin, "X", true))
	tick := e.clock.Advance(1000)

	a, err := e.pool.AccrueInterest(ctx, "X")
	require.Nil(t, err)
	assert.False(t, a.Accrued)
	assert.True(t, a.Interest.IsZero())

	v, _ := e.pool.Vault(ctx, "X")
	assert.Equal(t, units(20, 18), v.TotalBorrow.Amount)
	assert.Equal(t, tick.Step, v.RateInfo.LastAccrualStep)
}

func TestSupplySlippage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), units(41, 18))
	assert.ErrorIs(t, err, core.ErrSlippage)
	assert.ErrorIs(t, err, core.KindSlippage)

	v, _ := e.pool.Vault(ctx, "X")
	assert.True(t, v.TotalAsset.IsZero())
	assert.Equal(t, units(40, 18), e.bank.BalanceOf("X", alice))
	assert.Empty(t, e.sink.events)
}

func TestSupplyValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", uint256.NewInt(0), nil)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = e.pool.Supply(ctx, alice, "W", units(1, 18), nil)
	assert.ErrorIs(t, err, core.ErrTokenNotSupported)

	_, err = e.pool.Supply(ctx, alice, "X", units(41, 18), nil)
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.Nil(t, e.pool.ledger.Verify())

	v, _ := e.pool.Vault(ctx, "X")
	assert.True(t, v.TotalAsset.IsZero())
}

func TestPaused(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.Nil(t, e.pool.SetPaused(ctx, admin, core.GlobalScope, true))
	_, err := e.pool.Supply(ctx, alice, "X", units(1, 18), nil)
	assert.ErrorIs(t, err, core.ErrPaused)

	require.Nil(t, e.pool.SetPaused(ctx, admin, core.GlobalScope, false))
	require.Nil(t, e.pool.SetPaused(ctx, admin, "X", true))
	_, err = e.pool.Supply(ctx, alice, "X", units(1, 18), nil)
	assert.ErrorIs(t, err, core.ErrPaused)

	_, err = e.pool.Supply(ctx, bob, "Y", units(1, 8), nil)
	assert.Nil(t, err)

	err = e.pool.SetPaused(ctx, bob, "X", false)
	assert.ErrorIs(t, err, core.ErrOperationForbidden)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, WithBootstrapPaused(true))

	require.Nil(t, e.pool.Bootstrap(ctx))
	paused, err := e.pauser.Paused(ctx, core.GlobalScope)
	require.Nil(t, err)
	assert.True(t, paused)
	assert.Equal(t, []string{core.EventPauseUpdated}, e.sink.names())
}

func TestBorrowReserveRatio(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	require.Nil(t, err)
	_, err = e.pool.Supply(ctx, bob, "Y", units(10, 8), nil)
	require.Nil(t, err)

	// 40 X supplied, 8 X held in reserve
	_, err = e.pool.Borrow(ctx, bob, "X", units(33, 18))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)
	assert.ErrorIs(t, err, core.KindLiquidity)
	assert.True(t, e.bank.BalanceOf("X", bob).IsZero())
}

func TestBorrowUnhealthyRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	require.Nil(t, err)
	_, err = e.pool.Supply(ctx, bob, "Y", units(10, 8), nil)
	require.Nil(t, err)
	e.sink.events = nil

	// 30 USD of collateral supports 24 X of debt
	e.prices.Set("y-usd", number.Decimal("3"))
	_, err = e.pool.Borrow(ctx, bob, "X", units(25, 18))
	assert.ErrorIs(t, err, core.ErrInsufficientCollaterals)
	assert.ErrorIs(t, err, core.KindSolvency)

	assert.True(t, e.bank.BalanceOf("X", bob).IsZero())
	assert.Equal(t, units(40, 18), e.bank.BalanceOf("X", "pool"))
	assert.True(t, e.pool.Position(ctx, bob, "X").BorrowShares.IsZero())

	v, _ := e.pool.Vault(ctx, "X")
	assert.True(t, v.TotalBorrow.IsZero())
	assert.Empty(t, e.sink.events)
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestRepayAll(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)
	require.Nil(t, e.bank.Credit("X", bob, units(1, 18)))

	e.clock.Advance(pc.StepsPerYear)
	repay, err := e.pool.Repay(ctx, bob, "X", pc.RepayAll)
	require.Nil(t, err)
	assert.Equal(t, "20500000000000000000", repay.Amount.Dec())
	assert.Equal(t, units(20, 18), repay.Shares)

	assert.True(t, e.pool.Position(ctx, bob, "X").BorrowShares.IsZero())
	v, _ := e.pool.Vault(ctx, "X")
	assert.True(t, v.TotalBorrow.IsZero())
	assert.Equal(t, "500000000000000000", e.bank.BalanceOf("X", bob).Dec())

	_, err = e.pool.Repay(ctx, bob, "X", units(1, 18))
	assert.ErrorIs(t, err, core.ErrNoDebt)
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestRepayPartial(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	repay, err := e.pool.Repay(ctx, bob, "X", units(5, 18))
	require.Nil(t, err)
	assert.Equal(t, units(5, 18), repay.Amount)
	assert.Equal(t, units(15, 18), e.pool.Position(ctx, bob, "X").BorrowShares)

	// paying more than owed clears the debt and no more
	repay, err = e.pool.Repay(ctx, bob, "X", units(100, 18))
	require.Nil(t, err)
	assert.Equal(t, units(15, 18), repay.Amount)
	assert.True(t, e.pool.Position(ctx, bob, "X").BorrowShares.IsZero())
}

func TestWithdrawAndRedeem(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	// only 20 X are not lent out
	_, err := e.pool.Withdraw(ctx, alice, "X", units(21, 18), nil)
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	_, err = e.pool.Withdraw(ctx, alice, "X", units(10, 18), units(9, 18))
	assert.ErrorIs(t, err, core.ErrSlippage)

	w, err := e.pool.Withdraw(ctx, alice, "X", units(10, 18), units(10, 18))
	require.Nil(t, err)
	assert.Equal(t, units(10, 18), w.Shares)
	assert.Equal(t, units(10, 18), e.bank.BalanceOf("X", alice))

	_, err = e.pool.Redeem(ctx, alice, "X", units(5, 18), units(6, 18))
	assert.ErrorIs(t, err, core.ErrSlippage)

	w, err = e.pool.Redeem(ctx, alice, "X", units(5, 18), units(5, 18))
	require.Nil(t, err)
	assert.Equal(t, units(5, 18), w.Amount)

	_, err = e.pool.Redeem(ctx, alice, "X", units(26, 18), nil)
	assert.ErrorIs(t, err, core.ErrInsufficientShares)

	// bob's collateral backs his debt
	_, err = e.pool.Withdraw(ctx, bob, "Y", units(5, 8), nil)
	assert.ErrorIs(t, err, core.ErrInsufficientCollaterals)
	assert.Equal(t, units(10, 8), e.pool.Position(ctx, bob, "Y").CollateralShares)
	assert.True(t, e.bank.BalanceOf("Y", bob).IsZero())

	_, err = e.pool.Withdraw(ctx, bob, "Y", units(1, 8), nil)
	assert.Nil(t, err)
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestLiquidateCloseFactor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)
	e.sink.events = nil

	e.prices.Set("y-usd", number.Decimal("2.4"))
	hf, err := e.pool.HealthFactor(ctx, bob)
	require.Nil(t, err)
	assert.Equal(t, "960000000000000000", hf.Dec())

	limit, err := e.pool.MaxLiquidatable(ctx, bob, "X")
	require.Nil(t, err)
	assert.Equal(t, units(10, 18), limit)

	l, err := e.pool.Liquidate(ctx, carol, bob, "Y", "X", units(20, 18))
	require.Nil(t, err)
	assert.Equal(t, units(10, 18), l.Repaid)
	assert.Equal(t, "416666666", l.Seized.Dec())
	assert.Equal(t, "20833333", l.Bonus.Dec())

	assert.Equal(t, units(20, 18), e.bank.BalanceOf("X", carol))
	assert.Equal(t, "437499999", e.bank.BalanceOf("Y", carol).Dec())
	assert.Equal(t, units(10, 18), e.pool.Position(ctx, bob, "X").BorrowShares)
	assert.Equal(t, "562500001", e.pool.Position(ctx, bob, "Y").CollateralShares.Dec())

	hf, err = e.pool.HealthFactor(ctx, bob)
	require.Nil(t, err)
	assert.Equal(t, "1080000001920000000", hf.Dec())

	assert.Equal(t, []string{core.EventLiquidated}, e.sink.names())
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestLiquidateFullDebt(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	e.prices.Set("y-usd", number.Decimal("2"))
	limit, err := e.pool.MaxLiquidatable(ctx, bob, "X")
	require.Nil(t, err)
	assert.Equal(t, units(20, 18), limit)

	l, err := e.pool.Liquidate(ctx, carol, bob, "Y", "X", units(10, 18))
	require.Nil(t, err)
	assert.Equal(t, units(10, 18), l.Repaid)
	assert.Equal(t, units(5, 8), l.Seized)
	assert.Equal(t, "25000000", l.Bonus.Dec())
	assert.Equal(t, "525000000", e.bank.BalanceOf("Y", carol).Dec())
}

func TestLiquidateWhilePaused(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	require.Nil(t, e.pool.SetPaused(ctx, admin, core.GlobalScope, true))
	e.prices.Set("y-usd", number.Decimal("2"))

	_, err := e.pool.Liquidate(ctx, carol, bob, "Y", "X", units(10, 18))
	assert.Nil(t, err)
}

func TestLiquidateRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	_, err := e.pool.Liquidate(ctx, bob, bob, "Y", "X", units(1, 18))
	assert.ErrorIs(t, err, core.ErrSelfLiquidation)
	assert.ErrorIs(t, err, core.KindSelfAction)

	_, err = e.pool.Liquidate(ctx, carol, bob, "Y", "X", units(1, 18))
	assert.ErrorIs(t, err, core.ErrBorrowerSolvent)

	// dave cannot pay for the debt he repays
	e.prices.Set("y-usd", number.Decimal("2"))
	_, err = e.pool.Liquidate(ctx, "dave", bob, "Y", "X", units(40, 18))
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.Equal(t, units(20, 18), e.pool.Position(ctx, bob, "X").BorrowShares)
	assert.True(t, e.bank.BalanceOf("Y", "dave").IsZero())
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestLiquidateNoop(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)
	e.sink.events = nil

	e.prices.Set("y-usd", number.Decimal("2"))
	before, _ := e.pool.Vault(ctx, "X")
	e.clock.Advance(100)

	// bob holds no X collateral
	l, err := e.pool.Liquidate(ctx, carol, bob, "X", "X", units(10, 18))
	assert.Nil(t, err)
	assert.Nil(t, l)

	after, _ := e.pool.Vault(ctx, "X")
	assert.Equal(t, before, after)
	assert.Empty(t, e.sink.events)
	assert.Equal(t, units(30, 18), e.bank.BalanceOf("X", carol))
}

func TestReentrantCallbackJoins(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	require.Nil(t, err)
	_, err = e.pool.Supply(ctx, bob, "Y", units(10, 8), nil)
	require.Nil(t, err)
	e.sink.events = nil

	// bob supplies what he borrows from inside the transfer
	e.bank.OnTransfer(func(ctx context.Context, tr *bank.Transfer) error {
		if tr.To != bob || tr.Token != "X" {
			return nil
		}

		_, err := e.pool.Supply(ctx, bob, "X", tr.Amount, nil)
		return err
	})

	_, err = e.pool.Borrow(ctx, bob, "X", units(20, 18))
	require.Nil(t, err)

	assert.Equal(t, units(20, 18), e.pool.Position(ctx, bob, "X").CollateralShares)
	assert.True(t, e.bank.BalanceOf("X", bob).IsZero())
	assert.Equal(t, []string{core.EventDeposit, core.EventBorrow}, e.sink.names())
	assert.Nil(t, e.pool.ledger.Verify())
}

func TestReentrantFailureUnwinds(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	require.Nil(t, err)
	_, err = e.pool.Supply(ctx, bob, "Y", units(10, 8), nil)
	require.Nil(t, err)
	e.sink.events = nil

	e.bank.OnTransfer(func(ctx context.Context, tr *bank.Transfer) error {
		if tr.To != bob || tr.Token != "X" {
			return nil
		}

		if _, err := e.pool.Supply(ctx, bob, "X", tr.Amount, nil); err != nil {
			return err
		}

		_, err := e.pool.Liquidate(ctx, bob, bob, "Y", "X", tr.Amount)
		return err
	})

	_, err = e.pool.Borrow(ctx, bob, "X", units(20, 18))
	assert.ErrorIs(t, err, core.ErrSelfLiquidation)

	assert.True(t, e.pool.Position(ctx, bob, "X").IsEmpty())
	assert.Equal(t, units(40, 18), e.bank.BalanceOf("X", "pool"))
	assert.Empty(t, e.sink.events)
	assert.Nil(t, e.pool.ledger.Verify())
}

type failingCommitter struct{}

func (failingCommitter) Commit(context.Context, *core.ChangeSet) error {
	return errors.New("database unavailable")
}

func TestCommitFailureUnwinds(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.pool.committer = failingCommitter{}

	_, err := e.pool.Supply(ctx, alice, "X", units(40, 18), nil)
	assert.NotNil(t, err)

	v, _ := e.pool.Vault(ctx, "X")
	assert.True(t, v.TotalAsset.IsZero())
	assert.Equal(t, units(40, 18), e.bank.BalanceOf("X", alice))
	assert.Empty(t, e.sink.events)
}

func TestCommitFailureUnwindsAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	z := &core.SupportedToken{Token: "Z", Feed: "z-usd", Decimals: 6}

	e.pool.committer = failingCommitter{}
	assert.NotNil(t, e.pool.SetupVault(ctx, admin, z, kinked, true))
	assert.NotNil(t, e.pool.SetPaused(ctx, admin, "X", true))
	assert.NotNil(t, e.pool.SetPaused(ctx, admin, core.GlobalScope, true))

	_, err := e.pool.Vault(ctx, "Z")
	assert.ErrorIs(t, err, core.ErrTokenNotSupported)

	paused, _ := e.pauser.Paused(ctx, "X")
	assert.False(t, paused)
	paused, _ = e.pauser.Paused(ctx, core.GlobalScope)
	assert.False(t, paused)
	assert.Empty(t, e.sink.events)

	e.pool.committer = nil
	require.Nil(t, e.pool.SetupVault(ctx, admin, z, kinked, true))
	_, err = e.pool.Vault(ctx, "Z")
	assert.Nil(t, err)
}

func TestSetupVault(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	z := &core.SupportedToken{Token: "Z", Feed: "z-usd", Decimals: 6}

	err := e.pool.SetupVault(ctx, bob, z, kinked, true)
	assert.ErrorIs(t, err, core.ErrOperationForbidden)

	bad := kinked
	bad.ReserveRatio = pc.BPS + 1
	err = e.pool.SetupVault(ctx, admin, z, bad, true)
	assert.ErrorIs(t, err, core.ErrInvalidParams)

	err = e.pool.SetupVault(ctx, admin, &core.SupportedToken{Token: "X", Feed: "x-usd", Decimals: 18}, kinked, true)
	assert.ErrorIs(t, err, core.ErrTokenExists)

	updated := kinked
	updated.BaseRate = 1e16
	err = e.pool.SetupVault(ctx, admin, &core.SupportedToken{Token: "X"}, updated, false)
	assert.ErrorIs(t, err, core.ErrNotPaused)

	err = e.pool.SetupVault(ctx, admin, &core.SupportedToken{Token: "Z"}, updated, false)
	assert.ErrorIs(t, err, core.ErrTokenNotSupported)

	require.Nil(t, e.pool.SetPaused(ctx, admin, "X", true))
	e.sink.events = nil
	require.Nil(t, e.pool.SetupVault(ctx, admin, &core.SupportedToken{Token: "X"}, updated, false))

	v, _ := e.pool.Vault(ctx, "X")
	assert.Equal(t, uint64(1e16), v.RateInfo.BaseRate)

	require.Len(t, e.sink.events, 1)
	setup := e.sink.events[0].(*core.NewVaultSetup)
	assert.Equal(t, "x-usd", setup.Feed)
	assert.False(t, setup.AddToken)
}

func TestViews(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.open(t)

	price, err := e.pool.TokenPrice(ctx, "Y")
	require.Nil(t, err)
	assert.Equal(t, "4000000000000000000", price.Dec())

	value, err := e.pool.USDValue(ctx, "Y", units(1, 8))
	require.Nil(t, err)
	assert.Equal(t, "4000000000000000000", value.Dec())

	data, err := e.pool.UserData(ctx, bob)
	require.Nil(t, err)
	assert.Equal(t, "40000000000000000000", data.CollateralUSD.Dec())
	assert.Equal(t, "20000000000000000000", data.BorrowUSD.Dec())
	assert.Len(t, data.Positions, 2)

	shares, err := e.pool.ToBorrowShares(ctx, "X", units(5, 18), true)
	require.Nil(t, err)
	assert.Equal(t, units(5, 18), shares)

	amount, err := e.pool.ToAssetAmount(ctx, "X", units(5, 18), false)
	require.Nil(t, err)
	assert.Equal(t, units(5, 18), amount)

	rates, err := e.pool.Rates(ctx, "X")
	require.Nil(t, err)
	assert.Equal(t, "500000000000000000", rates.Utilization.Dec())
	assert.Equal(t, uint64(25e15), rates.BorrowRate)

	assert.Equal(t, []string{bob}, e.pool.Borrowers(ctx))

	e.clock.Sleep(time.Minute)
	e.prices.SetRound(core.PriceRound{Feed: "y-usd", Price: number.Decimal("4"), UpdatedAt: time.Unix(1_700_000_000, 0)})
	_, err = e.pool.HealthFactor(ctx, bob)
	assert.ErrorIs(t, err, core.ErrStalePrice)
}
