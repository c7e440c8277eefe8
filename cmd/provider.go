package cmd

import (
	"context"
	"time"

	"lendpool/config"
	"lendpool/core"
	"lendpool/internal/compound"
	"lendpool/pkg/metric"
	"lendpool/pkg/number"
	"lendpool/service/auth"
	"lendpool/service/bank"
	"lendpool/service/oracle"
	"lendpool/service/oracle/feed"
	"lendpool/service/pauser"
	"lendpool/service/pool"
	"lendpool/store"
	"lendpool/store/event"
	"lendpool/store/ledger"
	"lendpool/store/position"
	"lendpool/store/token"
	"lendpool/store/vault"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePauser(db *db.DB) core.Pauser {
	if cfg.Pool.Pauser == "memory" {
		return pauser.Memory()
	}

	return pauser.Property(providePropertyStore(db))
}

func provideClock() core.Clock {
	return compound.NewBlockClock(cfg.App.Genesis, cfg.App.SecondsPerStep)
}

// provideFeed http feed behind a cache, or a static feed seeded with the
// configured vault prices when no endpoint is set
func provideFeed(clock core.Clock) core.PriceFeed {
	if cfg.Oracle.Endpoint == "" {
		static := feed.NewStatic(clock)
		for _, v := range cfg.Vaults {
			if v.Price.IsPositive() {
				static.Set(v.Feed, v.Price)
			}
		}

		return static
	}

	return feed.Cache(feed.HTTP(cfg.Oracle.Endpoint), config.Duration(cfg.Oracle.CacheTTL, 5*time.Second))
}

func provideOracle(tokens core.TokenRegistry, clock core.Clock) core.PriceOracle {
	return oracle.New(tokens, provideFeed(clock), clock)
}

// engine the pool and everything wired around it
type engine struct {
	pool    *pool.Pool
	ledger  *ledger.Ledger
	tokens  core.TokenRegistry
	pauser  core.Pauser
	bank    *bank.Bank
	events  core.EventStore
	clock   core.Clock
	metrics *metric.Metrics
}

// provideEngine builds the pool over the persisted state, every committed
// operation is written back to the database
func provideEngine(ctx context.Context, database *db.DB) (*engine, error) {
	vaults := vault.New(database)
	positions := position.New(database)
	events := event.New(database)

	e := &engine{
		ledger:  ledger.New(),
		tokens:  token.New(),
		pauser:  providePauser(database),
		bank:    bank.New(cfg.Pool.Account),
		events:  events,
		clock:   provideClock(),
		metrics: metric.Default(),
	}

	if err := store.Restore(ctx, vaults, positions, e.ledger, e.tokens); err != nil {
		return nil, err
	}

	e.pool = pool.New(
		e.ledger,
		e.tokens,
		e.pauser,
		provideOracle(e.tokens, e.clock),
		e.bank,
		auth.New(cfg.Pool.Admins),
		e.clock,
		pool.WithProtocolAccount(cfg.Pool.ProtocolAccount),
		pool.WithCommitter(store.NewCommitter(database, vaults, positions, events)),
		pool.WithMetrics(e.metrics),
		pool.WithBootstrapPaused(cfg.Pool.BootstrapPaused),
	)

	if err := e.fund(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

// fund credits the pool account with the liquidity of the restored vaults
// and the wallets with the configured balances
func (e *engine) fund(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for _, v := range e.ledger.Vaults() {
		free := number.SubFloor(v.TotalAsset.Amount, v.TotalBorrow.Amount)
		if err := e.bank.Credit(v.Token, cfg.Pool.Account, free); err != nil {
			return err
		}
	}

	for _, b := range cfg.Bank.Balances {
		amount, err := number.Parse(b.Amount)
		if err != nil {
			return err
		}

		if err := e.bank.Credit(b.Token, b.User, amount); err != nil {
			return err
		}

		log.Debugf("credit %s %s to %s", b.Amount, b.Token, b.User)
	}

	return nil
}

// setupVaults creates the configured vaults missing from the pool
func (e *engine) setupVaults(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if len(cfg.Vaults) == 0 {
		return nil
	}

	if len(cfg.Pool.Admins) == 0 {
		return core.NewError(core.ErrOperationForbidden, "vaults configured without any admin")
	}

	for _, v := range cfg.Vaults {
		if _, err := e.tokens.Find(ctx, v.Token); err == nil {
			log.Debugln("vault exists", v.Token)
			continue
		}

		params, err := v.Params()
		if err != nil {
			return err
		}

		if err := e.pool.SetupVault(ctx, cfg.Pool.Admins[0], v.SupportedToken(), params, true); err != nil {
			return err
		}

		log.Infoln("vault created", v.Token)
	}

	return nil
}
