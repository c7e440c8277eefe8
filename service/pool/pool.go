package pool

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/pkg/metric"
	"lendpool/store/ledger"

	"github.com/fatih/structs"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Pool the lending pool engine. Every state changing operation runs as one
// indivisible unit of work over the ledger and the transferer.
type Pool struct {
	ledger *ledger.Ledger
	tokens core.TokenRegistry
	pauser core.Pauser
	oracle core.PriceOracle
	bank   core.Transferer
	auth   core.Authorizer
	clock  core.Clock

	protocol        string
	bootstrapPaused bool
	committer       core.Committer
	sink            core.EventSink
	metrics         *metric.Metrics
	reverters       []core.Reverter

	mu     sync.Mutex
	events []core.Event
}

// Option pool option
type Option func(p *Pool)

// WithProtocolAccount owner of the position credited with protocol fees
func WithProtocolAccount(account string) Option {
	return func(p *Pool) {
		p.protocol = account
	}
}

// WithCommitter persists every committed unit of work
func WithCommitter(c core.Committer) Option {
	return func(p *Pool) {
		p.committer = c
	}
}

// WithEventSink replaces the default logging sink
func WithEventSink(sink core.EventSink) Option {
	return func(p *Pool) {
		p.sink = sink
	}
}

// WithMetrics records operations on m
func WithMetrics(m *metric.Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// WithBootstrapPaused makes Bootstrap pause the whole pool
func WithBootstrapPaused(paused bool) Option {
	return func(p *Pool) {
		p.bootstrapPaused = paused
	}
}

// DefaultProtocolAccount default owner of protocol fee shares
const DefaultProtocolAccount = "protocol"

// New pool over l, collaborators are injected
func New(
	l *ledger.Ledger,
	tokens core.TokenRegistry,
	pauser core.Pauser,
	oracle core.PriceOracle,
	bank core.Transferer,
	auth core.Authorizer,
	clock core.Clock,
	opts ...Option,
) *Pool {
	p := &Pool{
		ledger:   l,
		tokens:   tokens,
		pauser:   pauser,
		oracle:   oracle,
		bank:     bank,
		auth:     auth,
		clock:    clock,
		protocol: DefaultProtocolAccount,
		sink:     LogSink(),
	}

	for _, opt := range opts {
		opt(p)
	}

	for _, c := range []interface{}{bank, tokens, pauser} {
		if r, ok := c.(core.Reverter); ok {
			p.reverters = append(p.reverters, r)
		}
	}

	return p
}

// ProtocolAccount owner of the protocol position
func (p *Pool) ProtocolAccount() string {
	return p.protocol
}

type logSink struct{}

// LogSink writes every event as a structured log line
func LogSink() core.EventSink {
	return logSink{}
}

func (logSink) Emit(ctx context.Context, events []core.Event) {
	log := logger.FromContext(ctx)
	for _, e := range events {
		log.WithFields(logrus.Fields(structs.Map(e))).Infof("event %s", e.EventName())
	}
}

// MultiSink fans events out to every sink
func MultiSink(sinks ...core.EventSink) core.EventSink {
	return multiSink(sinks)
}

type multiSink []core.EventSink

func (m multiSink) Emit(ctx context.Context, events []core.Event) {
	for _, s := range m {
		s.Emit(ctx, events)
	}
}
