package store

import (
	"context"
	"encoding/json"

	"lendpool/core"
	"lendpool/pkg/id"
	"lendpool/store/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type committer struct {
	db        *db.DB
	vaults    core.VaultStore
	positions core.PositionStore
	events    core.EventStore
}

// NewCommitter writes every committed change set in one database transaction
func NewCommitter(database *db.DB, vaults core.VaultStore, positions core.PositionStore, events core.EventStore) core.Committer {
	return &committer{
		db:        database,
		vaults:    vaults,
		positions: positions,
		events:    events,
	}
}

func (c *committer) Commit(ctx context.Context, changes *core.ChangeSet) error {
	logs, err := EventLogs(id.GenTraceID(), changes.Events)
	if err != nil {
		return err
	}

	return c.db.Tx(func(tx *db.DB) error {
		for _, v := range changes.Vaults {
			if err := c.vaults.Save(ctx, tx, v); err != nil {
				logger.FromContext(ctx).WithError(err).Errorln("vaults.Save", v.Token)
				return err
			}
		}

		for _, e := range changes.Events {
			if setup, ok := e.(*core.NewVaultSetup); ok {
				token := &core.SupportedToken{Token: setup.Token, Feed: setup.Feed, Decimals: setup.Decimals}
				if err := c.vaults.SaveToken(ctx, tx, token); err != nil {
					return err
				}
			}
		}

		for _, p := range changes.Positions {
			if err := c.positions.Save(ctx, tx, p); err != nil {
				logger.FromContext(ctx).WithError(err).Errorln("positions.Save", p.User, p.Token)
				return err
			}
		}

		for _, l := range logs {
			if err := c.events.Create(ctx, tx, l); err != nil {
				return err
			}
		}

		return nil
	})
}

// EventLogs stored form of events, trace ids derive from trace
func EventLogs(trace string, events []core.Event) ([]*core.EventLog, error) {
	logs := make([]*core.EventLog, 0, len(events))
	for idx, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}

		logs = append(logs, &core.EventLog{
			TraceID: id.Child(trace, idx),
			Name:    e.EventName(),
			Token:   e.EventToken(),
			Data:    data,
		})
	}

	return logs, nil
}

// Restore loads the persisted vaults, tokens and positions into the ledger
// and the registry
func Restore(ctx context.Context, vaults core.VaultStore, positions core.PositionStore, l *ledger.Ledger, tokens core.TokenRegistry) error {
	vs, err := vaults.List(ctx)
	if err != nil {
		return err
	}

	ts, err := vaults.ListTokens(ctx)
	if err != nil {
		return err
	}

	ps, err := positions.List(ctx)
	if err != nil {
		return err
	}

	for _, t := range ts {
		if _, err := tokens.Find(ctx, t.Token); err == nil {
			if err := tokens.Update(ctx, t); err != nil {
				return err
			}
			continue
		}

		if err := tokens.Add(ctx, t); err != nil {
			return err
		}
	}

	l.Load(vs, ps)
	logger.FromContext(ctx).Infof("restored %d vaults and %d positions", len(vs), len(ps))
	return nil
}
