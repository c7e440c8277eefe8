package pool

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
)

// AccrueInterest brings the vault of token up to the current step
func (p *Pool) AccrueInterest(ctx context.Context, token string) (*compound.Accrual, error) {
	var a *compound.Accrual
	err := p.atomic(ctx, "accrue", func(ctx context.Context) error {
		if _, err := p.tokens.Find(ctx, token); err != nil {
			return err
		}

		var err error
		a, err = p.accrue(ctx, token)
		return err
	})

	return a, err
}

// SetupVault creates the vault of a new token when addToken is set, otherwise
// reconfigures a paused vault. Only admins may call it.
func (p *Pool) SetupVault(ctx context.Context, caller string, token *core.SupportedToken, params core.RateParams, addToken bool) error {
	if !p.auth.IsAdmin(ctx, caller) {
		return core.NewError(core.ErrOperationForbidden, "%s is not an admin", caller)
	}

	if err := compound.ValidateParams(params); err != nil {
		return err
	}

	return p.atomic(ctx, "setup_vault", func(ctx context.Context) error {
		event := &core.NewVaultSetup{
			Token:    token.Token,
			Feed:     token.Feed,
			Decimals: token.Decimals,
			Params:   params,
			AddToken: addToken,
		}

		if addToken {
			if token.Feed == "" {
				return core.NewError(core.ErrInvalidParams, "%s needs a price feed", token.Token)
			}

			if _, ok := p.ledger.Vault(token.Token); ok {
				return core.NewError(core.ErrTokenExists, "vault %s exists", token.Token)
			}

			if err := p.ledger.CreateVault(core.NewVault(token.Token, params, p.clock.Now())); err != nil {
				return err
			}

			if err := p.tokens.Add(ctx, token); err != nil {
				return err
			}

			p.emit(event)
			return nil
		}

		current, err := p.tokens.Find(ctx, token.Token)
		if err != nil {
			return err
		}

		paused, err := p.paused(ctx, token.Token)
		if err != nil {
			return err
		}

		if !paused {
			return core.NewError(core.ErrNotPaused, "%s must be paused to be reconfigured", token.Token)
		}

		if _, err := p.accrue(ctx, token.Token); err != nil {
			return err
		}

		if err := p.ledger.SetParams(token.Token, params); err != nil {
			return err
		}

		if token.Feed != "" && token.Feed != current.Feed {
			updated := *current
			updated.Feed = token.Feed
			if err := p.tokens.Update(ctx, &updated); err != nil {
				return err
			}
		}

		event.Feed = current.Feed
		if token.Feed != "" {
			event.Feed = token.Feed
		}
		event.Decimals = current.Decimals
		p.emit(event)
		return nil
	})
}

// SetPaused flips the pause flag of scope, core.GlobalScope for the whole
// pool. Affected vaults accrue first so the paused period earns nothing.
func (p *Pool) SetPaused(ctx context.Context, caller, scope string, paused bool) error {
	if !p.auth.IsAdmin(ctx, caller) {
		return core.NewError(core.ErrOperationForbidden, "%s is not an admin", caller)
	}

	return p.atomic(ctx, "set_paused", func(ctx context.Context) error {
		return p.setPaused(ctx, scope, paused)
	})
}

// Bootstrap applies the start up pause configured with WithBootstrapPaused
func (p *Pool) Bootstrap(ctx context.Context) error {
	if !p.bootstrapPaused {
		return nil
	}

	return p.atomic(ctx, "bootstrap", func(ctx context.Context) error {
		return p.setPaused(ctx, core.GlobalScope, true)
	})
}

func (p *Pool) setPaused(ctx context.Context, scope string, paused bool) error {
	tokens := []string{scope}
	if scope == core.GlobalScope {
		tokens = tokens[:0]
		for _, v := range p.ledger.Vaults() {
			tokens = append(tokens, v.Token)
		}
	} else if _, err := p.tokens.Find(ctx, scope); err != nil {
		return err
	}

	for _, token := range tokens {
		if _, err := p.accrue(ctx, token); err != nil {
			return err
		}
	}

	if err := p.pauser.SetPaused(ctx, scope, paused); err != nil {
		return err
	}

	p.emit(&core.PauseUpdated{Scope: scope, Paused: paused})
	return nil
}
