package token

import (
	"context"
	"sort"
	"sync"

	"lendpool/core"
)

// entry previous value of a token, nil when it was added
type entry struct {
	token string
	prev  *core.SupportedToken
}

type registry struct {
	mu      sync.RWMutex
	tokens  map[string]*core.SupportedToken
	journal []entry
}

// New in memory registry seeded with tokens. Changes are journaled, the
// registry implements core.Reverter.
func New(tokens ...*core.SupportedToken) core.TokenRegistry {
	r := &registry{tokens: map[string]*core.SupportedToken{}}
	for _, t := range tokens {
		c := *t
		r.tokens[t.Token] = &c
	}

	return r
}

func (r *registry) Find(_ context.Context, token string) (*core.SupportedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, core.NewError(core.ErrTokenNotSupported, "token %s not supported", token)
	}

	c := *t
	return &c, nil
}

func (r *registry) List(_ context.Context) ([]*core.SupportedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]*core.SupportedToken, 0, len(r.tokens))
	for _, t := range r.tokens {
		c := *t
		tokens = append(tokens, &c)
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Token < tokens[j].Token })
	return tokens, nil
}

func (r *registry) Add(_ context.Context, t *core.SupportedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[t.Token]; ok {
		return core.NewError(core.ErrTokenExists, "token %s already supported", t.Token)
	}

	r.set(t)
	return nil
}

func (r *registry) Update(_ context.Context, t *core.SupportedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[t.Token]; !ok {
		return core.NewError(core.ErrTokenNotSupported, "token %s not supported", t.Token)
	}

	r.set(t)
	return nil
}

func (r *registry) set(t *core.SupportedToken) {
	r.journal = append(r.journal, entry{token: t.Token, prev: r.tokens[t.Token]})
	c := *t
	r.tokens[t.Token] = &c
}

func (r *registry) Snapshot() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.journal)
}

func (r *registry) RevertToSnapshot(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.journal) - 1; i >= id; i-- {
		e := r.journal[i]
		if e.prev == nil {
			delete(r.tokens, e.token)
		} else {
			r.tokens[e.token] = e.prev
		}
	}

	r.journal = r.journal[:id]
}

func (r *registry) Commit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journal = nil
}
