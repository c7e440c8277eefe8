package bank

import (
	"context"
	"errors"
	"sync"

	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// ErrInsufficientBalance account cannot cover the transfer
var ErrInsufficientBalance = errors.New("bank: insufficient balance")

// Transfer a completed move between two accounts
type Transfer struct {
	Token  string       `json:"token"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount *uint256.Int `json:"amount"`
}

// Hook runs after every transfer, an error fails the transfer. Hooks may call
// back into the pool with the context they receive.
type Hook func(ctx context.Context, t *Transfer) error

type entry struct {
	token   string
	account string
	prev    *uint256.Int
}

// Bank in memory multi token balance book. It moves tokens in and out of the
// pool account and journals every balance change so a failed operation can
// roll its transfers back.
type Bank struct {
	pool string

	mu       sync.Mutex
	balances map[string]map[string]*uint256.Int
	journal  []entry
	hooks    []Hook
}

// New bank with pool as the pool's own account
func New(pool string) *Bank {
	return &Bank{
		pool:     pool,
		balances: map[string]map[string]*uint256.Int{},
	}
}

// OnTransfer registers a hook
func (b *Bank) OnTransfer(h Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, h)
}

// Credit mints amount to account
func (b *Bank) Credit(token, account string, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, err := number.Add(b.balance(token, account), amount)
	if err != nil {
		return err
	}

	b.set(token, account, v)
	return nil
}

// BalanceOf balance of account
func (b *Bank) BalanceOf(token, account string) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance(token, account).Clone()
}

// TransferIn pulls amount from the user into the pool
func (b *Bank) TransferIn(ctx context.Context, token, from string, amount *uint256.Int) error {
	return b.transfer(ctx, &Transfer{Token: token, From: from, To: b.pool, Amount: amount.Clone()})
}

// TransferOut pushes amount from the pool to the user
func (b *Bank) TransferOut(ctx context.Context, token, to string, amount *uint256.Int) error {
	return b.transfer(ctx, &Transfer{Token: token, From: b.pool, To: to, Amount: amount.Clone()})
}

func (b *Bank) transfer(ctx context.Context, t *Transfer) error {
	hooks, err := b.move(t)
	if err != nil {
		return err
	}

	for _, h := range hooks {
		if err := h(ctx, t); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bank) move(t *Transfer) ([]Hook, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	from, err := number.Sub(b.balance(t.Token, t.From), t.Amount)
	if err != nil {
		return nil, ErrInsufficientBalance
	}

	to, err := number.Add(b.balance(t.Token, t.To), t.Amount)
	if err != nil {
		return nil, err
	}

	b.set(t.Token, t.From, from)
	b.set(t.Token, t.To, to)
	return b.hooks, nil
}

// Snapshot journal position
func (b *Bank) Snapshot() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.journal)
}

// RevertToSnapshot restores balances changed after the snapshot
func (b *Bank) RevertToSnapshot(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.journal) - 1; i >= id; i-- {
		e := b.journal[i]
		b.balances[e.token][e.account] = e.prev
	}

	b.journal = b.journal[:id]
}

// Commit drops the journal
func (b *Bank) Commit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.journal = nil
}

func (b *Bank) balance(token, account string) *uint256.Int {
	if v, ok := b.balances[token][account]; ok {
		return v
	}

	return number.Zero()
}

func (b *Bank) set(token, account string, v *uint256.Int) {
	accounts, ok := b.balances[token]
	if !ok {
		accounts = map[string]*uint256.Int{}
		b.balances[token] = accounts
	}

	b.journal = append(b.journal, entry{token: token, account: account, prev: b.balance(token, account)})
	accounts[account] = v
}
