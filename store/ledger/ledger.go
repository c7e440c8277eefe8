package ledger

import (
	"fmt"
	"sort"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

type positionKey struct {
	user  string
	token string
}

// change prior state of one vault or position, nil when it did not exist
type change struct {
	token    string
	key      *positionKey
	vault    *core.Vault
	position *core.Position
}

// Ledger owns every vault and position. Other components read copies and
// mutate only through the methods below, each mutation is journaled so a
// failed operation can be rolled back to a snapshot.
//
// Positions are created on first use and never deleted, only zeroed.
type Ledger struct {
	vaults    map[string]*core.Vault
	positions map[positionKey]*core.Position
	journal   []change
}

// New empty ledger
func New() *Ledger {
	return &Ledger{
		vaults:    map[string]*core.Vault{},
		positions: map[positionKey]*core.Position{},
	}
}

// Load replaces the whole state, used when restoring from the database
func (l *Ledger) Load(vaults []*core.Vault, positions []*core.Position) {
	l.vaults = make(map[string]*core.Vault, len(vaults))
	for _, v := range vaults {
		l.vaults[v.Token] = v.Clone()
	}

	l.positions = make(map[positionKey]*core.Position, len(positions))
	for _, p := range positions {
		l.positions[positionKey{p.User, p.Token}] = p.Clone()
	}

	l.journal = nil
}

// Vault copy of the vault of token
func (l *Ledger) Vault(token string) (*core.Vault, bool) {
	v, ok := l.vaults[token]
	if !ok {
		return nil, false
	}

	return v.Clone(), true
}

// Vaults copies of all vaults ordered by token
func (l *Ledger) Vaults() []*core.Vault {
	vaults := make([]*core.Vault, 0, len(l.vaults))
	for _, v := range l.vaults {
		vaults = append(vaults, v.Clone())
	}

	sort.Slice(vaults, func(i, j int) bool { return vaults[i].Token < vaults[j].Token })
	return vaults
}

// Position copy of a position, empty if the user holds nothing
func (l *Ledger) Position(user, token string) *core.Position {
	if p, ok := l.positions[positionKey{user, token}]; ok {
		return p.Clone()
	}

	return core.NewPosition(user, token)
}

// Positions positions of user ordered by token, zeroed ones included
func (l *Ledger) Positions(user string) []*core.Position {
	var positions []*core.Position
	for key, p := range l.positions {
		if key.user == user {
			positions = append(positions, p.Clone())
		}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Token < positions[j].Token })
	return positions
}

// Users users holding any position, ordered
func (l *Ledger) Users() []string {
	seen := map[string]bool{}
	var users []string
	for key := range l.positions {
		if !seen[key.user] {
			seen[key.user] = true
			users = append(users, key.user)
		}
	}

	sort.Strings(users)
	return users
}

// Borrowers users with debt in any vault, ordered
func (l *Ledger) Borrowers() []string {
	seen := map[string]bool{}
	var users []string
	for key, p := range l.positions {
		if !p.BorrowShares.IsZero() && !seen[key.user] {
			seen[key.user] = true
			users = append(users, key.user)
		}
	}

	sort.Strings(users)
	return users
}

// CreateVault adds a new vault
func (l *Ledger) CreateVault(v *core.Vault) error {
	if _, ok := l.vaults[v.Token]; ok {
		return core.NewError(core.ErrTokenExists, "vault %s exists", v.Token)
	}

	l.journal = append(l.journal, change{token: v.Token})
	l.vaults[v.Token] = v.Clone()
	return nil
}

// SetParams replaces the rate parameters, markers are untouched
func (l *Ledger) SetParams(token string, params core.RateParams) error {
	v, err := l.touchVault(token)
	if err != nil {
		return err
	}

	v.RateInfo.RateParams = params
	return nil
}

// ApplyAccrual folds an accrual into the vault and credits the fee shares
// to the protocol position
func (l *Ledger) ApplyAccrual(a *compound.Accrual, protocol string) error {
	if a.Skipped {
		return nil
	}

	v, err := l.touchVault(a.Token)
	if err != nil {
		return err
	}

	// work on a copy so a failure leaves the vault as journaled
	next := v.Clone()
	if err := compound.Apply(next, a); err != nil {
		return err
	}

	if !a.FeeShares.IsZero() {
		p := l.touchPosition(protocol, a.Token)
		shares, err := number.Add(p.CollateralShares, a.FeeShares)
		if err != nil {
			return core.WrapError(core.ErrOverflow, err)
		}
		p.CollateralShares = shares
	}

	*v = *next
	return nil
}

// Mint adds amount and shares to a side of the vault and shares to the user
func (l *Ledger) Mint(side core.Side, token, user string, amount, shares *uint256.Int) error {
	v, err := l.touchVault(token)
	if err != nil {
		return err
	}

	total := v.Balance(side)
	nextAmount, err := number.Add(total.Amount, amount)
	if err != nil {
		return core.WrapError(core.ErrOverflow, err)
	}

	nextShares, err := number.Add(total.Shares, shares)
	if err != nil {
		return core.WrapError(core.ErrOverflow, err)
	}

	if nextAmount.IsZero() != nextShares.IsZero() {
		return core.NewError(core.ErrAmountTooSmall, "%s %s mint of %s for %s shares", token, side, amount.Dec(), shares.Dec())
	}

	held, err := number.Add(l.Position(user, token).Shares(side), shares)
	if err != nil {
		return core.WrapError(core.ErrOverflow, err)
	}

	setBalance(v, side, core.Balance{Amount: nextAmount, Shares: nextShares})
	setShares(l.touchPosition(user, token), side, held)
	return nil
}

// Burn removes shares from the user and amount from a side of the vault.
// Burning the last shares of a side removes all of its amount, the amount
// actually removed is returned.
func (l *Ledger) Burn(side core.Side, token, user string, amount, shares *uint256.Int) (*uint256.Int, error) {
	v, err := l.touchVault(token)
	if err != nil {
		return nil, err
	}

	p := l.Position(user, token)
	held, err := number.Sub(p.Shares(side), shares)
	if err != nil {
		return nil, core.NewError(core.ErrInsufficientShares, "%s holds %s %s %s shares, %s requested",
			user, p.Shares(side).Dec(), token, side, shares.Dec())
	}

	total := v.Balance(side)
	nextShares, err := number.Sub(total.Shares, shares)
	if err != nil {
		return nil, core.WrapError(core.ErrInsufficientShares, err)
	}

	actual := amount.Clone()
	if nextShares.IsZero() {
		actual = total.Amount.Clone()
	}

	nextAmount, err := number.Sub(total.Amount, actual)
	if err != nil {
		return nil, core.NewError(core.ErrInsufficientLiquidity, "%s %s holds %s, %s requested",
			token, side, total.Amount.Dec(), actual.Dec())
	}

	if nextAmount.IsZero() != nextShares.IsZero() {
		return nil, core.NewError(core.ErrInsufficientLiquidity, "%s %s burn of %s leaves %s shares unbacked",
			token, side, actual.Dec(), nextShares.Dec())
	}

	setBalance(v, side, core.Balance{Amount: nextAmount, Shares: nextShares})
	setShares(l.touchPosition(user, token), side, held)
	return actual, nil
}

// Snapshot journal position to revert to
func (l *Ledger) Snapshot() int {
	return len(l.journal)
}

// RevertToSnapshot undoes every mutation made after the snapshot
func (l *Ledger) RevertToSnapshot(id int) {
	for i := len(l.journal) - 1; i >= id; i-- {
		c := l.journal[i]
		switch {
		case c.key == nil && c.vault == nil:
			delete(l.vaults, c.token)
		case c.key == nil:
			l.vaults[c.token] = c.vault
		case c.position == nil:
			delete(l.positions, *c.key)
		default:
			l.positions[*c.key] = c.position
		}
	}

	l.journal = l.journal[:id]
}

// Commit collects the state touched since the last commit and clears the journal
func (l *Ledger) Commit() *core.ChangeSet {
	changes := l.Pending()
	l.journal = nil
	return changes
}

// Pending state touched since the last commit
func (l *Ledger) Pending() *core.ChangeSet {
	changes := &core.ChangeSet{}
	vaults := map[string]bool{}
	positions := map[positionKey]bool{}

	for _, c := range l.journal {
		if c.key == nil {
			if !vaults[c.token] {
				vaults[c.token] = true
				if v, ok := l.vaults[c.token]; ok {
					changes.Vaults = append(changes.Vaults, v.Clone())
				}
			}
			continue
		}

		if !positions[*c.key] {
			positions[*c.key] = true
			changes.Positions = append(changes.Positions, l.Position(c.key.user, c.key.token))
		}
	}

	return changes
}

// Verify checks the share bookkeeping of every vault
func (l *Ledger) Verify() error {
	sums := map[string][2]*uint256.Int{}
	for key, p := range l.positions {
		s, ok := sums[key.token]
		if !ok {
			s = [2]*uint256.Int{number.Zero(), number.Zero()}
		}
		s[0] = new(uint256.Int).Add(s[0], p.CollateralShares)
		s[1] = new(uint256.Int).Add(s[1], p.BorrowShares)
		sums[key.token] = s
	}

	for token, v := range l.vaults {
		for _, side := range []core.Side{core.SideAsset, core.SideBorrow} {
			b := v.Balance(side)
			if b.Amount.IsZero() != b.Shares.IsZero() {
				return fmt.Errorf("%s %s: amount %s with shares %s", token, side, b.Amount.Dec(), b.Shares.Dec())
			}

			held := number.Zero()
			if s, ok := sums[token]; ok {
				held = s[side]
			}

			if !held.Eq(b.Shares) {
				return fmt.Errorf("%s %s: positions hold %s of %s shares", token, side, held.Dec(), b.Shares.Dec())
			}
		}
	}

	return nil
}

func (l *Ledger) touchVault(token string) (*core.Vault, error) {
	v, ok := l.vaults[token]
	if !ok {
		return nil, core.NewError(core.ErrTokenNotSupported, "no vault for %s", token)
	}

	l.journal = append(l.journal, change{token: token, vault: v.Clone()})
	return v, nil
}

func (l *Ledger) touchPosition(user, token string) *core.Position {
	key := positionKey{user, token}
	c := change{token: token, key: &key}

	p, ok := l.positions[key]
	if ok {
		c.position = p.Clone()
	} else {
		p = core.NewPosition(user, token)
		l.positions[key] = p
	}

	l.journal = append(l.journal, c)
	return p
}

func setBalance(v *core.Vault, side core.Side, b core.Balance) {
	if side == core.SideBorrow {
		v.TotalBorrow = b
	} else {
		v.TotalAsset = b
	}
}

func setShares(p *core.Position, side core.Side, shares *uint256.Int) {
	if side == core.SideBorrow {
		p.BorrowShares = shares
	} else {
		p.CollateralShares = shares
	}
}
