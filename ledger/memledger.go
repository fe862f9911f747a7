package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
)

type balanceKey struct {
	asset   record.AssetID
	account Account
}

// MemLedger is an in-memory Service. Escrow accounts can only be debited
// under the escrow authority of their owner. Any other account is a user
// account and can only be debited by the identity it derives from.
type MemLedger struct {
	mu       sync.Mutex
	balances map[balanceKey]uint64
	escrows  map[Account]record.Address
}

// Compile-time interface check.
var _ Service = (*MemLedger)(nil)

// NewMemLedger creates an empty ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		balances: make(map[balanceKey]uint64),
		escrows:  make(map[Account]record.Address),
	}
}

// Mint credits amount of asset to id's user account.
func (l *MemLedger) Mint(id identity.Identity, asset record.AssetID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := balanceKey{asset: asset, account: UserAccount(id)}
	sum, err := bps.Add(l.balances[key], amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBalanceOverflow, err)
	}
	l.balances[key] = sum
	return nil
}

// OpenEscrow registers account as controlled by owner.
func (l *MemLedger) OpenEscrow(_ context.Context, account Account, owner record.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current, ok := l.escrows[account]; ok {
		if current == owner {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrEscrowExists, account)
	}
	l.escrows[account] = owner
	return nil
}

// Balance returns the units of asset held by account.
func (l *MemLedger) Balance(_ context.Context, asset record.AssetID, account Account) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{asset: asset, account: account}], nil
}

// Transfer validates every move against a scratch copy of the touched
// balances and commits only when all of them succeed.
func (l *MemLedger) Transfer(ctx context.Context, auth Authority, batch *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := batch.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	scratch := make(map[balanceKey]uint64)
	get := func(k balanceKey) uint64 {
		if v, ok := scratch[k]; ok {
			return v
		}
		return l.balances[k]
	}

	for i, m := range batch.moves {
		if !l.controls(auth, m.From) {
			return fmt.Errorf("%w: move[%d] from %s under %s", ErrUnauthorized, i, m.From, auth)
		}
		from := balanceKey{asset: m.Asset, account: m.From}
		to := balanceKey{asset: m.Asset, account: m.To}

		fromBal := get(from)
		if fromBal < m.Amount {
			return fmt.Errorf("%w: move[%d] needs %d, has %d", ErrInsufficientBalance, i, m.Amount, fromBal)
		}
		scratch[from] = fromBal - m.Amount

		toBal, err := bps.Add(get(to), m.Amount)
		if err != nil {
			return fmt.Errorf("%w: move[%d]: %w", ErrBalanceOverflow, i, err)
		}
		scratch[to] = toBal
	}

	for k, v := range scratch {
		l.balances[k] = v
	}
	return nil
}

// controls reports whether auth may debit account. Must hold l.mu.
func (l *MemLedger) controls(auth Authority, account Account) bool {
	if owner, ok := l.escrows[account]; ok {
		return auth.Kind == AuthorityEscrow && auth.Owner == owner
	}
	return auth.Kind == AuthorityUser && UserAccount(auth.User) == account
}
