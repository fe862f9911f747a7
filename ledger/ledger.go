// Package ledger is the asset and value transfer service used by the custody
// engine. It moves unique asset units and fungible value units between
// accounts, either under an end user's authority or under the delegated
// authority of an escrow owner (a listing or reward registry).
package ledger

import (
	"context"
	"fmt"

	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
)

// Account is a balance holder. User accounts are derived from identities;
// escrow accounts are record addresses opened with OpenEscrow.
type Account = record.Address

// Native is the asset id of the fungible value unit.
var Native record.AssetID

// UserAccount returns the account owned by id.
func UserAccount(id identity.Identity) Account {
	return record.Derive("account", id[:])
}

// AuthorityKind distinguishes end-user from escrow authority.
type AuthorityKind uint8

const (
	// AuthorityUser is an end user's explicit authorisation.
	AuthorityUser AuthorityKind = iota + 1
	// AuthorityEscrow is the delegated authority of an escrow owner.
	AuthorityEscrow
)

// Authority authorises the debits of a batch.
type Authority struct {
	Kind  AuthorityKind
	User  identity.Identity
	Owner record.Address
}

// UserAuthority authorises debits from id's own account.
func UserAuthority(id identity.Identity) Authority {
	return Authority{Kind: AuthorityUser, User: id}
}

// EscrowAuthority authorises debits from accounts opened for owner.
func EscrowAuthority(owner record.Address) Authority {
	return Authority{Kind: AuthorityEscrow, Owner: owner}
}

func (a Authority) String() string {
	switch a.Kind {
	case AuthorityUser:
		return "user:" + a.User.String()
	case AuthorityEscrow:
		return "escrow:" + a.Owner.String()
	}
	return "none"
}

// Move transfers Amount units of Asset from one account to another.
type Move struct {
	Asset  record.AssetID
	From   Account
	To     Account
	Amount uint64
}

// Batch collects moves that must be applied together or not at all.
type Batch struct {
	moves []Move
}

// NewBatch creates a batch from the given moves.
func NewBatch(moves ...Move) *Batch {
	return &Batch{moves: moves}
}

// Add appends a move.
func (b *Batch) Add(m Move) {
	b.moves = append(b.moves, m)
}

// Moves returns the moves in order.
func (b *Batch) Moves() []Move {
	return b.moves
}

// Validate checks the batch shape without consulting balances.
func (b *Batch) Validate() error {
	if b == nil || len(b.moves) == 0 {
		return ErrEmptyBatch
	}
	for i, m := range b.moves {
		if m.Amount == 0 {
			return fmt.Errorf("%w: move[%d] has zero amount", ErrInvalidMove, i)
		}
		if m.From == m.To {
			return fmt.Errorf("%w: move[%d] from and to are the same account", ErrInvalidMove, i)
		}
	}
	return nil
}

// Service moves assets between accounts with all-or-nothing semantics.
type Service interface {
	// OpenEscrow creates an account controlled only by owner's escrow authority.
	OpenEscrow(ctx context.Context, account Account, owner record.Address) error

	// Balance returns the units of asset held by account.
	Balance(ctx context.Context, asset record.AssetID, account Account) (uint64, error)

	// Transfer applies every move of the batch under auth, or none of them.
	Transfer(ctx context.Context, auth Authority, batch *Batch) error
}
