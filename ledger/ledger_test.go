package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
)

func makeIdentity(seed byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

func makeAsset(seed byte) record.AssetID {
	var a record.AssetID
	for i := range a {
		a[i] = seed
	}
	return a
}

func balance(t *testing.T, l Service, asset record.AssetID, acct Account) uint64 {
	t.Helper()
	v, err := l.Balance(context.Background(), asset, acct)
	require.NoError(t, err)
	return v
}

// --- Batch ---

func TestBatch_Validate(t *testing.T) {
	a, b := UserAccount(makeIdentity(1)), UserAccount(makeIdentity(2))
	tests := []struct {
		name  string
		batch *Batch
		err   error
	}{
		{"nil", nil, ErrEmptyBatch},
		{"empty", NewBatch(), ErrEmptyBatch},
		{"zero amount", NewBatch(Move{From: a, To: b}), ErrInvalidMove},
		{"self move", NewBatch(Move{From: a, To: a, Amount: 1}), ErrInvalidMove},
		{"ok", NewBatch(Move{From: a, To: b, Amount: 1}), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.batch.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBatch_Add(t *testing.T) {
	b := NewBatch()
	b.Add(Move{Amount: 1})
	b.Add(Move{Amount: 2})
	require.Len(t, b.Moves(), 2)
	assert.Equal(t, uint64(2), b.Moves()[1].Amount)
}

// --- MemLedger ---

func TestMemLedger_UserTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice, bob := makeIdentity(1), makeIdentity(2)
	require.NoError(t, l.Mint(alice, Native, 100))

	err := l.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: Native, From: UserAccount(alice), To: UserAccount(bob), Amount: 40,
	}))
	require.NoError(t, err)
	assert.Equal(t, uint64(60), balance(t, l, Native, UserAccount(alice)))
	assert.Equal(t, uint64(40), balance(t, l, Native, UserAccount(bob)))
}

func TestMemLedger_Unauthorized(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice, bob := makeIdentity(1), makeIdentity(2)
	require.NoError(t, l.Mint(alice, Native, 100))

	err := l.Transfer(ctx, UserAuthority(bob), NewBatch(Move{
		Asset: Native, From: UserAccount(alice), To: UserAccount(bob), Amount: 1,
	}))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, uint64(100), balance(t, l, Native, UserAccount(alice)))
}

func TestMemLedger_EscrowAuthority(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice := makeIdentity(1)
	owner := record.ListingAddress(makeAsset(9))
	require.NoError(t, l.OpenEscrow(ctx, owner, owner))
	require.NoError(t, l.Mint(alice, Native, 50))
	require.NoError(t, l.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: Native, From: UserAccount(alice), To: owner, Amount: 50,
	})))

	// The depositor cannot pull escrowed value back.
	err := l.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: Native, From: owner, To: UserAccount(alice), Amount: 1,
	}))
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A different escrow owner cannot either.
	other := record.ListingAddress(makeAsset(8))
	err = l.Transfer(ctx, EscrowAuthority(other), NewBatch(Move{
		Asset: Native, From: owner, To: UserAccount(alice), Amount: 1,
	}))
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, l.Transfer(ctx, EscrowAuthority(owner), NewBatch(Move{
		Asset: Native, From: owner, To: UserAccount(alice), Amount: 20,
	})))
	assert.Equal(t, uint64(30), balance(t, l, Native, owner))
	assert.Equal(t, uint64(20), balance(t, l, Native, UserAccount(alice)))
}

func TestMemLedger_OpenEscrow(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	acct := record.VaultAddress(makeAsset(1))
	owner := record.ListingAddress(makeAsset(1))

	require.NoError(t, l.OpenEscrow(ctx, acct, owner))
	require.NoError(t, l.OpenEscrow(ctx, acct, owner), "reopening for the same owner is a no-op")
	err := l.OpenEscrow(ctx, acct, record.ListingAddress(makeAsset(2)))
	assert.ErrorIs(t, err, ErrEscrowExists)
}

func TestMemLedger_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice, bob, carol := makeIdentity(1), makeIdentity(2), makeIdentity(3)
	require.NoError(t, l.Mint(alice, Native, 100))

	err := l.Transfer(ctx, UserAuthority(alice), NewBatch(
		Move{Asset: Native, From: UserAccount(alice), To: UserAccount(bob), Amount: 70},
		Move{Asset: Native, From: UserAccount(alice), To: UserAccount(carol), Amount: 31},
	))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, uint64(100), balance(t, l, Native, UserAccount(alice)))
	assert.Zero(t, balance(t, l, Native, UserAccount(bob)))
	assert.Zero(t, balance(t, l, Native, UserAccount(carol)))
}

func TestMemLedger_AssetsAreSeparate(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice, bob := makeIdentity(1), makeIdentity(2)
	nft := makeAsset(7)
	require.NoError(t, l.Mint(alice, nft, 1))

	err := l.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: Native, From: UserAccount(alice), To: UserAccount(bob), Amount: 1,
	}))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, l.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: nft, From: UserAccount(alice), To: UserAccount(bob), Amount: 1,
	})))
	assert.Equal(t, uint64(1), balance(t, l, nft, UserAccount(bob)))
}

func TestMemLedger_MintOverflow(t *testing.T) {
	l := NewMemLedger()
	alice := makeIdentity(1)
	require.NoError(t, l.Mint(alice, Native, ^uint64(0)))
	assert.ErrorIs(t, l.Mint(alice, Native, 1), ErrBalanceOverflow)
}

func TestMemLedger_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewMemLedger()
	err := l.Transfer(ctx, UserAuthority(makeIdentity(1)), NewBatch(Move{Amount: 1}))
	assert.ErrorIs(t, err, context.Canceled)
}

// --- MockService ---

func TestDelegate_Override(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	alice := makeIdentity(1)
	require.NoError(t, l.Mint(alice, Native, 10))

	boom := errors.New("transport down")
	m := Delegate(l)
	m.TransferFn = func(context.Context, Authority, *Batch) error { return boom }

	assert.Equal(t, uint64(10), balance(t, m, Native, UserAccount(alice)))
	err := m.Transfer(ctx, UserAuthority(alice), NewBatch(Move{
		Asset: Native, From: UserAccount(alice), To: UserAccount(makeIdentity(2)), Amount: 1,
	}))
	assert.ErrorIs(t, err, boom)
}

func TestAuthority_String(t *testing.T) {
	assert.Contains(t, UserAuthority(makeIdentity(1)).String(), "user:")
	assert.Contains(t, EscrowAuthority(record.ConfigAddress()).String(), "escrow:")
	assert.Equal(t, "none", Authority{}.String())
}
