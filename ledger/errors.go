package ledger

import "errors"

var (
	// ErrUnauthorized indicates the authority does not control a debited account.
	ErrUnauthorized = errors.New("ledger: authority does not control account")

	// ErrInsufficientBalance indicates a debited account holds too little.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrEmptyBatch indicates a transfer batch has no moves.
	ErrEmptyBatch = errors.New("ledger: empty batch")

	// ErrInvalidMove indicates a zero-amount or self-referencing move.
	ErrInvalidMove = errors.New("ledger: invalid move")

	// ErrEscrowExists indicates the escrow account is already open.
	ErrEscrowExists = errors.New("ledger: escrow account already open")

	// ErrBalanceOverflow indicates a credit would overflow the balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")
)
