package custody

import (
	"errors"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

// Validation errors.
var (
	ErrInvalidFee                = errors.New("custody: custody fee must be 100 bps")
	ErrInvalidAmount             = errors.New("custody: amount must be positive")
	ErrInvalidDeadline           = errors.New("custody: deadline offset out of range")
	ErrInvalidAssetOwnership     = errors.New("custody: seller must hold exactly one unit of the asset")
	ErrInvalidListingStatus      = errors.New("custody: invalid listing status")
	ErrInvalidBps                = errors.New("custody: bps out of range")
	ErrListingExpired            = errors.New("custody: listing contribution period has ended")
	ErrExceedsAvailable          = errors.New("custody: bps exceeds remaining share")
	ErrUnauthorized              = errors.New("custody: unauthorized")
	ErrAlreadyRefunded           = errors.New("custody: contribution already refunded")
	ErrListingNotExpired         = errors.New("custody: listing deadline has not passed")
	ErrNoVotingPower             = errors.New("custody: caller holds no share")
	ErrInvalidProposalStatus     = errors.New("custody: invalid proposal status")
	ErrVotingEnded               = errors.New("custody: voting has ended")
	ErrAlreadyVoted              = errors.New("custody: already voted")
	ErrInvalidProposal           = errors.New("custody: proposal does not belong to listing")
	ErrInvalidChoice             = errors.New("custody: invalid vote choice")
	ErrNothingToClaim            = errors.New("custody: nothing to claim")
	ErrNotRefundable             = errors.New("custody: contribution is not refundable")
	ErrExecutionWindowExpired    = errors.New("custody: execution window expired")
	ErrExecutionWindowNotExpired = errors.New("custody: execution window has not expired")
	ErrConfigNotInitialized      = errors.New("custody: config not initialized")
	ErrAlreadyInitialized        = errors.New("custody: config already initialized")
	ErrListingExists             = errors.New("custody: asset already listed")
	ErrListingNotFound           = errors.New("custody: listing not found")
	ErrContributionNotFound      = errors.New("custody: contribution not found")
	ErrProposalNotFound          = errors.New("custody: proposal not found")
	ErrRewardNotFound            = errors.New("custody: reward registry not found")
)

// State-consistency errors. These indicate a broken invariant.
var (
	ErrInvalidContribution      = errors.New("custody: contribution record does not match listing and contributor")
	ErrInvalidClaimRecord       = errors.New("custody: claim record does not match registry and claimer")
	ErrInvalidRewardRegistry    = errors.New("custody: reward registry does not match listing")
	ErrInsufficientListingFunds = errors.New("custody: listing holds less value than owed")
	ErrAssetNotEscrowed         = errors.New("custody: listed asset is no longer in escrow")
)

// ErrMathOverflow is the checked-arithmetic failure.
var ErrMathOverflow = bps.ErrMathOverflow

// ErrLedger wraps every failure reported by the ledger.
var ErrLedger = errors.New("custody: ledger")

// Class groups errors by how a caller should react to them.
type Class uint8

const (
	// ClassNone is the class of a nil error.
	ClassNone Class = iota
	// ClassValidation errors are caller-correctable.
	ClassValidation
	// ClassArithmetic errors are checked-math failures.
	ClassArithmetic
	// ClassConsistency errors mean a defensive invariant check failed.
	ClassConsistency
	// ClassCollaborator errors come from the store or ledger.
	ClassCollaborator
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassValidation:
		return "validation"
	case ClassArithmetic:
		return "arithmetic"
	case ClassConsistency:
		return "consistency"
	case ClassCollaborator:
		return "collaborator"
	}
	return "unknown"
}

var consistencyErrors = []error{
	ErrInvalidContribution,
	ErrInvalidClaimRecord,
	ErrInvalidRewardRegistry,
	ErrInsufficientListingFunds,
	ErrAssetNotEscrowed,
	record.ErrInvalidRecord,
	record.ErrKindMismatch,
	record.ErrInvalidStatus,
}

var collaboratorErrors = []error{
	ErrLedger,
	ledger.ErrUnauthorized,
	ledger.ErrInsufficientBalance,
	store.ErrClosed,
	store.ErrReadOnly,
}

// Classify maps err to its class. Errors the engine does not recognise are
// treated as collaborator errors.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	// Ledger failures may wrap arithmetic errors of their own.
	for _, target := range collaboratorErrors {
		if errors.Is(err, target) {
			return ClassCollaborator
		}
	}
	if errors.Is(err, ErrMathOverflow) {
		return ClassArithmetic
	}
	for _, target := range consistencyErrors {
		if errors.Is(err, target) {
			// A record of the wrong kind at a caller-supplied address is a
			// caller error.
			if isNotFound(err) {
				return ClassValidation
			}
			return ClassConsistency
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ClassValidation
		}
	}
	return ClassCollaborator
}

var validationErrors = []error{
	ErrInvalidFee, ErrInvalidAmount, ErrInvalidDeadline, ErrInvalidAssetOwnership,
	ErrInvalidListingStatus, ErrInvalidBps, ErrListingExpired, ErrExceedsAvailable,
	ErrUnauthorized, ErrAlreadyRefunded, ErrListingNotExpired, ErrNoVotingPower,
	ErrInvalidProposalStatus, ErrVotingEnded, ErrAlreadyVoted, ErrInvalidProposal,
	ErrInvalidChoice, ErrNothingToClaim, ErrNotRefundable, ErrExecutionWindowExpired,
	ErrExecutionWindowNotExpired, ErrConfigNotInitialized, ErrAlreadyInitialized,
	ErrListingExists, ErrListingNotFound, ErrContributionNotFound, ErrProposalNotFound,
	ErrRewardNotFound,
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrListingNotFound) ||
		errors.Is(err, ErrContributionNotFound) ||
		errors.Is(err, ErrProposalNotFound) ||
		errors.Is(err, ErrRewardNotFound) ||
		errors.Is(err, ErrConfigNotInitialized)
}
