// Package record defines the persisted entity records of the custody engine,
// their deterministic addresses and their fixed binary layouts.
//
// Each serialized record starts with a one-byte Kind discriminator followed
// by the fields in declaration order, big-endian.
package record

import (
	"fmt"

	"github.com/bitfsorg/fracvault-go/identity"
)

// Kind discriminates serialized records.
type Kind uint8

const (
	KindConfig Kind = iota + 1
	KindListing
	KindContribution
	KindProposal
	KindVote
	KindRewardRegistry
	KindClaim
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus uint8

const (
	ListingOpen ListingStatus = iota
	ListingFunded
	ListingCustodied
	ListingExpired
	ListingRefunded
	ListingSold
)

var listingStatusNames = [...]string{"open", "funded", "custodied", "expired", "refunded", "sold"}

func (s ListingStatus) String() string {
	if int(s) < len(listingStatusNames) {
		return listingStatusNames[s]
	}
	return fmt.Sprintf("ListingStatus(%d)", uint8(s))
}

func (s ListingStatus) valid() bool { return s <= ListingSold }

// ProposalStatus is the state of a governance proposal.
type ProposalStatus uint8

const (
	ProposalActive ProposalStatus = iota
	ProposalApproved
	ProposalRejected
	ProposalExpired
	ProposalExecuted
)

var proposalStatusNames = [...]string{"active", "approved", "rejected", "expired", "executed"}

func (s ProposalStatus) String() string {
	if int(s) < len(proposalStatusNames) {
		return proposalStatusNames[s]
	}
	return fmt.Sprintf("ProposalStatus(%d)", uint8(s))
}

func (s ProposalStatus) valid() bool { return s <= ProposalExecuted }

// Choice is a ballot choice.
type Choice uint8

const (
	ChoiceYes Choice = iota
	ChoiceNo
)

func (c Choice) String() string {
	switch c {
	case ChoiceYes:
		return "yes"
	case ChoiceNo:
		return "no"
	}
	return fmt.Sprintf("Choice(%d)", uint8(c))
}

// Valid reports whether c is ChoiceYes or ChoiceNo.
func (c Choice) Valid() bool { return c <= ChoiceNo }

// Config is the process-wide custody configuration.
type Config struct {
	Authority      identity.Identity // recorded at initialisation; not consulted afterwards
	CustodyFeeBps  uint16
	FeeDestination identity.Identity
}

// Listing is a single asset offered for collective purchase.
type Listing struct {
	Asset         AssetID
	Seller        identity.Identity
	Price         uint64
	CustodyFee    uint64
	TotalRaise    uint64
	BpsSold       uint16
	Deadline      int64
	FundedAt      int64 // 0 until fully funded
	Status        ListingStatus
	Escrow        Address // account holding the asset unit
	ProposalCount uint32
}

// Contribution accumulates one contributor's stake in one listing.
type Contribution struct {
	Listing       Address
	Contributor   identity.Identity
	Bps           uint16
	Principal     uint64
	FeePaid       uint64
	RefundClaimed bool
}

// BelongsTo reports whether the record is keyed to (listing, contributor).
func (c *Contribution) BelongsTo(listing Address, contributor identity.Identity) bool {
	return c.Listing == listing && c.Contributor == contributor
}

// Proposal is a governance proposal to sell a custodied asset.
type Proposal struct {
	Listing      Address
	Proposer     identity.Identity
	ProposalID   uint32
	SalePrice    uint64
	VoteDeadline int64
	YesBps       uint16
	NoBps        uint16
	Status       ProposalStatus
}

// Vote is a single ballot. Its weight is the voter's share at cast time.
type Vote struct {
	Proposal Address
	Voter    identity.Identity
	BpsVoted uint16
	Choice   Choice
}

// RewardRegistry accumulates deposits of one reward asset for a listing.
type RewardRegistry struct {
	Listing       Address
	RewardAsset   AssetID
	TotalAmount   uint64
	ClaimedAmount uint64
}

// Remaining returns the deposited amount not yet claimed.
func (r *RewardRegistry) Remaining() uint64 {
	if r.ClaimedAmount > r.TotalAmount {
		return 0
	}
	return r.TotalAmount - r.ClaimedAmount
}

// ClaimRecord is one claimant's running total against a registry.
type ClaimRecord struct {
	Registry      Address
	Claimer       identity.Identity
	ClaimedAmount uint64
}

// BelongsTo reports whether the record is keyed to (registry, claimer).
func (c *ClaimRecord) BelongsTo(registry Address, claimer identity.Identity) bool {
	return c.Registry == registry && c.Claimer == claimer
}
