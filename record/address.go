package record

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/fracvault-go/identity"
)

// AddressSize is the byte length of a derived record address.
const AddressSize = 32

// Address is the deterministic location of a record (or escrow account).
type Address [AddressSize]byte

// AssetID identifies an asset type: a unique asset unit or a reward token.
type AssetID [32]byte

// Address derivation tags.
const (
	TagConfig       = "config"
	TagListing      = "listing"
	TagVault        = "vault"
	TagContribution = "contribution"
	TagProposal     = "proposal"
	TagVote         = "vote"
	TagReward       = "reward"
	TagRewardVault  = "reward_vault"
	TagClaim        = "claim"
)

// Derive computes SHA256(len(tag) || tag || len(p0) || p0 || ...).
// Length prefixes make the encoding injective, so distinct (tag, parts)
// tuples never share a preimage.
func Derive(tag string, parts ...[]byte) Address {
	size := 2 + len(tag)
	for _, p := range parts {
		size += 2 + len(p)
	}
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(tag)))
	buf = append(buf, tag...)
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(p)))
		buf = append(buf, p...)
	}
	var addr Address
	copy(addr[:], bsvhash.Sha256(buf))
	return addr
}

// ConfigAddress is the singleton configuration address.
func ConfigAddress() Address {
	return Derive(TagConfig)
}

// ListingAddress is the listing for an asset.
func ListingAddress(asset AssetID) Address {
	return Derive(TagListing, asset[:])
}

// VaultAddress is the escrow account holding a listed asset.
func VaultAddress(asset AssetID) Address {
	return Derive(TagVault, asset[:])
}

// ContributionAddress is a contributor's ledger entry for a listing.
func ContributionAddress(listing Address, contributor identity.Identity) Address {
	return Derive(TagContribution, listing[:], contributor[:])
}

// ProposalAddress is the id-th proposal of a listing.
func ProposalAddress(listing Address, id uint32) Address {
	return Derive(TagProposal, listing[:], binary.LittleEndian.AppendUint32(nil, id))
}

// VoteAddress is a voter's ballot on a proposal.
func VoteAddress(proposal Address, voter identity.Identity) Address {
	return Derive(TagVote, proposal[:], voter[:])
}

// RewardAddress is the registry of one reward asset for a listing.
func RewardAddress(listing Address, rewardAsset AssetID) Address {
	return Derive(TagReward, listing[:], rewardAsset[:])
}

// RewardVaultAddress is the escrow account holding a registry's deposits.
func RewardVaultAddress(registry Address) Address {
	return Derive(TagRewardVault, registry[:])
}

// ClaimAddress is a claimant's running total against a registry.
func ClaimAddress(registry Address, claimer identity.Identity) Address {
	return Derive(TagClaim, registry[:], claimer[:])
}

// ParseAddress decodes a hex-encoded address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// String returns the hex encoding of the asset id.
func (a AssetID) String() string {
	return hex.EncodeToString(a[:])
}
