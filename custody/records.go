package custody

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

type marshaler interface {
	Marshal() []byte
}

// load reads and decodes the record at addr, returning missing when absent
// or when the record there is of another kind.
func load[T any](tx store.Tx, addr record.Address, missing error, decode func([]byte) (*T, error)) (*T, error) {
	v, err := find(tx, addr, decode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", missing, addr, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", missing, addr)
	}
	return v, nil
}

// find is load without the missing error: an absent record is (nil, nil).
func find[T any](tx store.Tx, addr record.Address, decode func([]byte) (*T, error)) (*T, error) {
	data, err := tx.Get(addr[:])
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func create(tx store.Tx, addr record.Address, m marshaler) error {
	return tx.Create(addr[:], m.Marshal())
}

func put(tx store.Tx, addr record.Address, m marshaler) error {
	return tx.Put(addr[:], m.Marshal())
}

func loadConfig(tx store.Tx) (*record.Config, error) {
	return load(tx, record.ConfigAddress(), ErrConfigNotInitialized, record.UnmarshalConfig)
}

func loadListing(tx store.Tx, addr record.Address) (*record.Listing, error) {
	return load(tx, addr, ErrListingNotFound, record.UnmarshalListing)
}

func loadProposal(tx store.Tx, addr record.Address) (*record.Proposal, error) {
	return load(tx, addr, ErrProposalNotFound, record.UnmarshalProposal)
}

func loadRegistry(tx store.Tx, addr record.Address) (*record.RewardRegistry, error) {
	return load(tx, addr, ErrRewardNotFound, record.UnmarshalRewardRegistry)
}

// holderIndex is the secondary index of contributions held by id.
func holderIndex(id identity.Identity) []byte {
	return append([]byte("holder/"), id[:]...)
}

// checkContribution rejects a contribution record keyed to another listing
// or held by someone other than caller.
func checkContribution(c *record.Contribution, listing record.Address, caller identity.Identity) error {
	if c.Listing != listing {
		return fmt.Errorf("%w: recorded listing %s", ErrInvalidContribution, c.Listing)
	}
	if c.Contributor != caller {
		return fmt.Errorf("%w: contribution held by %s", ErrUnauthorized, c.Contributor)
	}
	return nil
}

// votingPower returns caller's share of listing. Governance and rewards
// require a positive share.
func votingPower(tx store.Tx, listing record.Address, caller identity.Identity) (uint16, error) {
	c, err := find(tx, record.ContributionAddress(listing, caller), record.UnmarshalContribution)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, fmt.Errorf("%w: %s has no contribution", ErrNoVotingPower, caller)
	}
	if err := checkContribution(c, listing, caller); err != nil {
		return 0, err
	}
	if c.Bps == 0 {
		return 0, ErrNoVotingPower
	}
	return c.Bps, nil
}
