package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

// Config returns the custody configuration.
func (e *Engine) Config(ctx context.Context) (*record.Config, error) {
	var cfg *record.Config
	err := e.view(ctx, func(tx store.Tx) (err error) {
		cfg, err = loadConfig(tx)
		return err
	})
	return cfg, err
}

// Listing returns the listing at addr.
func (e *Engine) Listing(ctx context.Context, addr record.Address) (*record.Listing, error) {
	var l *record.Listing
	err := e.view(ctx, func(tx store.Tx) (err error) {
		l, err = loadListing(tx, addr)
		return err
	})
	return l, err
}

// Contribution returns contributor's contribution to listing.
func (e *Engine) Contribution(ctx context.Context, listing record.Address, contributor identity.Identity) (*record.Contribution, error) {
	var c *record.Contribution
	err := e.view(ctx, func(tx store.Tx) (err error) {
		c, err = load(tx, record.ContributionAddress(listing, contributor), ErrContributionNotFound, record.UnmarshalContribution)
		return err
	})
	return c, err
}

// Proposal returns the proposal at addr.
func (e *Engine) Proposal(ctx context.Context, addr record.Address) (*record.Proposal, error) {
	var p *record.Proposal
	err := e.view(ctx, func(tx store.Tx) (err error) {
		p, err = loadProposal(tx, addr)
		return err
	})
	return p, err
}

// Proposals returns every proposal of listing in id order.
func (e *Engine) Proposals(ctx context.Context, listing record.Address) ([]*record.Proposal, error) {
	var out []*record.Proposal
	err := e.view(ctx, func(tx store.Tx) error {
		l, err := loadListing(tx, listing)
		if err != nil {
			return err
		}
		out = make([]*record.Proposal, 0, l.ProposalCount)
		for id := uint32(0); id < l.ProposalCount; id++ {
			p, err := loadProposal(tx, record.ProposalAddress(listing, id))
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// Vote returns voter's ballot on proposal, or store.ErrNotFound.
func (e *Engine) Vote(ctx context.Context, proposal record.Address, voter identity.Identity) (*record.Vote, error) {
	var v *record.Vote
	err := e.view(ctx, func(tx store.Tx) (err error) {
		v, err = load(tx, record.VoteAddress(proposal, voter), store.ErrNotFound, record.UnmarshalVote)
		return err
	})
	return v, err
}

// RewardRegistry returns the registry of rewardAsset for listing.
func (e *Engine) RewardRegistry(ctx context.Context, listing record.Address, rewardAsset record.AssetID) (*record.RewardRegistry, error) {
	var reg *record.RewardRegistry
	err := e.view(ctx, func(tx store.Tx) (err error) {
		reg, err = loadRegistry(tx, record.RewardAddress(listing, rewardAsset))
		return err
	})
	return reg, err
}

// ClaimRecord returns claimer's running claim total against the registry of
// rewardAsset for listing, or store.ErrNotFound before the first claim.
func (e *Engine) ClaimRecord(ctx context.Context, listing record.Address, rewardAsset record.AssetID, claimer identity.Identity) (*record.ClaimRecord, error) {
	var c *record.ClaimRecord
	err := e.view(ctx, func(tx store.Tx) (err error) {
		reg := record.RewardAddress(listing, rewardAsset)
		c, err = load(tx, record.ClaimAddress(reg, claimer), store.ErrNotFound, record.UnmarshalClaimRecord)
		return err
	})
	return c, err
}

// QuoteContribution prices b basis points of an open listing without
// checking the deadline.
func (e *Engine) QuoteContribution(ctx context.Context, listing record.Address, b uint16) (bps.Quote, error) {
	var q bps.Quote
	err := e.view(ctx, func(tx store.Tx) error {
		l, err := loadListing(tx, listing)
		if err != nil {
			return err
		}
		q, err = quoteOpen(l, b)
		return err
	})
	return q, err
}

// Claimable returns what ClaimReward would pay claimer now. It is zero when
// the listing is not custodied, the claimer holds no share, nothing has been
// registered, or everything owed has been claimed.
func (e *Engine) Claimable(ctx context.Context, listing record.Address, rewardAsset record.AssetID, claimer identity.Identity) (uint64, error) {
	var amount uint64
	err := e.view(ctx, func(tx store.Tx) error {
		l, err := loadListing(tx, listing)
		if err != nil {
			return err
		}
		if l.Status != record.ListingCustodied {
			return nil
		}
		share, err := votingPower(tx, listing, claimer)
		if errors.Is(err, ErrNoVotingPower) {
			return nil
		}
		if err != nil {
			return err
		}
		regAddr := record.RewardAddress(listing, rewardAsset)
		reg, err := find(tx, regAddr, record.UnmarshalRewardRegistry)
		if err != nil || reg == nil {
			return err
		}
		already := uint64(0)
		claim, err := find(tx, record.ClaimAddress(regAddr, claimer), record.UnmarshalClaimRecord)
		if err != nil {
			return err
		}
		if claim != nil {
			already = claim.ClaimedAmount
		}
		amount, err = payable(reg, share, already)
		if errors.Is(err, ErrNothingToClaim) {
			return nil
		}
		return err
	})
	return amount, err
}

// Holdings returns every contribution record held by contributor, in
// address order.
func (e *Engine) Holdings(ctx context.Context, contributor identity.Identity) ([]*record.Contribution, error) {
	var out []*record.Contribution
	err := e.view(ctx, func(tx store.Tx) error {
		keys, err := tx.Scan(holderIndex(contributor))
		if err != nil {
			return err
		}
		out = make([]*record.Contribution, 0, len(keys))
		for _, key := range keys {
			var addr record.Address
			if len(key) != len(addr) {
				return fmt.Errorf("%w: holder index key of %d bytes", record.ErrInvalidAddress, len(key))
			}
			copy(addr[:], key)
			c, err := load(tx, addr, ErrContributionNotFound, record.UnmarshalContribution)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

// Refundable reports whether contributions to listing are refundable at
// the given time.
func (e *Engine) Refundable(ctx context.Context, listing record.Address, at int64) (bool, error) {
	var ok bool
	err := e.view(ctx, func(tx store.Tx) error {
		l, err := loadListing(tx, listing)
		if err != nil {
			return err
		}
		ok, err = refundable(l, at)
		return err
	})
	return ok, err
}
