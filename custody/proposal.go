package custody

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
)

// CreateProposal opens a vote on selling a custodied asset for salePrice.
// Proposal ids count up from zero per listing and are never reused.
func (e *Engine) CreateProposal(ctx context.Context, proposer identity.Identity, listingAddr record.Address, salePrice uint64, voteOffset int64) (*Result, error) {
	return e.run(ctx, "create_proposal", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", proposer))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		if l.Status != record.ListingCustodied {
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}
		if _, err := votingPower(o.tx, listingAddr, proposer); err != nil {
			return nil, err
		}
		if salePrice == 0 {
			return nil, ErrInvalidAmount
		}
		if !validOffset(voteOffset) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDeadline, voteOffset)
		}
		voteDeadline, err := bps.AddInt64(o.now, voteOffset)
		if err != nil {
			return nil, err
		}
		if l.ProposalCount == math.MaxUint32 {
			return nil, ErrMathOverflow
		}

		id := l.ProposalCount
		addr := record.ProposalAddress(listingAddr, id)
		p := &record.Proposal{
			Listing:      listingAddr,
			Proposer:     proposer,
			ProposalID:   id,
			SalePrice:    salePrice,
			VoteDeadline: voteDeadline,
			Status:       record.ProposalActive,
		}
		if err := create(o.tx, addr, p); err != nil {
			return nil, err
		}
		l.ProposalCount++
		if err := put(o.tx, listingAddr, l); err != nil {
			return nil, err
		}

		o.log(zap.Uint32("proposal_id", id))
		return &Result{
			Address: addr,
			Amount:  salePrice,
			Message: fmt.Sprintf("proposal %d: sell for %s", id, bps.FormatUnits(salePrice, bps.NativeDecimals)),
		}, nil
	})
}
