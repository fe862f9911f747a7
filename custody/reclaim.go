package custody

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
)

// ReclaimNFT returns the escrowed asset of a listing that will not complete
// to its seller. Anyone may call it; the asset always goes to the seller.
func (e *Engine) ReclaimNFT(ctx context.Context, caller identity.Identity, listingAddr record.Address) (*Result, error) {
	return e.run(ctx, "reclaim_nft", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", caller))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		switch l.Status {
		case record.ListingOpen:
			if o.now < l.Deadline {
				return nil, ErrListingNotExpired
			}
		case record.ListingExpired:
		case record.ListingFunded:
			end, err := windowEnd(l)
			if err != nil {
				return nil, err
			}
			if l.FundedAt == 0 || o.now < end {
				return nil, ErrExecutionWindowNotExpired
			}
		default:
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}

		err = o.transfer(ledger.EscrowAuthority(listingAddr), ledger.Move{
			Asset:  l.Asset,
			From:   l.Escrow,
			To:     ledger.UserAccount(l.Seller),
			Amount: 1,
		})
		if err != nil {
			return nil, err
		}
		return &Result{
			Address: listingAddr,
			Amount:  1,
			Message: "asset returned to seller " + l.Seller.String(),
		}, nil
	})
}
