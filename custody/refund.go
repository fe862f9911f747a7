package custody

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
)

// refundable reports whether contributions to l can be refunded at now:
// an open listing past its deadline, an expired listing, or a funded listing
// whose execution window has elapsed.
func refundable(l *record.Listing, now int64) (bool, error) {
	switch l.Status {
	case record.ListingOpen:
		return now >= l.Deadline, nil
	case record.ListingExpired:
		return true, nil
	case record.ListingFunded:
		end, err := windowEnd(l)
		if err != nil {
			return false, err
		}
		return l.FundedAt > 0 && now >= end, nil
	}
	return false, nil
}

// ProcessRefund returns a contributor's principal and fee from a listing
// that failed to complete. The first refund of an open listing past its
// deadline expires the listing for everyone.
func (e *Engine) ProcessRefund(ctx context.Context, contributor identity.Identity, listingAddr record.Address) (*Result, error) {
	return e.run(ctx, "process_refund", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", contributor))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		addr := record.ContributionAddress(listingAddr, contributor)
		c, err := load(o.tx, addr, ErrContributionNotFound, record.UnmarshalContribution)
		if err != nil {
			return nil, err
		}
		if err := checkContribution(c, listingAddr, contributor); err != nil {
			return nil, err
		}
		if c.RefundClaimed {
			return nil, ErrAlreadyRefunded
		}
		ok, err := refundable(l, o.now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: listing is %s", ErrNotRefundable, l.Status)
		}

		amount, err := bps.Add(c.Principal, c.FeePaid)
		if err != nil {
			return nil, err
		}
		held, err := o.balance(ledger.Native, listingAddr)
		if err != nil {
			return nil, err
		}
		if held < amount {
			return nil, fmt.Errorf("%w: holds %d, owes %d", ErrInsufficientListingFunds, held, amount)
		}

		c.RefundClaimed = true
		if err := put(o.tx, addr, c); err != nil {
			return nil, err
		}
		expired := l.Status == record.ListingOpen
		if expired {
			l.Status = record.ListingExpired
			if err := put(o.tx, listingAddr, l); err != nil {
				return nil, err
			}
		}
		err = o.transfer(ledger.EscrowAuthority(listingAddr), ledger.Move{
			Asset:  ledger.Native,
			From:   listingAddr,
			To:     ledger.UserAccount(contributor),
			Amount: amount,
		})
		if err != nil {
			return nil, err
		}

		msg := "refunded " + bps.FormatUnits(amount, bps.NativeDecimals)
		if expired {
			msg += ", listing expired"
		}
		return &Result{Address: addr, Amount: amount, Message: msg}, nil
	})
}
