package custody

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

// quoteOpen prices b basis points of an open listing.
func quoteOpen(l *record.Listing, b uint16) (bps.Quote, error) {
	if l.Status != record.ListingOpen {
		return bps.Quote{}, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
	}
	if b == 0 || !bps.Valid(b) {
		return bps.Quote{}, fmt.Errorf("%w: %d", ErrInvalidBps, b)
	}
	remaining, err := bps.Remaining(l.BpsSold)
	if err != nil {
		return bps.Quote{}, err
	}
	if b > remaining {
		return bps.Quote{}, fmt.Errorf("%w: %d requested, %d left", ErrExceedsAvailable, b, remaining)
	}
	return bps.QuoteShare(l.Price, l.CustodyFee, b)
}

// Contribute buys b basis points of an open listing. Repeated contributions
// from one contributor accumulate. Selling the last basis point funds the
// listing and starts the execution window.
func (e *Engine) Contribute(ctx context.Context, contributor identity.Identity, listingAddr record.Address, b uint16) (*Result, error) {
	return e.run(ctx, "contribute", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", contributor), zap.Uint16("bps", b))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		if l.Status != record.ListingOpen {
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}
		if b == 0 || !bps.Valid(b) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBps, b)
		}
		closes, err := bps.AddInt64(l.Deadline, -DeadlineMargin)
		if err != nil {
			return nil, err
		}
		if o.now >= closes {
			return nil, ErrListingExpired
		}
		q, err := quoteOpen(l, b)
		if err != nil {
			return nil, err
		}

		addr := record.ContributionAddress(listingAddr, contributor)
		c, err := find(o.tx, addr, record.UnmarshalContribution)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidContribution, err)
		}
		fresh := c == nil
		if fresh {
			c = &record.Contribution{Listing: listingAddr, Contributor: contributor}
		} else {
			if err := checkContribution(c, listingAddr, contributor); err != nil {
				return nil, err
			}
			if c.RefundClaimed {
				return nil, ErrAlreadyRefunded
			}
		}

		if c.Bps, err = bps.AddBps(c.Bps, b); err != nil {
			return nil, err
		}
		if c.Principal, err = bps.Add(c.Principal, q.Principal); err != nil {
			return nil, err
		}
		if c.FeePaid, err = bps.Add(c.FeePaid, q.Fee); err != nil {
			return nil, err
		}
		if l.BpsSold, err = bps.AddBps(l.BpsSold, b); err != nil {
			return nil, err
		}
		funded := l.BpsSold == bps.Max
		if funded {
			l.Status = record.ListingFunded
			l.FundedAt = o.now
		}

		if err := writeContribution(o.tx, addr, c, fresh); err != nil {
			return nil, err
		}
		if err := put(o.tx, listingAddr, l); err != nil {
			return nil, err
		}
		err = o.transfer(ledger.UserAuthority(contributor), ledger.Move{
			Asset:  ledger.Native,
			From:   ledger.UserAccount(contributor),
			To:     listingAddr,
			Amount: q.Total,
		})
		if err != nil {
			return nil, err
		}

		msg := fmt.Sprintf("contributed %s for %s", bps.Percent(b), bps.FormatUnits(q.Total, bps.NativeDecimals))
		if funded {
			msg += ", listing funded"
		}
		return &Result{Address: addr, Amount: q.Total, Message: msg}, nil
	})
}

func writeContribution(tx store.Tx, addr record.Address, c *record.Contribution, fresh bool) error {
	if !fresh {
		return put(tx, addr, c)
	}
	if err := create(tx, addr, c); err != nil {
		return err
	}
	return tx.AddIndex(holderIndex(c.Contributor), addr[:])
}
