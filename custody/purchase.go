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

// windowEnd returns the end of a funded listing's execution window.
func windowEnd(l *record.Listing) (int64, error) {
	return bps.AddInt64(l.FundedAt, ExecutionWindow)
}

// ExecutePurchase pays the seller and the fee destination out of a funded
// listing and moves it into joint custody. Anyone may call it while the
// execution window is open.
func (e *Engine) ExecutePurchase(ctx context.Context, caller identity.Identity, listingAddr record.Address) (*Result, error) {
	return e.run(ctx, "execute_purchase", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", caller))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		if l.Status != record.ListingFunded {
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}
		end, err := windowEnd(l)
		if err != nil {
			return nil, err
		}
		if l.FundedAt > 0 && o.now > end {
			return nil, ErrExecutionWindowExpired
		}
		cfg, err := loadConfig(o.tx)
		if err != nil {
			return nil, err
		}

		held, err := o.balance(ledger.Native, listingAddr)
		if err != nil {
			return nil, err
		}
		if held < l.TotalRaise {
			return nil, fmt.Errorf("%w: holds %d, owes %d", ErrInsufficientListingFunds, held, l.TotalRaise)
		}
		escrowed, err := o.balance(l.Asset, l.Escrow)
		if err != nil {
			return nil, err
		}
		if escrowed != 1 {
			return nil, ErrAssetNotEscrowed
		}

		l.Status = record.ListingCustodied
		if err := put(o.tx, listingAddr, l); err != nil {
			return nil, err
		}
		err = o.transfer(ledger.EscrowAuthority(listingAddr),
			ledger.Move{Asset: ledger.Native, From: listingAddr, To: ledger.UserAccount(l.Seller), Amount: l.Price},
			ledger.Move{Asset: ledger.Native, From: listingAddr, To: ledger.UserAccount(cfg.FeeDestination), Amount: l.CustodyFee},
		)
		if err != nil {
			return nil, err
		}

		return &Result{
			Address: listingAddr,
			Amount:  l.Price,
			Message: fmt.Sprintf("purchase executed, seller paid %s, fee %s",
				bps.FormatUnits(l.Price, bps.NativeDecimals),
				bps.FormatUnits(l.CustodyFee, bps.NativeDecimals)),
		}, nil
	})
}
