package custody

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

func validOffset(offset int64) bool {
	return offset >= MinDeadlineOffset && offset <= MaxDeadlineOffset
}

// CreateListing escrows the seller's unit of asset and opens a listing that
// raises price plus the custody fee by deadlineOffset seconds from now.
func (e *Engine) CreateListing(ctx context.Context, seller identity.Identity, asset record.AssetID, price uint64, deadlineOffset int64) (*Result, error) {
	return e.run(ctx, "create_listing", func(o *op) (*Result, error) {
		addr := record.ListingAddress(asset)
		o.log(zap.Stringer("listing", addr), zap.Stringer("caller", seller), zap.Stringer("asset", asset))

		cfg, err := loadConfig(o.tx)
		if err != nil {
			return nil, err
		}
		if price == 0 {
			return nil, ErrInvalidAmount
		}
		if !validOffset(deadlineOffset) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDeadline, deadlineOffset)
		}
		if asset == ledger.Native {
			return nil, fmt.Errorf("%w: the native unit cannot be listed", ErrInvalidAssetOwnership)
		}
		held, err := o.balance(asset, ledger.UserAccount(seller))
		if err != nil {
			return nil, err
		}
		if held != 1 {
			return nil, fmt.Errorf("%w: holds %d", ErrInvalidAssetOwnership, held)
		}

		fee, total, err := bps.TotalRaise(price, cfg.CustodyFeeBps)
		if err != nil {
			return nil, err
		}
		deadline, err := bps.AddInt64(o.now, deadlineOffset)
		if err != nil {
			return nil, err
		}

		vault := record.VaultAddress(asset)
		listing := &record.Listing{
			Asset:      asset,
			Seller:     seller,
			Price:      price,
			CustodyFee: fee,
			TotalRaise: total,
			Deadline:   deadline,
			Status:     record.ListingOpen,
			Escrow:     vault,
		}
		if err := create(o.tx, addr, listing); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, fmt.Errorf("%w: %s", ErrListingExists, asset)
			}
			return nil, err
		}

		if err := o.openEscrow(addr, addr); err != nil {
			return nil, err
		}
		if err := o.openEscrow(vault, addr); err != nil {
			return nil, err
		}
		err = o.transfer(ledger.UserAuthority(seller), ledger.Move{
			Asset:  asset,
			From:   ledger.UserAccount(seller),
			To:     vault,
			Amount: 1,
		})
		if err != nil {
			return nil, err
		}

		return &Result{
			Address: addr,
			Amount:  total,
			Message: fmt.Sprintf("listed at %s, raising %s (fee %s)",
				bps.FormatUnits(price, bps.NativeDecimals),
				bps.FormatUnits(total, bps.NativeDecimals),
				bps.FormatUnits(fee, bps.NativeDecimals)),
		}, nil
	})
}
