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

// RegisterReward deposits amount units of rewardAsset for the holders of a
// custodied listing. Deposits of the same asset accumulate in one registry.
func (e *Engine) RegisterReward(ctx context.Context, depositor identity.Identity, listingAddr record.Address, rewardAsset record.AssetID, amount uint64) (*Result, error) {
	return e.run(ctx, "register_reward", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", depositor), zap.Stringer("reward_asset", rewardAsset))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		if l.Status != record.ListingCustodied {
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}
		if amount == 0 {
			return nil, ErrInvalidAmount
		}

		addr := record.RewardAddress(listingAddr, rewardAsset)
		reg, err := find(o.tx, addr, record.UnmarshalRewardRegistry)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRewardRegistry, err)
		}
		fresh := reg == nil
		if fresh {
			reg = &record.RewardRegistry{Listing: listingAddr, RewardAsset: rewardAsset}
		} else if reg.Listing != listingAddr || reg.RewardAsset != rewardAsset {
			return nil, ErrInvalidRewardRegistry
		}
		if reg.TotalAmount, err = bps.Add(reg.TotalAmount, amount); err != nil {
			return nil, err
		}

		if fresh {
			err = create(o.tx, addr, reg)
		} else {
			err = put(o.tx, addr, reg)
		}
		if err != nil {
			return nil, err
		}

		vault := record.RewardVaultAddress(addr)
		if err := o.openEscrow(vault, addr); err != nil {
			return nil, err
		}
		err = o.transfer(ledger.UserAuthority(depositor), ledger.Move{
			Asset:  rewardAsset,
			From:   ledger.UserAccount(depositor),
			To:     vault,
			Amount: amount,
		})
		if err != nil {
			return nil, err
		}

		return &Result{
			Address: addr,
			Amount:  amount,
			Message: fmt.Sprintf("reward registered, total %d", reg.TotalAmount),
		}, nil
	})
}
