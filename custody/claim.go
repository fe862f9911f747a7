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

// payable is what a holder of share b may claim now: their share of
// everything ever deposited, less what they already claimed, capped by what
// the registry still holds.
func payable(reg *record.RewardRegistry, b uint16, already uint64) (uint64, error) {
	entitled, err := bps.Share(reg.TotalAmount, b)
	if err != nil {
		return 0, err
	}
	if entitled <= already {
		return 0, ErrNothingToClaim
	}
	amount := min(entitled-already, reg.Remaining())
	if amount == 0 {
		return 0, ErrNothingToClaim
	}
	return amount, nil
}

// ClaimReward pays the caller's outstanding share of a listing's reward
// registry for rewardAsset.
func (e *Engine) ClaimReward(ctx context.Context, claimer identity.Identity, listingAddr record.Address, rewardAsset record.AssetID) (*Result, error) {
	return e.run(ctx, "claim_reward", func(o *op) (*Result, error) {
		o.log(zap.Stringer("listing", listingAddr), zap.Stringer("caller", claimer), zap.Stringer("reward_asset", rewardAsset))

		l, err := loadListing(o.tx, listingAddr)
		if err != nil {
			return nil, err
		}
		if l.Status != record.ListingCustodied {
			return nil, fmt.Errorf("%w: listing is %s", ErrInvalidListingStatus, l.Status)
		}
		share, err := votingPower(o.tx, listingAddr, claimer)
		if err != nil {
			return nil, err
		}
		regAddr := record.RewardAddress(listingAddr, rewardAsset)
		reg, err := loadRegistry(o.tx, regAddr)
		if err != nil {
			return nil, err
		}
		if reg.Listing != listingAddr {
			return nil, ErrInvalidRewardRegistry
		}

		addr := record.ClaimAddress(regAddr, claimer)
		claim, err := find(o.tx, addr, record.UnmarshalClaimRecord)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidClaimRecord, err)
		}
		fresh := claim == nil
		if fresh {
			claim = &record.ClaimRecord{Registry: regAddr, Claimer: claimer}
		} else if !claim.BelongsTo(regAddr, claimer) {
			return nil, ErrInvalidClaimRecord
		}

		amount, err := payable(reg, share, claim.ClaimedAmount)
		if err != nil {
			return nil, err
		}
		if reg.ClaimedAmount, err = bps.Add(reg.ClaimedAmount, amount); err != nil {
			return nil, err
		}
		if claim.ClaimedAmount, err = bps.Add(claim.ClaimedAmount, amount); err != nil {
			return nil, err
		}

		if err := put(o.tx, regAddr, reg); err != nil {
			return nil, err
		}
		if fresh {
			err = create(o.tx, addr, claim)
		} else {
			err = put(o.tx, addr, claim)
		}
		if err != nil {
			return nil, err
		}

		err = o.transfer(ledger.EscrowAuthority(regAddr), ledger.Move{
			Asset:  rewardAsset,
			From:   record.RewardVaultAddress(regAddr),
			To:     ledger.UserAccount(claimer),
			Amount: amount,
		})
		if err != nil {
			return nil, err
		}

		return &Result{
			Address: addr,
			Amount:  amount,
			Message: fmt.Sprintf("claimed %d, %d claimed in total", amount, claim.ClaimedAmount),
		}, nil
	})
}
