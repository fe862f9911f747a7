package custody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

func (h *harness) register(listing record.Address, amount uint64) {
	h.t.Helper()
	_, err := h.engine.RegisterReward(h.ctx, depositor, listing, rewardToken, amount)
	require.NoError(h.t, err)
}

func (h *harness) claim(listing record.Address, who identity.Identity) uint64 {
	h.t.Helper()
	res, err := h.engine.ClaimReward(h.ctx, who, listing, rewardToken)
	require.NoError(h.t, err)
	return res.Amount
}

func (h *harness) claimable(listing record.Address, who identity.Identity) uint64 {
	h.t.Helper()
	v, err := h.engine.Claimable(h.ctx, listing, rewardToken, who)
	require.NoError(h.t, err)
	return v
}

func TestRegisterReward(t *testing.T) {
	h := newMemHarness(t)
	listing := h.custodied(share{alice, 10000})

	res, err := h.engine.RegisterReward(h.ctx, depositor, listing, rewardToken, 1000)
	require.NoError(t, err)
	regAddr := record.RewardAddress(listing, rewardToken)
	assert.Equal(t, regAddr, res.Address)
	h.register(listing, 500)

	reg, err := h.engine.RewardRegistry(h.ctx, listing, rewardToken)
	require.NoError(t, err)
	assert.Equal(t, listing, reg.Listing)
	assert.Equal(t, rewardToken, reg.RewardAsset)
	assert.Equal(t, uint64(1500), reg.TotalAmount)
	assert.Zero(t, reg.ClaimedAmount)

	assert.Equal(t, uint64(1500), h.balance(rewardToken, record.RewardVaultAddress(regAddr)))
	assert.Equal(t, uint64(1_000_000-1500), h.balance(rewardToken, ledger.UserAccount(depositor)))
}

func TestRegisterReward_Errors(t *testing.T) {
	h := newMemHarness(t)
	listing := h.list()

	_, err := h.engine.RegisterReward(h.ctx, depositor, listing, rewardToken, 1000)
	assert.ErrorIs(t, err, ErrInvalidListingStatus)

	h.fund(listing, share{alice, 10000})
	_, err = h.engine.ExecutePurchase(h.ctx, alice, listing)
	require.NoError(t, err)

	_, err = h.engine.RegisterReward(h.ctx, depositor, listing, rewardToken, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = h.engine.RegisterReward(h.ctx, depositor, listing, rewardToken, 2_000_000)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	_, err = h.engine.RewardRegistry(h.ctx, listing, rewardToken)
	assert.ErrorIs(t, err, ErrRewardNotFound, "a failed deposit leaves no registry")
}

func TestClaimReward_ScenarioE(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store.Store) {
		h := newHarness(t, s)
		listing := h.custodied(share{alice, 4000}, share{bob, 6000})
		regAddr := record.RewardAddress(listing, rewardToken)

		h.register(listing, 1000)
		h.register(listing, 500)
		assert.Equal(t, uint64(600), h.claimable(listing, alice))
		assert.Equal(t, uint64(600), h.claim(listing, alice))
		assert.Zero(t, h.claimable(listing, alice))

		h.register(listing, 1000)
		assert.Equal(t, uint64(400), h.claimable(listing, alice))
		assert.Equal(t, uint64(400), h.claim(listing, alice))

		_, err := h.engine.ClaimReward(h.ctx, alice, listing, rewardToken)
		assert.ErrorIs(t, err, ErrNothingToClaim)

		assert.Equal(t, uint64(1500), h.claim(listing, bob))

		reg, err := h.engine.RewardRegistry(h.ctx, listing, rewardToken)
		require.NoError(t, err)
		assert.Equal(t, uint64(2500), reg.TotalAmount)
		assert.Equal(t, uint64(2500), reg.ClaimedAmount)

		rec, err := h.engine.ClaimRecord(h.ctx, listing, rewardToken, alice)
		require.NoError(t, err)
		assert.Equal(t, regAddr, rec.Registry)
		assert.Equal(t, uint64(1000), rec.ClaimedAmount)

		assert.Equal(t, uint64(1000), h.balance(rewardToken, ledger.UserAccount(alice)))
		assert.Equal(t, uint64(1500), h.balance(rewardToken, ledger.UserAccount(bob)))
		assert.Zero(t, h.balance(rewardToken, record.RewardVaultAddress(regAddr)))
	})
}

func TestClaimReward_FloorRounding(t *testing.T) {
	h := newMemHarness(t)
	listing := h.custodied(share{alice, 3333}, share{bob, 3333}, share{carol, 3334})
	h.register(listing, 10)

	paid := h.claim(listing, alice) + h.claim(listing, bob) + h.claim(listing, carol)
	assert.Equal(t, uint64(9), paid, "floor division under-allocates the remainder")

	reg, err := h.engine.RewardRegistry(h.ctx, listing, rewardToken)
	require.NoError(t, err)
	assert.LessOrEqual(t, reg.ClaimedAmount, reg.TotalAmount)
}

func TestClaimReward_Errors(t *testing.T) {
	h := newMemHarness(t)
	listing := h.custodied(share{alice, 10000})

	_, err := h.engine.ClaimReward(h.ctx, alice, listing, rewardToken)
	assert.ErrorIs(t, err, ErrRewardNotFound)
	assert.Zero(t, h.claimable(listing, alice))

	h.register(listing, 100)
	_, err = h.engine.ClaimReward(h.ctx, bob, listing, rewardToken)
	assert.ErrorIs(t, err, ErrNoVotingPower)
	assert.Zero(t, h.claimable(listing, bob))

	_, err = h.engine.ClaimRecord(h.ctx, listing, rewardToken, alice)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClaimReward_RequiresCustody(t *testing.T) {
	h := newMemHarness(t)
	listing := h.list()
	h.fund(listing, share{alice, 500})

	_, err := h.engine.ClaimReward(h.ctx, alice, listing, rewardToken)
	assert.ErrorIs(t, err, ErrInvalidListingStatus)
	assert.Zero(t, h.claimable(listing, alice))
}

func TestClaimReward_Monotonic(t *testing.T) {
	h := newMemHarness(t)
	listing := h.custodied(share{alice, 2500}, share{bob, 7500})

	var lastRegistry, lastAlice uint64
	for round := 1; round <= 5; round++ {
		h.register(listing, uint64(round)*333)
		if round%2 == 0 {
			h.claim(listing, bob)
		}
		if v := h.claimable(listing, alice); v > 0 {
			h.claim(listing, alice)
		}

		reg, err := h.engine.RewardRegistry(h.ctx, listing, rewardToken)
		require.NoError(t, err)
		rec, err := h.engine.ClaimRecord(h.ctx, listing, rewardToken, alice)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, reg.ClaimedAmount, lastRegistry)
		assert.GreaterOrEqual(t, rec.ClaimedAmount, lastAlice)
		assert.LessOrEqual(t, rec.ClaimedAmount, reg.TotalAmount*2500/10000)
		lastRegistry, lastAlice = reg.ClaimedAmount, rec.ClaimedAmount
	}
}
