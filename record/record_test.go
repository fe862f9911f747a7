package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/fracvault-go/identity"
)

func makeAsset(seed byte) AssetID {
	var a AssetID
	for i := range a {
		a[i] = seed
	}
	return a
}

func makeIdentity(seed byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

// --- Address derivation ---

func TestDerive_Deterministic(t *testing.T) {
	asset := makeAsset(0x01)
	assert.Equal(t, ListingAddress(asset), ListingAddress(asset))
	assert.NotEqual(t, ListingAddress(asset), ListingAddress(makeAsset(0x02)))
	assert.NotEqual(t, ListingAddress(asset), VaultAddress(asset), "tags separate namespaces")
}

func TestDerive_LengthPrefixed(t *testing.T) {
	// Without length prefixes these two tuples would hash the same bytes.
	a := Derive("ab", []byte("c"))
	b := Derive("a", []byte("bc"))
	assert.NotEqual(t, a, b)

	c := Derive(TagVote, []byte{1, 2}, []byte{3})
	d := Derive(TagVote, []byte{1}, []byte{2, 3})
	assert.NotEqual(t, c, d)
}

func TestDerive_ScopedAddresses(t *testing.T) {
	listing := ListingAddress(makeAsset(0x10))
	alice, bob := makeIdentity(0xA1), makeIdentity(0xB0)

	assert.NotEqual(t, ContributionAddress(listing, alice), ContributionAddress(listing, bob))
	assert.NotEqual(t, ProposalAddress(listing, 0), ProposalAddress(listing, 1))

	p0 := ProposalAddress(listing, 0)
	assert.NotEqual(t, VoteAddress(p0, alice), VoteAddress(ProposalAddress(listing, 1), alice))

	reg := RewardAddress(listing, makeAsset(0x20))
	assert.NotEqual(t, reg, RewardAddress(listing, makeAsset(0x21)))
	assert.NotEqual(t, ClaimAddress(reg, alice), ClaimAddress(reg, bob))
	assert.NotEqual(t, reg, RewardVaultAddress(reg))
}

func TestParseAddress(t *testing.T) {
	addr := ConfigAddress()
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("abcd")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ParseAddress("not-hex")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

// --- Layouts ---

func TestMarshal_Sizes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"config", (&Config{}).Marshal(), 43},
		{"listing", (&Listing{}).Marshal(), 132},
		{"contribution", (&Contribution{}).Marshal(), 72},
		{"proposal", (&Proposal{}).Marshal(), 78},
		{"vote", (&Vote{}).Marshal(), 56},
		{"reward", (&RewardRegistry{}).Marshal(), 81},
		{"claim", (&ClaimRecord{}).Marshal(), 61},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.data, tt.want)
		})
	}
}

func TestListing_RoundTrip(t *testing.T) {
	l := &Listing{
		Asset:         makeAsset(0x01),
		Seller:        makeIdentity(0x02),
		Price:         10_000_000_000,
		CustodyFee:    100_000_000,
		TotalRaise:    10_100_000_000,
		BpsSold:       7000,
		Deadline:      1_700_086_400,
		FundedAt:      0,
		Status:        ListingOpen,
		Escrow:        VaultAddress(makeAsset(0x01)),
		ProposalCount: 3,
	}
	decoded, err := UnmarshalListing(l.Marshal())
	require.NoError(t, err)
	assert.Equal(t, l, decoded)
}

func TestContribution_RoundTrip(t *testing.T) {
	c := &Contribution{
		Listing:       ListingAddress(makeAsset(0x01)),
		Contributor:   makeIdentity(0x03),
		Bps:           2500,
		Principal:     2_500_000_000,
		FeePaid:       25_000_000,
		RefundClaimed: true,
	}
	decoded, err := UnmarshalContribution(c.Marshal())
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
	assert.True(t, decoded.BelongsTo(c.Listing, c.Contributor))
	assert.False(t, decoded.BelongsTo(c.Listing, makeIdentity(0x04)))
}

func TestNegativeTimestamps_RoundTrip(t *testing.T) {
	p := &Proposal{ProposalID: 7, VoteDeadline: -42, YesBps: 5100, Status: ProposalApproved}
	decoded, err := UnmarshalProposal(p.Marshal())
	require.NoError(t, err)
	assert.Equal(t, int64(-42), decoded.VoteDeadline)
	assert.Equal(t, ProposalApproved, decoded.Status)
}

func TestUnmarshal_Errors(t *testing.T) {
	listing := (&Listing{}).Marshal()

	_, err := UnmarshalListing(listing[:10])
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = UnmarshalConfig(listing[:configSize])
	assert.ErrorIs(t, err, ErrKindMismatch)

	bad := append([]byte(nil), listing...)
	bad[1+32+20+8+8+8+2+8+8] = 0xFF // status byte
	_, err = UnmarshalListing(bad)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	vote := (&Vote{}).Marshal()
	vote[len(vote)-1] = 9
	_, err = UnmarshalVote(vote)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	contrib := (&Contribution{}).Marshal()
	contrib[len(contrib)-1] = 2
	_, err = UnmarshalContribution(contrib)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = KindOf(nil)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestRewardRegistry_Remaining(t *testing.T) {
	r := &RewardRegistry{TotalAmount: 2500, ClaimedAmount: 600}
	assert.Equal(t, uint64(1900), r.Remaining())
	r.ClaimedAmount = 3000
	assert.Equal(t, uint64(0), r.Remaining())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "custodied", ListingCustodied.String())
	assert.Equal(t, "approved", ProposalApproved.String())
	assert.Equal(t, "no", ChoiceNo.String())
	assert.Equal(t, "ListingStatus(9)", ListingStatus(9).String())
	assert.Equal(t, "listing", KindListing.String())
}
