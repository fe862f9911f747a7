package record

import (
	"encoding/binary"
	"fmt"
)

// Serialized sizes, including the kind byte.
const (
	configSize       = 1 + 20 + 2 + 20
	listingSize      = 1 + 32 + 20 + 8 + 8 + 8 + 2 + 8 + 8 + 1 + 32 + 4
	contributionSize = 1 + 32 + 20 + 2 + 8 + 8 + 1
	proposalSize     = 1 + 32 + 20 + 4 + 8 + 8 + 2 + 2 + 1
	voteSize         = 1 + 32 + 20 + 2 + 1
	rewardSize       = 1 + 32 + 32 + 8 + 8
	claimSize        = 1 + 32 + 20 + 8
)

// writer appends fixed-width fields to a preallocated buffer.
type writer struct{ buf []byte }

func newWriter(kind Kind, size int) *writer {
	w := &writer{buf: make([]byte, 0, size)}
	w.buf = append(w.buf, byte(kind))
	return w
}

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) u8(v uint8)     { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16)   { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32)   { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)   { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }
func (w *writer) i64(v int64)    { w.u64(uint64(v)) }
func (w *writer) flag(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// reader consumes fixed-width fields. Callers check the total length up
// front, so individual reads never run short.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte, kind Kind, size int) (*reader, error) {
	if len(data) != size {
		return nil, fmt.Errorf("%w: %s expected %d bytes, got %d", ErrInvalidRecord, kind, size, len(data))
	}
	if Kind(data[0]) != kind {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, kind, Kind(data[0]))
	}
	return &reader{data: data, off: 1}, nil
}

func (r *reader) fixed(dst []byte) {
	copy(dst, r.data[r.off:r.off+len(dst)])
	r.off += len(dst)
}

func (r *reader) u8() uint8 {
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32() uint32 {
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) u64() uint64 {
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) flag() (bool, error) {
	switch r.u8() {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: boolean byte", ErrInvalidRecord)
}

var kindNames = map[Kind]string{
	KindConfig:         "config",
	KindListing:        "listing",
	KindContribution:   "contribution",
	KindProposal:       "proposal",
	KindVote:           "vote",
	KindRewardRegistry: "reward registry",
	KindClaim:          "claim record",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOf returns the kind byte of serialized record data.
func KindOf(data []byte) (Kind, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidRecord)
	}
	return Kind(data[0]), nil
}

// Marshal serializes the config record.
func (c *Config) Marshal() []byte {
	w := newWriter(KindConfig, configSize)
	w.bytes(c.Authority[:])
	w.u16(c.CustodyFeeBps)
	w.bytes(c.FeeDestination[:])
	return w.buf
}

// UnmarshalConfig decodes a config record.
func UnmarshalConfig(data []byte) (*Config, error) {
	r, err := newReader(data, KindConfig, configSize)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	r.fixed(c.Authority[:])
	c.CustodyFeeBps = r.u16()
	r.fixed(c.FeeDestination[:])
	return c, nil
}

// Marshal serializes the listing record.
func (l *Listing) Marshal() []byte {
	w := newWriter(KindListing, listingSize)
	w.bytes(l.Asset[:])
	w.bytes(l.Seller[:])
	w.u64(l.Price)
	w.u64(l.CustodyFee)
	w.u64(l.TotalRaise)
	w.u16(l.BpsSold)
	w.i64(l.Deadline)
	w.i64(l.FundedAt)
	w.u8(uint8(l.Status))
	w.bytes(l.Escrow[:])
	w.u32(l.ProposalCount)
	return w.buf
}

// UnmarshalListing decodes a listing record.
func UnmarshalListing(data []byte) (*Listing, error) {
	r, err := newReader(data, KindListing, listingSize)
	if err != nil {
		return nil, err
	}
	l := &Listing{}
	r.fixed(l.Asset[:])
	r.fixed(l.Seller[:])
	l.Price = r.u64()
	l.CustodyFee = r.u64()
	l.TotalRaise = r.u64()
	l.BpsSold = r.u16()
	l.Deadline = r.i64()
	l.FundedAt = r.i64()
	l.Status = ListingStatus(r.u8())
	if !l.Status.valid() {
		return nil, fmt.Errorf("%w: listing status %d", ErrInvalidStatus, uint8(l.Status))
	}
	r.fixed(l.Escrow[:])
	l.ProposalCount = r.u32()
	return l, nil
}

// Marshal serializes the contribution record.
func (c *Contribution) Marshal() []byte {
	w := newWriter(KindContribution, contributionSize)
	w.bytes(c.Listing[:])
	w.bytes(c.Contributor[:])
	w.u16(c.Bps)
	w.u64(c.Principal)
	w.u64(c.FeePaid)
	w.flag(c.RefundClaimed)
	return w.buf
}

// UnmarshalContribution decodes a contribution record.
func UnmarshalContribution(data []byte) (*Contribution, error) {
	r, err := newReader(data, KindContribution, contributionSize)
	if err != nil {
		return nil, err
	}
	c := &Contribution{}
	r.fixed(c.Listing[:])
	r.fixed(c.Contributor[:])
	c.Bps = r.u16()
	c.Principal = r.u64()
	c.FeePaid = r.u64()
	if c.RefundClaimed, err = r.flag(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal serializes the proposal record.
func (p *Proposal) Marshal() []byte {
	w := newWriter(KindProposal, proposalSize)
	w.bytes(p.Listing[:])
	w.bytes(p.Proposer[:])
	w.u32(p.ProposalID)
	w.u64(p.SalePrice)
	w.i64(p.VoteDeadline)
	w.u16(p.YesBps)
	w.u16(p.NoBps)
	w.u8(uint8(p.Status))
	return w.buf
}

// UnmarshalProposal decodes a proposal record.
func UnmarshalProposal(data []byte) (*Proposal, error) {
	r, err := newReader(data, KindProposal, proposalSize)
	if err != nil {
		return nil, err
	}
	p := &Proposal{}
	r.fixed(p.Listing[:])
	r.fixed(p.Proposer[:])
	p.ProposalID = r.u32()
	p.SalePrice = r.u64()
	p.VoteDeadline = r.i64()
	p.YesBps = r.u16()
	p.NoBps = r.u16()
	p.Status = ProposalStatus(r.u8())
	if !p.Status.valid() {
		return nil, fmt.Errorf("%w: proposal status %d", ErrInvalidStatus, uint8(p.Status))
	}
	return p, nil
}

// Marshal serializes the vote record.
func (v *Vote) Marshal() []byte {
	w := newWriter(KindVote, voteSize)
	w.bytes(v.Proposal[:])
	w.bytes(v.Voter[:])
	w.u16(v.BpsVoted)
	w.u8(uint8(v.Choice))
	return w.buf
}

// UnmarshalVote decodes a vote record.
func UnmarshalVote(data []byte) (*Vote, error) {
	r, err := newReader(data, KindVote, voteSize)
	if err != nil {
		return nil, err
	}
	v := &Vote{}
	r.fixed(v.Proposal[:])
	r.fixed(v.Voter[:])
	v.BpsVoted = r.u16()
	v.Choice = Choice(r.u8())
	if !v.Choice.Valid() {
		return nil, fmt.Errorf("%w: choice %d", ErrInvalidStatus, uint8(v.Choice))
	}
	return v, nil
}

// Marshal serializes the reward registry record.
func (r *RewardRegistry) Marshal() []byte {
	w := newWriter(KindRewardRegistry, rewardSize)
	w.bytes(r.Listing[:])
	w.bytes(r.RewardAsset[:])
	w.u64(r.TotalAmount)
	w.u64(r.ClaimedAmount)
	return w.buf
}

// UnmarshalRewardRegistry decodes a reward registry record.
func UnmarshalRewardRegistry(data []byte) (*RewardRegistry, error) {
	r, err := newReader(data, KindRewardRegistry, rewardSize)
	if err != nil {
		return nil, err
	}
	reg := &RewardRegistry{}
	r.fixed(reg.Listing[:])
	r.fixed(reg.RewardAsset[:])
	reg.TotalAmount = r.u64()
	reg.ClaimedAmount = r.u64()
	return reg, nil
}

// Marshal serializes the claim record.
func (c *ClaimRecord) Marshal() []byte {
	w := newWriter(KindClaim, claimSize)
	w.bytes(c.Registry[:])
	w.bytes(c.Claimer[:])
	w.u64(c.ClaimedAmount)
	return w.buf
}

// UnmarshalClaimRecord decodes a claim record.
func UnmarshalClaimRecord(data []byte) (*ClaimRecord, error) {
	r, err := newReader(data, KindClaim, claimSize)
	if err != nil {
		return nil, err
	}
	c := &ClaimRecord{}
	r.fixed(c.Registry[:])
	r.fixed(c.Claimer[:])
	c.ClaimedAmount = r.u64()
	return c, nil
}
