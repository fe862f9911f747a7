package custody

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

// CastVote records one ballot weighted by the voter's current share. A
// proposal is approved the moment its yes share passes one half.
func (e *Engine) CastVote(ctx context.Context, voter identity.Identity, proposalAddr record.Address, choice record.Choice) (*Result, error) {
	return e.run(ctx, "cast_vote", func(o *op) (*Result, error) {
		o.log(zap.Stringer("proposal", proposalAddr), zap.Stringer("caller", voter), zap.Stringer("choice", choice))

		if !choice.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, uint8(choice))
		}
		p, err := loadProposal(o.tx, proposalAddr)
		if err != nil {
			return nil, err
		}
		if record.ProposalAddress(p.Listing, p.ProposalID) != proposalAddr {
			return nil, ErrInvalidProposal
		}
		if p.Status != record.ProposalActive {
			return nil, fmt.Errorf("%w: proposal is %s", ErrInvalidProposalStatus, p.Status)
		}
		weight, err := votingPower(o.tx, p.Listing, voter)
		if err != nil {
			return nil, err
		}
		closes, err := bps.AddInt64(p.VoteDeadline, -DeadlineMargin)
		if err != nil {
			return nil, err
		}
		if o.now >= closes {
			return nil, ErrVotingEnded
		}

		addr := record.VoteAddress(proposalAddr, voter)
		v := &record.Vote{Proposal: proposalAddr, Voter: voter, BpsVoted: weight, Choice: choice}
		if err := create(o.tx, addr, v); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, ErrAlreadyVoted
			}
			return nil, err
		}

		switch choice {
		case record.ChoiceYes:
			p.YesBps, err = bps.AddBps(p.YesBps, weight)
		case record.ChoiceNo:
			p.NoBps, err = bps.AddBps(p.NoBps, weight)
		}
		if err != nil {
			return nil, err
		}
		approved := p.YesBps > bps.Majority
		if approved {
			p.Status = record.ProposalApproved
		}
		if err := put(o.tx, proposalAddr, p); err != nil {
			return nil, err
		}

		msg := fmt.Sprintf("voted %s with %s (yes %s, no %s)",
			choice, bps.Percent(weight), bps.Percent(p.YesBps), bps.Percent(p.NoBps))
		if approved {
			msg += ", proposal approved"
		}
		return &Result{Address: addr, Amount: uint64(weight), Message: msg}, nil
	})
}
