package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

// CastVote records one voter's single vote on an open proposal, staking
// collateral into the proposal's pool. The tally update, the tracked pool
// increment, and the voter-to-pool transfer commit as one unit.
func (e *Engine) CastVote(ctx context.Context, voter, owner string, seed uint64, direction string, stake uint64) (*VoteRecord, error) {
	if direction != VoteYes && direction != VoteNo {
		return nil, ErrInvalidDirection
	}

	var record VoteRecord
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var proposal Proposal
		if err := loadProposal(lock(tx), &proposal, owner, seed); err != nil {
			return err
		}
		if !proposal.Open(e.now()) {
			return ErrVotingPeriodEnded
		}

		var dao Dao
		if err := loadDaoByID(tx, &dao, proposal.DaoID); err != nil {
			return err
		}

		bal, err := l.BalanceOf(voter, dao.Asset)
		if err != nil {
			return mapDaoLedgerErr(err)
		}
		if bal < MinVoterBalance {
			return ErrInsufficientDaoTokens
		}
		if stake < proposal.MinStake {
			return ErrInsufficientStake
		}
		if bal < stake {
			return ErrInsufficientDaoTokens
		}

		var existing VoteRecord
		err = tx.First(&existing, "proposal_id = ? AND voter = ?", proposal.ID, voter).Error
		if err == nil {
			return ErrAlreadyVoted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch direction {
		case VoteYes:
			next, ok := checkedAdd(proposal.VotesYes, 1)
			if !ok {
				return ErrCalculation
			}
			proposal.VotesYes = next
		case VoteNo:
			next, ok := checkedAdd(proposal.VotesNo, 1)
			if !ok {
				return ErrCalculation
			}
			proposal.VotesNo = next
		}

		next, ok := checkedAdd(proposal.PoolBalance, stake)
		if !ok {
			return ErrCalculation
		}
		proposal.PoolBalance = next

		record = VoteRecord{
			ProposalID: proposal.ID,
			Voter:      voter,
			Direction:  direction,
			Staked:     stake,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := l.Transfer(voter, proposalOwner(owner, seed), dao.Asset, stake); err != nil {
			return mapDaoLedgerErr(err)
		}
		return tx.Save(&proposal).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// VoteSummary aggregates a proposal's tallies and pool standing.
type VoteSummary struct {
	Yes         uint64 `json:"yes"`
	No          uint64 `json:"no"`
	PoolBalance uint64 `json:"poolBalance"`
	Finalized   bool   `json:"finalized"`
	Approved    bool   `json:"approved"`
}

func (e *Engine) Votes(ctx context.Context, owner string, seed uint64) (*VoteSummary, error) {
	var proposal Proposal
	if err := loadProposal(e.db.WithContext(ctx), &proposal, owner, seed); err != nil {
		return nil, err
	}
	return &VoteSummary{
		Yes:         proposal.VotesYes,
		No:          proposal.VotesNo,
		PoolBalance: proposal.PoolBalance,
		Finalized:   proposal.Finalized(),
		Approved:    proposal.Approved,
	}, nil
}
