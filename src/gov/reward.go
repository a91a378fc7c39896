package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

// FinalizeProposal settles a proposal whose deadline has elapsed: it moves
// a reward of RewardPercent of the staking pool from the dao treasury into
// the pool, evaluates quorum and approval against the dao's threshold, and
// sets the terminal sentinel. Finalization is permissionless but happens
// exactly once; there is no reversal path.
func (e *Engine) FinalizeProposal(ctx context.Context, caller, owner string, seed uint64) (*Proposal, error) {
	var proposal Proposal
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		if err := loadProposal(lock(tx), &proposal, owner, seed); err != nil {
			return err
		}
		if proposal.Finalized() {
			return ErrAlreadyFinalized
		}
		if e.now() < proposal.VotingEndTime {
			return ErrVotingPeriodNotEnded
		}

		var dao Dao
		if err := loadDaoByID(lock(tx), &dao, proposal.DaoID); err != nil {
			return err
		}

		reward, err := rewardCut(proposal.PoolBalance)
		if err != nil {
			return err
		}
		if reward > 0 {
			if dao.TreasuryBalance < reward {
				return ErrInsufficientFunds
			}
			if err := l.Transfer(daoOwner(dao.Creator, dao.Seed), proposalOwner(owner, seed), dao.Asset, reward); err != nil {
				return mapDaoLedgerErr(err)
			}
			next, ok := checkedSub(dao.TreasuryBalance, reward)
			if !ok {
				return ErrCalculation
			}
			dao.TreasuryBalance = next

			next, ok = checkedAdd(proposal.PoolBalance, reward)
			if !ok {
				return ErrCalculation
			}
			proposal.PoolBalance = next
		}

		votes, ok := checkedAdd(proposal.VotesYes, proposal.VotesNo)
		if !ok {
			return ErrCalculation
		}
		if votes > 0 {
			quorum, err := quorumMet(votes, dao.MemberCount, dao.QuorumPct)
			if err != nil {
				return err
			}
			approval, err := approvalMet(proposal.VotesYes, votes, dao.ApprovalPct)
			if err != nil {
				return err
			}
			if quorum && approval {
				proposal.Approved = true
				next, ok := checkedAdd(dao.ApprovedProposals, 1)
				if !ok {
					return ErrCalculation
				}
				dao.ApprovedProposals = next
			}
		}

		proposal.VotingEndTime = 0
		if err := tx.Save(&dao).Error; err != nil {
			return err
		}
		return tx.Save(&proposal).Error
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func quorumMet(votes, members uint64, quorumPct uint8) (bool, error) {
	if quorumPct == 0 {
		return true, nil
	}
	lhs, ok := checkedMul(votes, 100)
	if !ok {
		return false, ErrCalculation
	}
	rhs, ok := checkedMul(members, uint64(quorumPct))
	if !ok {
		return false, ErrCalculation
	}
	return lhs >= rhs, nil
}

func approvalMet(yes, votes uint64, approvalPct uint8) (bool, error) {
	lhs, ok := checkedMul(yes, 100)
	if !ok {
		return false, ErrCalculation
	}
	rhs, ok := checkedMul(votes, uint64(approvalPct))
	if !ok {
		return false, ErrCalculation
	}
	return lhs >= rhs, nil
}

// ClaimResult reports what a claim paid out.
type ClaimResult struct {
	Principal  uint64 `json:"principal"`
	Interest   uint64 `json:"interest"`
	Dust       uint64 `json:"dust"`
	PoolClosed bool   `json:"poolClosed"`
}

// ClaimReward returns a voter's stake from the pool plus RewardPercent
// interest from the dao treasury, then marks the vote record claimed. The
// claimed flag is checked before any transfer, so a duplicate claim moves
// no funds. When the last unclaimed record is settled the pool sub-account
// is closed and remaining dust goes to the claiming voter.
func (e *Engine) ClaimReward(ctx context.Context, voter, owner string, seed uint64) (*ClaimResult, error) {
	var res ClaimResult
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var proposal Proposal
		if err := loadProposal(lock(tx), &proposal, owner, seed); err != nil {
			return err
		}
		if !proposal.Finalized() {
			return ErrNotFinalized
		}

		var record VoteRecord
		err := lock(tx).First(&record, "proposal_id = ? AND voter = ?", proposal.ID, voter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if record.Claimed {
			return ErrRewardsAlreadyClaimed
		}

		var dao Dao
		if err := loadDaoByID(lock(tx), &dao, proposal.DaoID); err != nil {
			return err
		}

		staked := record.Staked
		pool := proposalOwner(owner, seed)
		if err := l.Transfer(pool, voter, dao.Asset, staked); err != nil {
			return mapDaoLedgerErr(err)
		}

		interest, err := rewardCut(staked)
		if err != nil {
			return err
		}
		if dao.TreasuryBalance < interest {
			return ErrInsufficientFunds
		}
		if interest > 0 {
			if err := l.Transfer(daoOwner(dao.Creator, dao.Seed), voter, dao.Asset, interest); err != nil {
				return mapDaoLedgerErr(err)
			}
			next, ok := checkedSub(dao.TreasuryBalance, interest)
			if !ok {
				return ErrCalculation
			}
			dao.TreasuryBalance = next
			if err := tx.Save(&dao).Error; err != nil {
				return err
			}
		}

		next, ok := checkedSub(proposal.PoolBalance, staked)
		if !ok {
			return ErrCalculation
		}
		proposal.PoolBalance = next

		record.Claimed = true
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		res = ClaimResult{Principal: staked, Interest: interest}

		var unclaimed int64
		if err := tx.Model(&VoteRecord{}).
			Where("proposal_id = ? AND claimed = ?", proposal.ID, false).
			Count(&unclaimed).Error; err != nil {
			return err
		}
		if unclaimed == 0 {
			dust, err := l.Close(pool, dao.Asset, voter)
			if err != nil {
				return err
			}
			proposal.PoolBalance = 0
			res.Dust = dust
			res.PoolClosed = true
		}

		return tx.Save(&proposal).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
