package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

type CreateProposalParams struct {
	Proposer      string
	DaoCreator    string
	DaoSeed       uint64
	Seed          uint64
	Title         string
	Details       string
	Cost          uint64
	MinStake      uint64
	VotingEndTime int64
}

// CreateProposal opens a proposal with zero tallies and an empty staking
// pool. The proposer must hold at least MinProposerBalance of the dao's
// asset, and the voting window must fit the dao's configured period bounds
// (a max period of zero means unbounded).
func (e *Engine) CreateProposal(ctx context.Context, p CreateProposalParams) (*Proposal, error) {
	if err := checkName(p.Title); err != nil {
		return nil, err
	}
	if err := checkDescription(p.Details); err != nil {
		return nil, err
	}

	var proposal Proposal
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var dao Dao
		if err := loadDao(lock(tx), &dao, p.DaoCreator, p.DaoSeed); err != nil {
			return err
		}

		now := e.now()
		if p.VotingEndTime <= now {
			return ErrInvalidVotingPeriod
		}
		window := uint64(p.VotingEndTime - now)
		if window < dao.MinVotingPeriod {
			return ErrInvalidVotingPeriod
		}
		if dao.MaxVotingPeriod > 0 && window > dao.MaxVotingPeriod {
			return ErrInvalidVotingPeriod
		}

		bal, err := l.BalanceOf(p.Proposer, dao.Asset)
		if err != nil {
			return mapDaoLedgerErr(err)
		}
		if bal < MinProposerBalance {
			return ErrInsufficientDaoTokens
		}

		var existing Proposal
		err = tx.First(&existing, "owner = ? AND seed = ?", p.Proposer, p.Seed).Error
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		proposal = Proposal{
			DaoID:         dao.ID,
			Owner:         p.Proposer,
			Seed:          p.Seed,
			Title:         p.Title,
			Details:       p.Details,
			Cost:          p.Cost,
			MinStake:      p.MinStake,
			VotingEndTime: p.VotingEndTime,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}
		if err := l.Open(proposalOwner(proposal.Owner, proposal.Seed), dao.Asset); err != nil {
			return err
		}

		next, ok := checkedAdd(dao.TotalProposals, 1)
		if !ok {
			return ErrCalculation
		}
		dao.TotalProposals = next
		return tx.Save(&dao).Error
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// Proposal looks up one proposal by its (owner, seed) key.
func (e *Engine) Proposal(ctx context.Context, owner string, seed uint64) (*Proposal, error) {
	var proposal Proposal
	if err := loadProposal(e.db.WithContext(ctx), &proposal, owner, seed); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func loadProposal(tx *gorm.DB, p *Proposal, owner string, seed uint64) error {
	err := tx.First(p, "owner = ? AND seed = ?", owner, seed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
