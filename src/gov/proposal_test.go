package gov_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/daoverse/src/gov"
)

func TestCreateProposal(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)

	p := env.createProposal(member, 1)
	assert.Equal(t, uint64(0), p.VotesYes)
	assert.Equal(t, uint64(0), p.VotesNo)
	assert.Equal(t, uint64(0), p.PoolBalance)
	assert.False(t, p.Finalized())

	// The staking pool sub-account exists and is empty.
	assert.Equal(t, uint64(0), env.balance(poolOwner(member, 1), daoAsset))

	dao, err := env.engine.Dao(env.ctx(), creator, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), dao.TotalProposals)
}

func TestCreateProposalInsufficientTokens(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.fund(member, daoAsset, 199)

	_, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      member,
		DaoCreator:    creator,
		DaoSeed:       1,
		Seed:          1,
		Title:         "underfunded",
		Details:       "proposer below the floor",
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	assert.ErrorIs(t, err, gov.ErrInsufficientDaoTokens)
}

func TestCreateProposalWindowBounds(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.fund(member, daoAsset, 200)

	mk := func(end int64) error {
		_, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
			Proposer:      member,
			DaoCreator:    creator,
			DaoSeed:       1,
			Seed:          1,
			Title:         "window check",
			Details:       "voting window validation",
			MinStake:      50,
			VotingEndTime: end,
		})
		return err
	}

	// Deadline in the past and at the current instant are both rejected.
	assert.ErrorIs(t, mk(env.now-1), gov.ErrInvalidVotingPeriod)
	assert.ErrorIs(t, mk(env.now), gov.ErrInvalidVotingPeriod)
	// Window beyond the dao's max period (7200) is rejected.
	assert.ErrorIs(t, mk(env.now+7201), gov.ErrInvalidVotingPeriod)
	// Window exactly at the max is fine.
	assert.NoError(t, mk(env.now+7200))
}

func TestCreateProposalTitleTooLong(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.fund(member, daoAsset, 200)

	_, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      member,
		DaoCreator:    creator,
		DaoSeed:       1,
		Seed:          1,
		Title:         strings.Repeat("t", 33),
		Details:       "ok",
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	assert.ErrorIs(t, err, gov.ErrStringTooLong)

	_, err = env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      member,
		DaoCreator:    creator,
		DaoSeed:       1,
		Seed:          1,
		Title:         "ok",
		Details:       strings.Repeat("d", 201),
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	assert.ErrorIs(t, err, gov.ErrStringTooLong)
}

func TestCreateProposalDuplicateSeed(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)

	_, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      member,
		DaoCreator:    creator,
		DaoSeed:       1,
		Seed:          1,
		Title:         "again",
		Details:       "same owner and seed",
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	assert.ErrorIs(t, err, gov.ErrAlreadyExists)
}

func TestCreateProposalUnknownDao(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.fund(member, daoAsset, 200)

	_, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      member,
		DaoCreator:    creator,
		DaoSeed:       9,
		Seed:          1,
		Title:         "orphan",
		Details:       "no such dao",
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	assert.ErrorIs(t, err, gov.ErrNotFound)
}
