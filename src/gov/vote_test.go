package gov_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/daoverse/src/gov"
)

func TestCastVote(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 200)

	rec, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 60)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), rec.Staked)
	assert.False(t, rec.Claimed)

	// Stake moved from the voter into the pool sub-account.
	assert.Equal(t, uint64(140), env.balance(voter, daoAsset))
	assert.Equal(t, uint64(60), env.balance(poolOwner(member, 1), daoAsset))

	sum, err := env.engine.Votes(env.ctx(), member, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sum.Yes)
	assert.Equal(t, uint64(0), sum.No)
	assert.Equal(t, uint64(60), sum.PoolBalance)
}

func TestCastVoteTwice(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 200)

	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 50)
	require.NoError(t, err)
	_, err = env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteNo, 50)
	assert.ErrorIs(t, err, gov.ErrAlreadyVoted)

	// The rejected vote moved nothing.
	assert.Equal(t, uint64(150), env.balance(voter, daoAsset))
	assert.Equal(t, uint64(50), env.balance(poolOwner(member, 1), daoAsset))
}

func TestCastVoteBelowVoterFloor(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 149)

	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 50)
	assert.ErrorIs(t, err, gov.ErrInsufficientDaoTokens)
}

func TestCastVoteBelowMinStake(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1) // minStake 50
	env.fund(voter, daoAsset, 200)

	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 49)
	assert.ErrorIs(t, err, gov.ErrInsufficientStake)
}

func TestCastVoteStakeExceedsBalance(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 150)

	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 151)
	assert.ErrorIs(t, err, gov.ErrInsufficientDaoTokens)
}

func TestCastVoteInvalidDirection(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 200)

	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, "abstain", 50)
	assert.ErrorIs(t, err, gov.ErrInvalidDirection)
}

func TestCastVoteConcurrentVoters(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)

	const voters = 8
	for i := 0; i < voters; i++ {
		env.fund(fmt.Sprintf("addr-racer-%d", i), daoAsset, 200)
	}

	// Racing votes must not lose tally or pool increments to each other.
	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := fmt.Sprintf("addr-racer-%d", i)
			_, errs[i] = env.engine.CastVote(env.ctx(), addr, member, 1, gov.VoteYes, 50)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "voter %d", i)
	}

	sum, err := env.engine.Votes(env.ctx(), member, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(voters), sum.Yes)
	assert.Equal(t, uint64(voters*50), sum.PoolBalance)
	assert.Equal(t, uint64(voters*50), env.balance(poolOwner(member, 1), daoAsset))
}

func TestCastVoteAfterDeadline(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 200)

	env.advance(3601)
	_, err := env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 50)
	assert.ErrorIs(t, err, gov.ErrVotingPeriodEnded)
}

func TestCastVoteAfterFinalize(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)
	env.createDao(0)
	env.createProposal(member, 1)
	env.fund(voter, daoAsset, 200)

	env.advance(3601)
	_, err := env.engine.FinalizeProposal(env.ctx(), admin, member, 1)
	require.NoError(t, err)

	// The terminal sentinel keeps the proposal closed even if the clock
	// were somehow rolled back.
	env.now = 500_000
	_, err = env.engine.CastVote(env.ctx(), voter, member, 1, gov.VoteYes, 50)
	assert.ErrorIs(t, err, gov.ErrVotingPeriodEnded)
}
