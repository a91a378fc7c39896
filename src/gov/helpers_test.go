package gov_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/gov"
	"github.com/stake-plus/daoverse/src/ledger"
)

const (
	platformAsset = "GOV"
	daoAsset      = "DAO"

	admin   = "addr-admin"
	creator = "addr-creator"
	member  = "addr-member"
	voter   = "addr-voter"
)

// testEnv drives the engine against an in-memory database with a
// controllable clock.
type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	engine *gov.Engine
	now    int64
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps every goroutine on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	models := append([]interface{}{&ledger.SubAccount{}}, gov.Models...)
	require.NoError(t, db.AutoMigrate(models...))

	env := &testEnv{t: t, db: db, now: 1_000_000}
	env.engine = gov.NewEngine(db).WithClock(func() int64 { return env.now })
	return env
}

func (env *testEnv) ctx() context.Context { return context.Background() }

func (env *testEnv) advance(seconds int64) { env.now += seconds }

func (env *testEnv) fund(owner, asset string, amount uint64) {
	env.t.Helper()
	require.NoError(env.t, ledger.New(env.db).Deposit(owner, asset, amount))
}

func (env *testEnv) balance(owner, asset string) uint64 {
	env.t.Helper()
	bal, err := ledger.New(env.db).BalanceOf(owner, asset)
	require.NoError(env.t, err)
	return bal
}

func daoTreasuryOwner(creator string, seed uint64) string {
	return fmt.Sprintf("dao:%s:%d", creator, seed)
}

func poolOwner(owner string, seed uint64) string {
	return fmt.Sprintf("proposal:%s:%d", owner, seed)
}

func (env *testEnv) initRegistry(deposit uint64) *gov.Registry {
	env.t.Helper()
	reg, err := env.engine.InitRegistry(env.ctx(), gov.InitRegistryParams{
		Admin:       admin,
		Asset:       platformAsset,
		CreationFee: 500,
		AdminName:   "platform admin",
		Description: "platform registry",
		Deposit:     deposit,
	})
	require.NoError(env.t, err)
	return reg
}

func defaultThreshold() gov.Threshold {
	return gov.Threshold{QuorumPct: 50, ApprovalPct: 50, MinPeriod: 0, MaxPeriod: 7200}
}

// createDao funds the creator with 1200 platform tokens and the given dao
// asset deposit, then creates a dao under seed 1.
func (env *testEnv) createDao(deposit uint64) *gov.Dao {
	env.t.Helper()
	env.fund(creator, platformAsset, 1200)
	if deposit > 0 {
		env.fund(creator, daoAsset, deposit)
	}
	dao, err := env.engine.CreateDao(env.ctx(), gov.CreateDaoParams{
		Creator:         creator,
		Seed:            1,
		Asset:           daoAsset,
		Name:            "test dao",
		Description:     "a dao for tests",
		GovernanceModel: gov.GovernanceTokenBased,
		VotingModel:     gov.VotingOneTokenOneVote,
		RewardModel:     gov.RewardProportional,
		Threshold:       defaultThreshold(),
		Deposit:         deposit,
	})
	require.NoError(env.t, err)
	return dao
}

// createProposal funds the proposer to the floor and opens a proposal with
// minStake 50 closing one hour out.
func (env *testEnv) createProposal(proposer string, seed uint64) *gov.Proposal {
	env.t.Helper()
	env.fund(proposer, daoAsset, 200)
	p, err := env.engine.CreateProposal(env.ctx(), gov.CreateProposalParams{
		Proposer:      proposer,
		DaoCreator:    creator,
		DaoSeed:       1,
		Seed:          seed,
		Title:         "test proposal",
		Details:       "a proposal for tests",
		Cost:          10,
		MinStake:      50,
		VotingEndTime: env.now + 3600,
	})
	require.NoError(env.t, err)
	return p
}
