package ledger_test

import (
	"math"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

func newService(t *testing.T) *ledger.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps every goroutine on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&ledger.SubAccount{}))
	return ledger.New(db)
}

func TestDepositAndBalance(t *testing.T) {
	l := newService(t)

	require.NoError(t, l.Deposit("alice", "GOV", 100))
	require.NoError(t, l.Deposit("alice", "GOV", 50))

	bal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(150), bal)
}

func TestBalanceOfMissingAccount(t *testing.T) {
	l := newService(t)

	_, err := l.BalanceOf("nobody", "GOV")
	assert.ErrorIs(t, err, ledger.ErrNoAccount)
}

func TestOpenIsIdempotent(t *testing.T) {
	l := newService(t)

	require.NoError(t, l.Open("alice", "GOV"))
	require.NoError(t, l.Deposit("alice", "GOV", 75))
	require.NoError(t, l.Open("alice", "GOV"))

	bal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(75), bal)
}

func TestTransfer(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 100))

	// The destination is created on first use.
	require.NoError(t, l.Transfer("alice", "bob", "GOV", 40))

	aBal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	bBal, err := l.BalanceOf("bob", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), aBal)
	assert.Equal(t, uint64(40), bBal)
}

func TestTransferShortfall(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 30))

	err := l.Transfer("alice", "bob", "GOV", 31)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	bal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(30), bal)
}

func TestTransferMissingSource(t *testing.T) {
	l := newService(t)

	err := l.Transfer("ghost", "bob", "GOV", 1)
	assert.ErrorIs(t, err, ledger.ErrNoAccount)
}

func TestAccountsScopedByAsset(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 100))
	require.NoError(t, l.Deposit("alice", "DAO", 25))

	// Holding one asset says nothing about another.
	err := l.Transfer("alice", "bob", "USD", 1)
	assert.ErrorIs(t, err, ledger.ErrNoAccount)

	gov, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	dao, err := l.BalanceOf("alice", "DAO")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), gov)
	assert.Equal(t, uint64(25), dao)
}

func TestTransferSameAccount(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 100))

	err := l.Transfer("alice", "alice", "GOV", 40)
	assert.ErrorIs(t, err, ledger.ErrSameAccount)

	bal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal)
}

func TestTransferConcurrentDebits(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 100))

	// Two racing 60-token debits against a 100-token balance: the guarded
	// debit lets exactly one through no matter how the reads interleave.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Transfer("alice", "bob", "GOV", 60)
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	aBal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	bBal, err := l.BalanceOf("bob", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(40), aBal)
	assert.Equal(t, uint64(60), bBal)
}

func TestDepositOverflow(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("alice", "GOV", 1))

	err := l.Deposit("alice", "GOV", math.MaxUint64)
	assert.ErrorIs(t, err, ledger.ErrOverflow)

	bal, err := l.BalanceOf("alice", "GOV")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal)
}

func TestCloseRefundsRemainder(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Deposit("pool", "DAO", 12))
	require.NoError(t, l.Deposit("alice", "DAO", 5))

	dust, err := l.Close("pool", "DAO", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), dust)

	bal, err := l.BalanceOf("alice", "DAO")
	require.NoError(t, err)
	assert.Equal(t, uint64(17), bal)

	_, err = l.BalanceOf("pool", "DAO")
	assert.ErrorIs(t, err, ledger.ErrNoAccount)
}

func TestCloseEmptyAccount(t *testing.T) {
	l := newService(t)
	require.NoError(t, l.Open("pool", "DAO"))

	dust, err := l.Close("pool", "DAO", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), dust)

	_, err = l.BalanceOf("pool", "DAO")
	assert.ErrorIs(t, err, ledger.ErrNoAccount)
}
