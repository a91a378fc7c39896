package gov_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/daoverse/src/gov"
	"github.com/stake-plus/daoverse/src/ledger"
)

func TestInitRegistry(t *testing.T) {
	env := setup(t)

	reg := env.initRegistry(0)
	assert.Equal(t, admin, reg.Admin)
	assert.Equal(t, platformAsset, reg.Asset)
	assert.Equal(t, uint64(500), reg.CreationFee)
	assert.Equal(t, uint64(0), reg.TreasuryBalance)

	// Treasury sub-account exists and is empty.
	assert.Equal(t, uint64(0), env.balance("registry", platformAsset))
}

func TestInitRegistryTwice(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)

	_, err := env.engine.InitRegistry(env.ctx(), gov.InitRegistryParams{
		Admin: "addr-other", Asset: platformAsset, CreationFee: 100,
	})
	assert.ErrorIs(t, err, gov.ErrAlreadyInitialized)
}

func TestInitRegistryDeposit(t *testing.T) {
	env := setup(t)
	env.fund(admin, platformAsset, 1000)

	reg := env.initRegistry(300)
	assert.Equal(t, uint64(300), reg.TreasuryBalance)
	assert.Equal(t, uint64(300), env.balance("registry", platformAsset))
	assert.Equal(t, uint64(700), env.balance(admin, platformAsset))
}

func TestInitRegistryDepositWithoutFunds(t *testing.T) {
	env := setup(t)

	_, err := env.engine.InitRegistry(env.ctx(), gov.InitRegistryParams{
		Admin: admin, Asset: platformAsset, CreationFee: 500, Deposit: 10,
	})
	assert.ErrorIs(t, err, gov.ErrInvalidMint)

	// The failed deposit must roll back registry creation too.
	_, err = env.engine.Registry(env.ctx())
	assert.ErrorIs(t, err, gov.ErrNotInitialized)
}

func TestUpdateRegistryAdminOnly(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)

	fee := uint64(900)
	_, err := env.engine.UpdateRegistry(env.ctx(), "addr-other", gov.RegistryUpdate{CreationFee: &fee})
	assert.ErrorIs(t, err, gov.ErrUnauthorized)
}

func TestUpdateRegistryPartial(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)

	fee := uint64(900)
	reg, err := env.engine.UpdateRegistry(env.ctx(), admin, gov.RegistryUpdate{CreationFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, uint64(900), reg.CreationFee)
	assert.Equal(t, "platform admin", reg.AdminName) // untouched
}

func TestUpdateRegistryStringBounds(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)

	long := strings.Repeat("x", 33)
	_, err := env.engine.UpdateRegistry(env.ctx(), admin, gov.RegistryUpdate{AdminName: &long})
	assert.ErrorIs(t, err, gov.ErrStringTooLong)

	longDesc := strings.Repeat("x", 201)
	_, err = env.engine.UpdateRegistry(env.ctx(), admin, gov.RegistryUpdate{Description: &longDesc})
	assert.ErrorIs(t, err, gov.ErrStringTooLong)
}

func TestUpdateRegistryResyncsTreasury(t *testing.T) {
	env := setup(t)
	env.initRegistry(0)

	// Out-of-band deposit straight into the treasury sub-account.
	require.NoError(t, ledger.New(env.db).Deposit("registry", platformAsset, 250))

	reg, err := env.engine.UpdateRegistry(env.ctx(), admin, gov.RegistryUpdate{})
	require.NoError(t, err)
	assert.Equal(t, uint64(250), reg.TreasuryBalance)
}
