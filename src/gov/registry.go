package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

type InitRegistryParams struct {
	Admin       string
	Asset       string
	CreationFee uint64
	AdminName   string
	Description string
	Deposit     uint64
}

// InitRegistry creates the platform singleton and its treasury sub-account.
// An optional initial deposit moves from the admin into the treasury with a
// checked balance increment.
func (e *Engine) InitRegistry(ctx context.Context, p InitRegistryParams) (*Registry, error) {
	if err := checkName(p.AdminName); err != nil {
		return nil, err
	}
	if err := checkDescription(p.Description); err != nil {
		return nil, err
	}

	var reg Registry
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		err := tx.First(&reg, "id = ?", registryID).Error
		if err == nil {
			return ErrAlreadyInitialized
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reg = Registry{
			ID:          registryID,
			Admin:       p.Admin,
			Asset:       p.Asset,
			CreationFee: p.CreationFee,
			AdminName:   p.AdminName,
			Description: p.Description,
		}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}
		if err := l.Open(registryOwner, p.Asset); err != nil {
			return err
		}

		if p.Deposit == 0 {
			return nil
		}
		if err := l.Transfer(p.Admin, registryOwner, p.Asset, p.Deposit); err != nil {
			return mapPlatformLedgerErr(err)
		}
		next, ok := checkedAdd(reg.TreasuryBalance, p.Deposit)
		if !ok {
			return ErrOverflow
		}
		reg.TreasuryBalance = next
		return tx.Save(&reg).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// RegistryUpdate carries present-or-absent fields; only present fields are
// applied.
type RegistryUpdate struct {
	CreationFee *uint64
	AdminName   *string
	Description *string
}

// UpdateRegistry applies an admin-only partial update. The tracked treasury
// balance is resynchronized against the ledger as a side effect, picking up
// any out-of-band deposits.
func (e *Engine) UpdateRegistry(ctx context.Context, caller string, upd RegistryUpdate) (*Registry, error) {
	var reg Registry
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		if err := loadRegistry(lock(tx), &reg); err != nil {
			return err
		}
		if caller != reg.Admin {
			return ErrUnauthorized
		}

		if upd.CreationFee != nil {
			reg.CreationFee = *upd.CreationFee
		}
		if upd.AdminName != nil {
			if err := checkName(*upd.AdminName); err != nil {
				return err
			}
			reg.AdminName = *upd.AdminName
		}
		if upd.Description != nil {
			if err := checkDescription(*upd.Description); err != nil {
				return err
			}
			reg.Description = *upd.Description
		}

		bal, err := l.BalanceOf(registryOwner, reg.Asset)
		if err != nil {
			return err
		}
		reg.TreasuryBalance = bal
		return tx.Save(&reg).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Registry returns the singleton, ErrNotInitialized before InitRegistry.
func (e *Engine) Registry(ctx context.Context) (*Registry, error) {
	var reg Registry
	if err := loadRegistry(e.db.WithContext(ctx), &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func loadRegistry(tx *gorm.DB, reg *Registry) error {
	err := tx.First(reg, "id = ?", registryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotInitialized
	}
	return err
}

// mapPlatformLedgerErr translates ledger failures on the platform asset
// into the engine taxonomy.
func mapPlatformLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNoAccount):
		return ErrInvalidMint
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ErrInsufficientPlatformTokens
	case errors.Is(err, ledger.ErrOverflow):
		return ErrOverflow
	default:
		return err
	}
}

// mapDaoLedgerErr does the same for dao-asset operations.
func mapDaoLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNoAccount):
		return ErrInvalidDaoMint
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ErrInsufficientDaoTokens
	case errors.Is(err, ledger.ErrOverflow):
		return ErrCalculation
	default:
		return err
	}
}
