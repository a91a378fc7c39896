package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

type CreateDaoParams struct {
	Creator         string
	Seed            uint64
	Asset           string
	Name            string
	Description     string
	GovernanceModel string
	VotingModel     string
	RewardModel     string
	Threshold       Threshold
	Deposit         uint64
}

func (p CreateDaoParams) validate() error {
	if err := checkName(p.Name); err != nil {
		return err
	}
	if err := checkDescription(p.Description); err != nil {
		return err
	}
	if !validGovernanceModel(p.GovernanceModel) ||
		!validVotingModel(p.VotingModel) ||
		!validRewardModel(p.RewardModel) {
		return ErrInvalidPolicy
	}
	return p.Threshold.Validate()
}

// CreateDao charges the fixed creation fee into the registry treasury and
// creates the dao with its own treasury sub-account. The creator must hold
// at least MinCreatorBalance of the platform asset; an optional deposit in
// the dao's own asset seeds the treasury.
func (e *Engine) CreateDao(ctx context.Context, p CreateDaoParams) (*Dao, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var dao Dao
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var reg Registry
		if err := loadRegistry(lock(tx), &reg); err != nil {
			return err
		}

		bal, err := l.BalanceOf(p.Creator, reg.Asset)
		if err != nil {
			return mapPlatformLedgerErr(err)
		}
		if bal < MinCreatorBalance {
			return ErrInsufficientPlatformTokens
		}

		var existing Dao
		err = tx.First(&existing, "creator = ? AND seed = ?", p.Creator, p.Seed).Error
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := l.Transfer(p.Creator, registryOwner, reg.Asset, DaoCreationFee); err != nil {
			return mapPlatformLedgerErr(err)
		}
		next, ok := checkedAdd(reg.TreasuryBalance, DaoCreationFee)
		if !ok {
			return ErrOverflow
		}
		reg.TreasuryBalance = next
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}

		dao = Dao{
			Creator:         p.Creator,
			Seed:            p.Seed,
			Asset:           p.Asset,
			Name:            p.Name,
			Description:     p.Description,
			GovernanceModel: p.GovernanceModel,
			VotingModel:     p.VotingModel,
			RewardModel:     p.RewardModel,
			QuorumPct:       p.Threshold.QuorumPct,
			ApprovalPct:     p.Threshold.ApprovalPct,
			MinVotingPeriod: p.Threshold.MinPeriod,
			MaxVotingPeriod: p.Threshold.MaxPeriod,
		}
		if err := tx.Create(&dao).Error; err != nil {
			return err
		}
		if err := l.Open(daoOwner(dao.Creator, dao.Seed), dao.Asset); err != nil {
			return err
		}

		if p.Deposit == 0 {
			return nil
		}
		if err := l.Transfer(p.Creator, daoOwner(dao.Creator, dao.Seed), dao.Asset, p.Deposit); err != nil {
			return mapDaoLedgerErr(err)
		}
		next, ok = checkedAdd(dao.TreasuryBalance, p.Deposit)
		if !ok {
			return ErrOverflow
		}
		dao.TreasuryBalance = next
		return tx.Save(&dao).Error
	})
	if err != nil {
		return nil, err
	}
	return &dao, nil
}

// DaoUpdate carries present-or-absent fields for a creator-only partial
// update. Each present field is validated exactly as at creation.
type DaoUpdate struct {
	Name            *string
	Description     *string
	GovernanceModel *string
	VotingModel     *string
	RewardModel     *string
	Threshold       *Threshold
}

func (e *Engine) UpdateDao(ctx context.Context, caller, creator string, seed uint64, upd DaoUpdate) (*Dao, error) {
	var dao Dao
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		if err := loadDao(lock(tx), &dao, creator, seed); err != nil {
			return err
		}
		if caller != dao.Creator {
			return ErrUnauthorized
		}

		if upd.Name != nil {
			if err := checkName(*upd.Name); err != nil {
				return err
			}
			dao.Name = *upd.Name
		}
		if upd.Description != nil {
			if err := checkDescription(*upd.Description); err != nil {
				return err
			}
			dao.Description = *upd.Description
		}
		if upd.GovernanceModel != nil {
			if !validGovernanceModel(*upd.GovernanceModel) {
				return ErrInvalidPolicy
			}
			dao.GovernanceModel = *upd.GovernanceModel
		}
		if upd.VotingModel != nil {
			if !validVotingModel(*upd.VotingModel) {
				return ErrInvalidPolicy
			}
			dao.VotingModel = *upd.VotingModel
		}
		if upd.RewardModel != nil {
			if !validRewardModel(*upd.RewardModel) {
				return ErrInvalidPolicy
			}
			dao.RewardModel = *upd.RewardModel
		}
		if upd.Threshold != nil {
			if err := upd.Threshold.Validate(); err != nil {
				return err
			}
			dao.QuorumPct = upd.Threshold.QuorumPct
			dao.ApprovalPct = upd.Threshold.ApprovalPct
			dao.MinVotingPeriod = upd.Threshold.MinPeriod
			dao.MaxVotingPeriod = upd.Threshold.MaxPeriod
		}

		return tx.Save(&dao).Error
	})
	if err != nil {
		return nil, err
	}
	return &dao, nil
}

// Dao looks up one dao by its (creator, seed) key.
func (e *Engine) Dao(ctx context.Context, creator string, seed uint64) (*Dao, error) {
	var dao Dao
	if err := loadDao(e.db.WithContext(ctx), &dao, creator, seed); err != nil {
		return nil, err
	}
	return &dao, nil
}

func loadDao(tx *gorm.DB, dao *Dao, creator string, seed uint64) error {
	err := tx.First(dao, "creator = ? AND seed = ?", creator, seed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func loadDaoByID(tx *gorm.DB, dao *Dao, id uint64) error {
	err := tx.First(dao, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
