package gov

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/ledger"
)

// JoinDao creates a membership record snapshotting the user's current
// dao-asset balance. The user must hold at least MinMemberBalance of the
// dao's asset; no transfer is made.
func (e *Engine) JoinDao(ctx context.Context, user, creator string, daoSeed, memberSeed uint64) (*Member, error) {
	var member Member
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var dao Dao
		if err := loadDao(lock(tx), &dao, creator, daoSeed); err != nil {
			return err
		}

		bal, err := l.BalanceOf(user, dao.Asset)
		if err != nil {
			return mapDaoLedgerErr(err)
		}
		if bal < MinMemberBalance {
			return ErrInsufficientDaoTokens
		}

		var existing Member
		err = tx.First(&existing, "dao_id = ? AND address = ? AND seed = ?", dao.ID, user, memberSeed).Error
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member = Member{
			DaoID:   dao.ID,
			Address: user,
			Seed:    memberSeed,
			Balance: bal,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		next, ok := checkedAdd(dao.MemberCount, 1)
		if !ok {
			return ErrCalculation
		}
		dao.MemberCount = next
		return tx.Save(&dao).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RefreshMemberBalance overwrites the stored snapshot with the user's
// current ledger balance. Idempotent.
func (e *Engine) RefreshMemberBalance(ctx context.Context, user, creator string, daoSeed, memberSeed uint64) (*Member, error) {
	var member Member
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var dao Dao
		if err := loadDao(tx, &dao, creator, daoSeed); err != nil {
			return err
		}
		if err := loadMember(lock(tx), &member, dao.ID, user, memberSeed); err != nil {
			return err
		}

		bal, err := l.BalanceOf(user, dao.Asset)
		if err != nil {
			return mapDaoLedgerErr(err)
		}
		member.Balance = bal
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// MemberUpdate overwrites the supplied counters. Last-write-wins; there is
// no increment semantics here.
type MemberUpdate struct {
	CreatedProposals  *uint64
	ApprovedProposals *uint64
	TotalRewards      *uint64
	TotalVotes        *uint64
}

// UpdateMember applies a partial counter update to the caller's own
// membership record. The record key includes the owner address, so a caller
// can never address anyone else's record.
func (e *Engine) UpdateMember(ctx context.Context, caller, creator string, daoSeed, memberSeed uint64, upd MemberUpdate) (*Member, error) {
	var member Member
	err := e.run(ctx, func(tx *gorm.DB, l *ledger.Service) error {
		var dao Dao
		if err := loadDao(tx, &dao, creator, daoSeed); err != nil {
			return err
		}
		if err := loadMember(lock(tx), &member, dao.ID, caller, memberSeed); err != nil {
			return err
		}
		if member.Address != caller {
			return ErrUnauthorized
		}

		if upd.CreatedProposals != nil {
			member.CreatedProposals = *upd.CreatedProposals
		}
		if upd.ApprovedProposals != nil {
			member.ApprovedProposals = *upd.ApprovedProposals
		}
		if upd.TotalRewards != nil {
			member.TotalRewards = *upd.TotalRewards
		}
		if upd.TotalVotes != nil {
			member.TotalVotes = *upd.TotalVotes
		}
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func loadMember(tx *gorm.DB, m *Member, daoID uint64, address string, seed uint64) error {
	err := tx.First(m, "dao_id = ? AND address = ? AND seed = ?", daoID, address, seed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
