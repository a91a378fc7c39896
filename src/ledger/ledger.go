// Package ledger is the balance-bearing sub-account store the governance
// engine drives value transfers through. Accounts are keyed by
// (owner, asset); balances never go negative and never wrap.
package ledger

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoAccount         = errors.New("sub-account does not exist")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
	ErrSameAccount       = errors.New("transfer within one sub-account")
)

// SubAccount holds one owner's balance of one asset.
type SubAccount struct {
	ID        uint64 `gorm:"primaryKey"`
	Owner     string `gorm:"size:128;not null;uniqueIndex:idx_sub_account"`
	Asset     string `gorm:"size:32;not null;uniqueIndex:idx_sub_account"`
	Balance   uint64 `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service executes ledger operations against the handle it was built with.
// Build it from a transaction to make ledger calls part of that
// transaction's atomic unit.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

// locked makes the next read take a row lock, so concurrent balance
// mutations serialize. Sqlite ignores the clause and serializes writes
// itself.
func (s *Service) locked() *gorm.DB {
	return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Open creates the (owner, asset) sub-account if it does not exist.
func (s *Service) Open(owner, asset string) error {
	return s.db.FirstOrCreate(&SubAccount{}, SubAccount{Owner: owner, Asset: asset}).Error
}

// BalanceOf returns the current balance. A missing account is an error, not
// a zero balance; callers use it to detect asset mismatches.
func (s *Service) BalanceOf(owner, asset string) (uint64, error) {
	var acct SubAccount
	err := s.db.First(&acct, "owner = ? AND asset = ?", owner, asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoAccount
	}
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Deposit credits the account, creating it if needed. This is the external
// on-ramp; the engine itself only ever moves value with Transfer.
func (s *Service) Deposit(owner, asset string, amount uint64) error {
	var acct SubAccount
	if err := s.db.FirstOrCreate(&acct, SubAccount{Owner: owner, Asset: asset}).Error; err != nil {
		return err
	}
	if err := s.locked().First(&acct, "id = ?", acct.ID).Error; err != nil {
		return err
	}
	if acct.Balance > math.MaxUint64-amount {
		return ErrOverflow
	}
	return s.db.Model(&acct).Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// Transfer moves amount between two distinct sub-accounts of the same
// asset. The source must exist and cover the amount; the destination is
// created on first use. The debit is guarded in the statement itself, so a
// stale balance read can never overdraft the source.
func (s *Service) Transfer(from, to, asset string, amount uint64) error {
	if from == to {
		return ErrSameAccount
	}

	var src SubAccount
	err := s.locked().First(&src, "owner = ? AND asset = ?", from, asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoAccount
	}
	if err != nil {
		return err
	}
	if src.Balance < amount {
		return ErrInsufficientFunds
	}

	var dst SubAccount
	if err := s.db.FirstOrCreate(&dst, SubAccount{Owner: to, Asset: asset}).Error; err != nil {
		return err
	}
	if err := s.locked().First(&dst, "id = ?", dst.ID).Error; err != nil {
		return err
	}
	if dst.Balance > math.MaxUint64-amount {
		return ErrOverflow
	}

	debit := s.db.Model(&SubAccount{}).
		Where("id = ? AND balance >= ?", src.ID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if debit.Error != nil {
		return debit.Error
	}
	if debit.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return s.db.Model(&dst).Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// Close deletes the sub-account, refunding any remaining balance to
// refundTo. Returns the refunded amount.
func (s *Service) Close(owner, asset, refundTo string) (uint64, error) {
	var acct SubAccount
	err := s.locked().First(&acct, "owner = ? AND asset = ?", owner, asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoAccount
	}
	if err != nil {
		return 0, err
	}

	dust := acct.Balance
	if dust > 0 {
		if err := s.Transfer(owner, refundTo, asset, dust); err != nil {
			return 0, err
		}
	}
	return dust, s.db.Delete(&acct).Error
}
