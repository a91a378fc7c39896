// Package gov implements the governance engine: registry, daos, membership,
// proposals, token-weighted voting with collateral staking, and post-vote
// reward settlement. Every operation runs as one database transaction;
// a failed check rolls back every mutation and transfer the operation made.
package gov

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/daoverse/src/ledger"
)

type Engine struct {
	db  *gorm.DB
	now func() int64
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:  db,
		now: func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the engine clock. Tests use it to drive proposals
// through their deadline.
func (e *Engine) WithClock(now func() int64) *Engine {
	e.now = now
	return e
}

// run wraps one operation in a transaction with a ledger bound to it, so
// record mutations and value transfers commit or roll back together.
func (e *Engine) run(ctx context.Context, fn func(tx *gorm.DB, l *ledger.Service) error) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, ledger.New(tx))
	})
}

// lock makes the next read take a row lock, so concurrent transactions
// mutating the same row serialize instead of overwriting each other's
// writes. Sqlite ignores the clause and serializes writes itself.
func lock(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func checkName(s string) error {
	if len(s) > MaxNameLen {
		return ErrStringTooLong
	}
	return nil
}

func checkDescription(s string) error {
	if len(s) > MaxDescriptionLen {
		return ErrStringTooLong
	}
	return nil
}
