package repositories

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// TxRunner abstracts gorm's transaction entrypoint so services can run
// multi-repository units of work and tests can substitute a fake.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// PoolResetRunner wraps a gorm DB and, when a transaction fails because
// the pool handed out a dead connection, resets the idle pool once and
// retries the transaction before giving up.
type PoolResetRunner struct {
	DB      *gorm.DB
	MaxIdle int
}

func NewPoolResetRunner(db *gorm.DB, maxIdle int) *PoolResetRunner {
	return &PoolResetRunner{DB: db, MaxIdle: maxIdle}
}

func (p *PoolResetRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	err := p.DB.Transaction(fc, opts...)
	if err == nil || !isDeadConn(err) {
		return err
	}

	if sqlDB, derr := p.DB.DB(); derr == nil {
		// Dropping the idle limit to zero closes every pooled idle
		// connection; the ping re-establishes one before the retry.
		sqlDB.SetMaxIdleConns(0)
		sqlDB.SetMaxIdleConns(p.MaxIdle)
		_ = sqlDB.Ping()
	}

	return p.DB.Transaction(fc, opts...)
}

// WithSavepoint runs fn inside a savepoint on the given transaction.
// Postgres aborts the whole transaction when any statement is rejected,
// so a failed insert would otherwise poison every follow-up query on
// the same tx; rolling back to the savepoint keeps it usable. A nil tx
// (no live transaction, as in tests) runs fn directly.
func WithSavepoint(tx *gorm.DB, name string, fn func() error) error {
	if tx == nil {
		return fn()
	}
	if err := tx.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func isDeadConn(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection pool exhausted") ||
		strings.Contains(msg, "connection reset by peer")
}
