package services

import (
	"database/sql"

	"ebike_admin_backend/internal/repositories"
)

// Tx is the slice of *sql.Tx the transactional write paths use: the executor
// the repositories run against plus commit/rollback control.
type Tx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner starts transactions for the services that need them. Production
// wiring adapts *sql.DB through NewSQLTxBeginner; tests substitute their own.
type TxBeginner interface {
	Begin() (Tx, error)
}

type sqlTxBeginner struct {
	db *sql.DB
}

// NewSQLTxBeginner wraps db so service constructors can start transactions
// through the TxBeginner seam.
func NewSQLTxBeginner(db *sql.DB) TxBeginner {
	return sqlTxBeginner{db: db}
}

func (b sqlTxBeginner) Begin() (Tx, error) {
	tx, err := b.db.Begin()
	if err != nil {
		return nil, err
	}
	return tx, nil
}
