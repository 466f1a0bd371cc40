package persistence

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// TransactionManager runs a function inside a database transaction.
// The transaction is committed when f returns nil and rolled back otherwise.
type TransactionManager interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
}

// Manager wraps the shared bun handle
type Manager struct {
	db *bun.DB
}

var (
	_ TransactionManager            = (*Manager)(nil)
	_ repository.TransactionManager = (*Manager)(nil)
	_ repository.Validator          = (*Manager)(nil)
)

func NewManager(db *bun.DB) *Manager {
	return &Manager{db: db}
}

// DB returns the underlying handle for non transactional reads
func (m *Manager) DB() *bun.DB {
	return m.db
}

func (m *Manager) Validate() error {
	if m == nil || m.db == nil {
		return errors.New("persistence manager requires a database handle")
	}
	return nil
}

func (m *Manager) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}
