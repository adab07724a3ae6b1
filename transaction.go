package sqlkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/gopsql/db"
)

type (
	TransactionBlock func(context.Context, db.Tx) error
)

// MustTransaction starts a transaction, uses context.Background() internally
// and panics if transaction fails.
func (m *Model) MustTransaction(block TransactionBlock) {
	if err := m.Transaction(block); err != nil {
		panic(err)
	}
}

// Transaction starts a transaction, uses context.Background() internally.
func (m *Model) Transaction(block TransactionBlock) error {
	return m.TransactionCtx(context.Background(), block)
}

// TransactionCtx starts a transaction, runs block and commits. A block error
// or panic rolls back; a panic's value is returned as the error.
func (m *Model) TransactionCtx(ctx context.Context, block TransactionBlock) (err error) {
	if m.connection == nil {
		return ErrNoConnection
	}
	m.log("BEGIN", nil)
	var tx db.Tx
	tx, err = m.connection.BeginTx(ctx, "", false)
	if err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log("ROLLBACK", nil)
			tx.Rollback(ctx)
			if rerr, ok := r.(error); ok {
				err = rerr
			} else {
				err = errors.New(fmt.Sprint(r))
			}
		} else if err != nil {
			m.log("ROLLBACK", nil)
			tx.Rollback(ctx)
		} else {
			m.log("COMMIT", nil)
			err = tx.Commit(ctx)
		}
	}()
	err = block(ctx, tx)
	return
}

// Tx is an explicit transaction handle with a sticky error: once a statement
// inside the transaction fails, later statements are skipped and Commit
// refuses to commit. Bind a Table to it with Table.WithTx.
type Tx struct {
	tx    db.Tx
	model *Model
	err   error
	done  bool
}

// Begin opens a transaction on the model's connection.
func (m *Model) Begin(ctx context.Context) (*Tx, error) {
	if m.connection == nil {
		return nil, ErrNoConnection
	}
	m.log("BEGIN", nil)
	tx, err := m.connection.BeginTx(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, model: m}, nil
}

// Err returns the sticky error, if any statement in the transaction failed.
func (t *Tx) Err() error { return t.err }

func (t *Tx) fail(err error) error {
	if t.err == nil && err != nil {
		t.err = err
	}
	return err
}

// Commit commits the transaction. If a statement failed earlier, Commit
// refuses with the statement's error wrapped in ErrTxFailed and leaves the
// transaction open; the caller must roll back explicitly. A failed
// transaction never partially commits.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	if t.err != nil {
		return fmt.Errorf("%w: %v", ErrTxFailed, t.err)
	}
	t.done = true
	t.model.log("COMMIT", nil)
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrTxFailed, err)
	}
	return nil
}

// Rollback rolls the transaction back. Safe to defer after Commit; a finished
// transaction returns ErrTxDone.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.model.log("ROLLBACK", nil)
	return t.tx.Rollback(ctx)
}

func (t *Tx) exec(ctx context.Context, sql string, args []interface{}) (db.Result, error) {
	if t.done {
		return nil, ErrTxDone
	}
	if t.err != nil {
		return nil, t.err
	}
	result, err := t.tx.ExecContext(ctx, sql, args...)
	return result, t.fail(err)
}

func (t *Tx) query(ctx context.Context, sql string, args []interface{}) (db.Rows, error) {
	if t.done {
		return nil, ErrTxDone
	}
	if t.err != nil {
		return nil, t.err
	}
	rows, err := t.tx.QueryContext(ctx, sql, args...)
	return rows, t.fail(err)
}

func (t *Tx) queryRow(ctx context.Context, sql string, args []interface{}) (db.Scannable, error) {
	if t.done {
		return nil, ErrTxDone
	}
	if t.err != nil {
		return nil, t.err
	}
	return t.tx.QueryRowContext(ctx, sql, args...), nil
}
