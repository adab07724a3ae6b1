package sqlkit

import (
	"context"
	"errors"
	"testing"

	"github.com/gopsql/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	db.Tx
	conn       *fakeConn
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, sql string, args ...interface{}) (db.Result, error) {
	return t.conn.Exec(sql, args...)
}

func (t *fakeTx) QueryContext(ctx context.Context, sql string, args ...interface{}) (db.Rows, error) {
	return t.conn.Query(sql, args...)
}

func (t *fakeTx) QueryRowContext(ctx context.Context, sql string, args ...interface{}) db.Row {
	return t.conn.QueryRow(sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

func TestTransactionCommit(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{affected: 1}
	m := NewModel("accounts", Key("id", true), db.DB(conn))

	err := m.Transaction(func(ctx context.Context, tx db.Tx) error {
		_, err := tx.ExecContext(ctx, "UPDATE accounts SET age = age + 1", nil)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, conn.lastTx)
	assert.True(t, conn.lastTx.committed)
	assert.False(t, conn.lastTx.rolledBack)
}

func TestTransactionRollbackOnError(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	m := NewModel("accounts", Key("id", true), db.DB(conn))

	boom := errors.New("boom")
	err := m.Transaction(func(ctx context.Context, tx db.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, conn.lastTx.rolledBack)
	assert.False(t, conn.lastTx.committed)
}

func TestTransactionRollbackOnPanic(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	m := NewModel("accounts", Key("id", true), db.DB(conn))

	err := m.Transaction(func(ctx context.Context, tx db.Tx) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.True(t, conn.lastTx.rolledBack)
}

func TestTransactionNoConnection(t *testing.T) {
	t.Parallel()
	m := NewModel("accounts", Key("id", true))
	err := m.Transaction(func(ctx context.Context, tx db.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrNoConnection)
}

func TestTxStickyError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, conn := newAccountTable(t)

	tx, err := tbl.Model().Begin(ctx)
	require.NoError(t, err)
	scoped := tbl.WithTx(tx)

	_, err = scoped.InsertOne(ctx, account{Name: "amy"})
	require.NoError(t, err)
	require.Len(t, conn.log, 1)

	boom := errors.New("constraint violation")
	conn.execErr = boom
	_, err = scoped.InsertOne(ctx, account{Name: "bob"})
	assert.ErrorIs(t, err, boom)

	// later statements are skipped without reaching the driver
	conn.execErr = nil
	_, err = scoped.InsertOne(ctx, account{Name: "cat"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, conn.log, 2)

	// commit refuses; the transaction stays open until rolled back
	err = tx.Commit(ctx)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.False(t, conn.lastTx.committed)
	assert.False(t, conn.lastTx.rolledBack)
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxFailed)

	require.NoError(t, tx.Rollback(ctx))
	assert.True(t, conn.lastTx.rolledBack)
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)
	assert.ErrorIs(t, tx.Rollback(ctx), ErrTxDone)
}

func TestTxCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, conn := newAccountTable(t)

	tx, err := tbl.Model().Begin(ctx)
	require.NoError(t, err)
	scoped := tbl.WithTx(tx)

	_, err = scoped.InsertOne(ctx, account{Name: "amy"})
	require.NoError(t, err)

	conn.push([]interface{}{int64(1), "amy", 0, false}) // read inside the tx
	item, err := scoped.GetByKey(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item)

	require.NoError(t, tx.Commit(ctx))
	assert.True(t, conn.lastTx.committed)
}

func TestTxRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tbl, conn := newAccountTable(t)

	tx, err := tbl.Model().Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	assert.True(t, conn.lastTx.rolledBack)
	assert.ErrorIs(t, tx.Rollback(ctx), ErrTxDone)
}
