package txmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTransactionManager(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestTransactionManager_Do_Commit(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		tx, _ := dbmetrics.TxFromContext(ctx)
		_, err := tx.ExecContext(ctx, "UPDATE bookings SET status = 'confirmed'")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_Do_RollbackOnError(t *testing.T) {
	m, mock := newManager(t)
	errBoom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_Do_NestedReusesTransaction(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_DoSerializable_RetriesSerializationFailure(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("insert booking: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_DoSerializable_GivesUp(t *testing.T) {
	m, mock := newManager(t)
	m.maxRetries = 1

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return &pq.Error{Code: "40P01"}
	})

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_DoSerializable_NoRetryOnOtherErrors(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return &pq.Error{Code: "23P01"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_BeginFailure(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrTransaction)
}
