package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestWithSavepointRollsBackFailedStatement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT before_insert").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT before_insert").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		inner := WithSavepoint(tx, "before_insert", func() error {
			return gorm.ErrDuplicatedKey
		})
		// The statement's own error comes back to the caller; the
		// transaction stays usable because of the rollback-to.
		require.ErrorIs(t, inner, gorm.ErrDuplicatedKey)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepointReleasesNothingOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT before_insert").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return WithSavepoint(tx, "before_insert", func() error {
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSavepointNilTxRunsDirectly(t *testing.T) {
	calls := 0
	err := WithSavepoint(nil, "before_insert", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
