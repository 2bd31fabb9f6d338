package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/config"
	"github.com/unclebandit/campaign-manager/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlx.NewDb(sqlDB, "postgres"), mock
}

func TestMigrate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS campaigns")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedEmptyTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM campaigns")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	for _, c := range model.DemoCampaigns {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
			WithArgs(c.Name, c.Type, c.Description, c.Status, c.Sent, c.Replies, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, len(model.DemoCampaigns), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSkipsPopulatedTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM campaigns")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open(config.DBConfig{}, zap.NewNop())
	assert.Error(t, err)
}
