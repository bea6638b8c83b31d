package leave

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return db, mock
}

func TestRepository_UpdateStatusIfPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	id := uuid.New().String()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "leaves" SET`)).
		WithArgs(StatusApproved, sqlmock.AnyArg(), id, StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.UpdateStatusIfPending(context.Background(), id, StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusIfPending_AlreadyDecided(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	id := uuid.New().String()

	// The guard clause matches nothing once the row left Pending.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "leaves" SET`)).
		WithArgs(StatusRejected, sqlmock.AnyArg(), id, StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.UpdateStatusIfPending(context.Background(), id, StatusRejected)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) AS count FROM "leaves" GROUP BY`)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(StatusPending, 3).
			AddRow(StatusApproved, 2).
			AddRow(StatusRejected, 1))

	stats, err := repo.CountByStatus(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(6), stats.Total)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(2), stats.Approved)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
