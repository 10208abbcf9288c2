package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopunit-catalog/internal/domain/model"
)

func TestUpsert_RejectsIsCategoryChange(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &UnitRepository{db: gdb}

	id := uuid.New()
	mock.ExpectQuery(`(?s)SELECT count\(\*\) FROM "units" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectExec(`(?s)UPDATE "units" SET .*WHERE .*id = \$\d+ AND is_category = \$\d+`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Upsert(context.Background(), &model.Unit{
		ID: id, Name: "renamed", IsCategory: true, LastUpdate: time.Now(),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UpdatesExistingRow(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &UnitRepository{db: gdb}

	id := uuid.New()
	mock.ExpectQuery(`(?s)SELECT count\(\*\) FROM "units" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectExec(`(?s)UPDATE "units" SET .*WHERE .*id = \$\d+ AND is_category = \$\d+`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &model.Unit{
		ID: id, Name: "renamed", IsCategory: false, LastUpdate: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFoundReturnsNilNil(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &UnitRepository{db: gdb}

	id := uuid.New()
	mock.ExpectQuery(`(?s)SELECT \* FROM "units" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id", "is_category", "price", "last_update"}))

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}
