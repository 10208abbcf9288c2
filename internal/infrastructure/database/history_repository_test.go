package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB wires a gorm.DB to a sqlmock connection, following the teacher's
// pattern of injecting an existing *sql.DB into postgres.Config{Conn: ...}
// for repository-layer tests that never touch a real database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

// TestLatestInRange_FiltersWindowAfterComputingGlobalLatest guards against a
// regression where the window (date >= ? AND date <= ?) was applied inside
// the DISTINCT ON subquery, which picks the newest *in-window* event instead
// of the unit's true most-recent event. Client-supplied dates need not be
// monotonic (spec.md §5), so an older in-window row must never stand in for
// a newer out-of-window one; the WHERE clause must sit outside the subquery
// that computes each unit's global latest event.
func TestLatestInRange_FiltersWindowAfterComputingGlobalLatest(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &HistoryRepository{db: gdb}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	wantPattern := `(?s)FROM\s*\(\s*SELECT DISTINCT ON \(unit_id\).*ORDER BY unit_id, date DESC, seq DESC\s*\)\s*latest\s*WHERE date >= \$1 AND date <= \$2`
	mock.ExpectQuery(wantPattern).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "unit_id", "price", "date"}))

	_, err := repo.LatestInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestInRange_MapsRows(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &HistoryRepository{db: gdb}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	unitID := uuid.New()
	price := int64(1999)
	eventDate := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"seq", "unit_id", "price", "date"}).
		AddRow(int64(7), unitID, price, eventDate)
	mock.ExpectQuery(`(?s)FROM\s*\(.*\)\s*latest\s*WHERE`).
		WithArgs(start, end).
		WillReturnRows(rows)

	events, err := repo.LatestInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, unitID, events[0].UnitID)
	assert.Equal(t, int64(7), events[0].Seq)
	require.NotNil(t, events[0].Price)
	assert.Equal(t, price, *events[0].Price)
	assert.True(t, events[0].Date.Equal(eventDate))
}

func TestRange_OrdersByDateThenSeq(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &HistoryRepository{db: gdb}

	unitID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)FROM "price_history_events" WHERE \(?unit_id = \$1 AND date >= \$2 AND date < \$3\)? ORDER BY date ASC, seq ASC`).
		WithArgs(unitID, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "unit_id", "price", "date"}))

	_, err := repo.Range(context.Background(), unitID, start, end)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_NoopOnEmptyIssuesNoQuery(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &HistoryRepository{db: gdb}

	require.NoError(t, repo.Append(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByUnitIDs_NoopOnEmptyIssuesNoQuery(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &HistoryRepository{db: gdb}

	require.NoError(t, repo.DeleteByUnitIDs(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
