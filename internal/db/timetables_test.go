package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

func newStoreMock(t *testing.T) (Store, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewStore(sqlx.NewDb(conn, "sqlmock")), mock, func() { conn.Close() }
}

func TestSaveMonthTable_ReplacesRows(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	table := model.MonthTable{
		{"Jour", "Date", "Imsak"},
		nil,
		{"Mar", "02/04", "05:08"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_rows")).
		WithArgs("PARIS", 4).
		WillReturnResult(sqlmock.NewResult(0, 30))
	for i := range table {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_rows")).
			WithArgs("PARIS", 4, i, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.SaveMonthTable(context.Background(), "PARIS", time.April, table))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMonthTable_RollsBackOnInsertFailure(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_rows")).
		WithArgs("PARIS", 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_rows")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.SaveMonthTable(context.Background(), "PARIS", time.April, model.MonthTable{{"Jour"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMonthTable_RebuildsPositions(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"row_index", "fields"}).
		AddRow(0, "{Jour,Date,Imsak,Fajr}").
		AddRow(2, "{Mar,02/04,05:08,05:18}")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT row_index, fields")).
		WithArgs("PARIS", 4).
		WillReturnRows(rows)

	table, err := store.GetMonthTable(context.Background(), "PARIS", time.April)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, model.DayRow{"Jour", "Date", "Imsak", "Fajr"}, table[0])
	assert.Empty(t, table[1])
	assert.Equal(t, "05:18", table[2][3])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMonthTable_NothingImported(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT row_index, fields")).
		WithArgs("PARIS", 5).
		WillReturnRows(sqlmock.NewRows([]string{"row_index", "fields"}))

	_, err := store.GetMonthTable(context.Background(), "PARIS", time.May)
	assert.ErrorIs(t, err, ErrNoTimetable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMonths(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT month")).
		WithArgs("PARIS").
		WillReturnRows(sqlmock.NewRows([]string{"month"}).AddRow(3).AddRow(4))

	months, err := store.ListMonths(context.Background(), "PARIS")
	require.NoError(t, err)
	assert.Equal(t, []time.Month{time.March, time.April}, months)
	require.NoError(t, mock.ExpectationsWereMet())
}
