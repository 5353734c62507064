package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryCreateGeneratesDefaults(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), 2025, "NOT_SUBMITTED", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	draft := &models.ScheduleDraft{
		Year:            2025,
		Status:          "NOT_SUBMITTED",
		ActiveSemesters: models.ActiveSemesterList{"WINTER", "SPRING_SUMMER", "FALL"},
	}
	require.NoError(t, repo.Create(context.Background(), draft))
	assert.NotEmpty(t, draft.ID)
	assert.False(t, draft.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "year", "status", "active_semesters", "created_by", "created_at", "updated_at"}).
		AddRow("sched-1", 2025, "SUBMITTED", []byte(`["WINTER","FALL"]`), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, year, status, active_semesters, created_by, created_at, updated_at
FROM schedules WHERE id = $1`)).
		WithArgs("sched-1").
		WillReturnRows(rows)

	draft, err := repo.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, 2025, draft.Year)
	assert.Equal(t, "SUBMITTED", draft.Status)
	assert.Len(t, draft.ActiveSemesters, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByYear(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "year", "status", "active_semesters", "created_by", "created_at", "updated_at"}).
		AddRow("sched-1", 2025, "NOT_SUBMITTED", []byte(`["WINTER","SPRING_SUMMER","FALL"]`), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, year, status, active_semesters, created_by, created_at, updated_at
FROM schedules WHERE year = $1`)).
		WithArgs(2025).
		WillReturnRows(rows)

	draft, err := repo.FindByYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "sched-1", draft.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByYearMissing(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM schedules WHERE year = $1`)).
		WithArgs(2031).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByYear(context.Background(), 2031)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	year := 2025
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE year = $1")).
		WithArgs(year).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "year", "status", "active_semesters", "created_by", "created_at", "updated_at"}).
		AddRow("sched-1", 2025, "NOT_SUBMITTED", []byte(`["WINTER"]`), nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, year, status, active_semesters").
		WithArgs(year, 20, 0).
		WillReturnRows(rows)

	drafts, total, err := repo.List(context.Background(), models.ScheduleFilter{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, drafts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("UPDATE schedules SET status").
		WithArgs("APPROVED", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "ghost", "APPROVED")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
