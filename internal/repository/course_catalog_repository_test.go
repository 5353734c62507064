package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "title", "class_hours_per_week", "online_hours_per_week", "active", "created_at", "updated_at"})
}

func TestCourseCatalogFindByID(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewCourseCatalogRepository(db)

	mock.ExpectQuery("FROM courses WHERE id =").
		WithArgs("crs-213").
		WillReturnRows(courseRows().
			AddRow("crs-213", "CPRG213", "Web Development 1", 2.0, 3.0, true, time.Now(), time.Now()))

	course, err := repo.FindByID(context.Background(), "crs-213")
	require.NoError(t, err)
	assert.Equal(t, "CPRG213", course.Code)
	assert.Equal(t, 2.0, course.ClassHoursPerWeek)
	assert.Equal(t, 3.0, course.OnlineHoursPerWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCatalogFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewCourseCatalogRepository(db)

	mock.ExpectQuery("FROM courses WHERE id =").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCatalogListSearch(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewCourseCatalogRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
		WithArgs("%cprg%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM courses WHERE").
		WithArgs("%cprg%", 20, 0).
		WillReturnRows(courseRows().
			AddRow("crs-213", "CPRG213", "Web Development 1", 2.0, 3.0, true, time.Now(), time.Now()).
			AddRow("crs-250", "CPRG250", "Database Design", 3.0, 1.0, true, time.Now(), time.Now()))

	courses, total, err := repo.List(context.Background(), models.CatalogFilter{Search: "cprg"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, courses, 2)
	assert.Equal(t, "Database Design", courses[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
