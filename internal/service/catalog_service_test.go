package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type instructorCatalogStub struct {
	records []models.CatalogInstructor
	total   int
	err     error
	filter  models.CatalogFilter
}

func (s *instructorCatalogStub) List(_ context.Context, filter models.CatalogFilter) ([]models.CatalogInstructor, int, error) {
	s.filter = filter
	return s.records, s.total, s.err
}

type courseCatalogStub struct {
	records []models.CatalogCourse
	total   int
	err     error
	filter  models.CatalogFilter
}

func (s *courseCatalogStub) List(_ context.Context, filter models.CatalogFilter) ([]models.CatalogCourse, int, error) {
	s.filter = filter
	return s.records, s.total, s.err
}

func TestCatalogServiceListInstructors(t *testing.T) {
	instructors := &instructorCatalogStub{
		records: []models.CatalogInstructor{
			{ID: "inst-1", Email: "boone@campus.edu", FullName: "Avery Boone", ContractType: "CASUAL", BaselineHours: 120, Active: true, CreatedAt: time.Now()},
		},
		total: 1,
	}
	svc := NewCatalogService(instructors, &courseCatalogStub{}, nil, nil)

	active := true
	out, pagination, err := svc.ListInstructors(context.Background(), dto.CatalogListQuery{Search: "boone", Active: &active})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Avery Boone", out[0].FullName)
	assert.Equal(t, "CASUAL", out[0].ContractType)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)

	assert.Equal(t, "boone", instructors.filter.Search)
	require.NotNil(t, instructors.filter.Active)
	assert.True(t, *instructors.filter.Active)
}

func TestCatalogServiceListInstructorsInvalidQuery(t *testing.T) {
	svc := NewCatalogService(&instructorCatalogStub{}, &courseCatalogStub{}, nil, nil)

	_, _, err := svc.ListInstructors(context.Background(), dto.CatalogListQuery{SortBy: "salary"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCatalogServiceListCourses(t *testing.T) {
	courses := &courseCatalogStub{
		records: []models.CatalogCourse{
			{ID: "course-1", Code: "CPRG213", Title: "Web Development 1", ClassHoursPerWeek: 2, OnlineHoursPerWeek: 3, Active: true},
		},
		total: 41,
	}
	svc := NewCatalogService(&instructorCatalogStub{}, courses, nil, nil)

	out, pagination, err := svc.ListCourses(context.Background(), dto.CatalogListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "CPRG213", out[0].Code)
	assert.Equal(t, 41, pagination.TotalCount)
	assert.Equal(t, 3, pagination.Page)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 3, courses.filter.Page)
	assert.Equal(t, 10, courses.filter.PageSize)
}

func TestCatalogServiceListCoursesStoreFailure(t *testing.T) {
	courses := &courseCatalogStub{err: errors.New("connection reset")}
	svc := NewCatalogService(&instructorCatalogStub{}, courses, nil, nil)

	_, _, err := svc.ListCourses(context.Background(), dto.CatalogListQuery{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPersistenceFailure))
}
