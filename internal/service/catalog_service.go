package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type instructorCatalogLister interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogInstructor, int, error)
}

type courseCatalogLister interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogCourse, int, error)
}

// CatalogService serves the instructor and course directories that roster
// additions pick from.
type CatalogService struct {
	instructors instructorCatalogLister
	courses     courseCatalogLister
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCatalogService creates a service instance.
func NewCatalogService(instructors instructorCatalogLister, courses courseCatalogLister, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		instructors: instructors,
		courses:     courses,
		validator:   validate,
		logger:      logger,
	}
}

// ListInstructors returns directory instructors matching the query.
func (s *CatalogService) ListInstructors(ctx context.Context, query dto.CatalogListQuery) ([]dto.CatalogInstructorResponse, *models.Pagination, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, nil, err
	}
	records, total, err := s.instructors.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to list instructor catalog")
	}
	out := make([]dto.CatalogInstructorResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.CatalogInstructorResponse{
			ID:            r.ID,
			Email:         r.Email,
			FullName:      r.FullName,
			ContractType:  r.ContractType,
			BaselineHours: r.BaselineHours,
			Active:        r.Active,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListCourses returns catalog courses matching the query.
func (s *CatalogService) ListCourses(ctx context.Context, query dto.CatalogListQuery) ([]dto.CatalogCourseResponse, *models.Pagination, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, nil, err
	}
	records, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to list course catalog")
	}
	out := make([]dto.CatalogCourseResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.CatalogCourseResponse{
			ID:                 r.ID,
			Code:               r.Code,
			Title:              r.Title,
			ClassHoursPerWeek:  r.ClassHoursPerWeek,
			OnlineHoursPerWeek: r.OnlineHoursPerWeek,
			Active:             r.Active,
			CreatedAt:          r.CreatedAt,
		})
	}
	return out, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *CatalogService) buildFilter(query dto.CatalogListQuery) (models.CatalogFilter, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.CatalogFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog query")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return models.CatalogFilter{
		Search:    query.Search,
		Active:    query.Active,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}, nil
}
