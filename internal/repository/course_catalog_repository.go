package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

// CourseCatalogRepository persists the course catalog drafts schedule from.
type CourseCatalogRepository struct {
	db *sqlx.DB
}

// NewCourseCatalogRepository constructs the repository.
func NewCourseCatalogRepository(db *sqlx.DB) *CourseCatalogRepository {
	return &CourseCatalogRepository{db: db}
}

// FindByID loads a catalog record.
func (r *CourseCatalogRepository) FindByID(ctx context.Context, id string) (*models.CatalogCourse, error) {
	const query = `SELECT id, code, title, class_hours_per_week, online_hours_per_week, active, created_at, updated_at
FROM courses WHERE id = $1`
	var course models.CatalogCourse
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns catalog records matching the filter plus the total count.
func (r *CourseCatalogRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogCourse, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	argPos := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR title ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *filter.Active)
		argPos++
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM courses"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	sortBy := "code"
	switch filter.SortBy {
	case "title", "created_at", "code":
		sortBy = filter.SortBy
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT id, code, title, class_hours_per_week, online_hours_per_week, active, created_at, updated_at
FROM courses%s ORDER BY %s %s LIMIT $%d OFFSET $%d`, clause, sortBy, order, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var courses []models.CatalogCourse
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}

// Create inserts a catalog record with generated defaults.
func (r *CourseCatalogRepository) Create(ctx context.Context, course *models.CatalogCourse) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, code, title, class_hours_per_week, online_hours_per_week, active, created_at, updated_at)
VALUES (:id, :code, :title, :class_hours_per_week, :online_hours_per_week, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}
