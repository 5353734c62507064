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

// InstructorCatalogRepository persists the instructor directory rosters are
// built from.
type InstructorCatalogRepository struct {
	db *sqlx.DB
}

// NewInstructorCatalogRepository constructs the repository.
func NewInstructorCatalogRepository(db *sqlx.DB) *InstructorCatalogRepository {
	return &InstructorCatalogRepository{db: db}
}

// FindByID loads a directory record.
func (r *InstructorCatalogRepository) FindByID(ctx context.Context, id string) (*models.CatalogInstructor, error) {
	const query = `SELECT id, email, full_name, contract_type, baseline_hours, active, created_at, updated_at
FROM instructors WHERE id = $1`
	var inst models.CatalogInstructor
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// List returns directory records matching the filter plus the total count.
func (r *InstructorCatalogRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogInstructor, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	argPos := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
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
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM instructors"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count instructors: %w", err)
	}

	sortBy := "full_name"
	switch filter.SortBy {
	case "email", "created_at", "contract_type", "full_name":
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

	query := fmt.Sprintf(`SELECT id, email, full_name, contract_type, baseline_hours, active, created_at, updated_at
FROM instructors%s ORDER BY %s %s LIMIT $%d OFFSET $%d`, clause, sortBy, order, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var instructors []models.CatalogInstructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, total, nil
}

// Create inserts a directory record with generated defaults.
func (r *InstructorCatalogRepository) Create(ctx context.Context, inst *models.CatalogInstructor) error {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = now
	}
	inst.UpdatedAt = now
	const query = `INSERT INTO instructors (id, email, full_name, contract_type, baseline_hours, active, created_at, updated_at)
VALUES (:id, :email, :full_name, :contract_type, :baseline_hours, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}
