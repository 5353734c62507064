package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

// ScheduleRepository persists draft header rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a draft header with generated defaults.
func (r *ScheduleRepository) Create(ctx context.Context, draft *models.ScheduleDraft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	const query = `INSERT INTO schedules (id, year, status, active_semesters, created_by, created_at, updated_at)
VALUES (:id, :year, :status, :active_semesters, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, draft); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// FindByYear loads the draft header for an academic year, sql.ErrNoRows when
// none exists.
func (r *ScheduleRepository) FindByYear(ctx context.Context, year int) (*models.ScheduleDraft, error) {
	const query = `SELECT id, year, status, active_semesters, created_by, created_at, updated_at
FROM schedules WHERE year = $1`
	var draft models.ScheduleDraft
	if err := r.db.GetContext(ctx, &draft, query, year); err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindByID loads a draft header by its identifier.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleDraft, error) {
	const query = `SELECT id, year, status, active_semesters, created_by, created_at, updated_at
FROM schedules WHERE id = $1`
	var draft models.ScheduleDraft
	if err := r.db.GetContext(ctx, &draft, query, id); err != nil {
		return nil, err
	}
	return &draft, nil
}

// List returns draft headers matching the filter plus the total count.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDraft, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	argPos := 1

	if filter.Year != nil {
		where = append(where, fmt.Sprintf("year = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM schedules" + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	sortBy := "year"
	switch filter.SortBy {
	case "created_at", "updated_at", "status", "year":
		sortBy = filter.SortBy
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT id, year, status, active_semesters, created_by, created_at, updated_at
FROM schedules%s ORDER BY %s %s LIMIT $%d OFFSET $%d`, clause, sortBy, order, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var drafts []models.ScheduleDraft
	if err := r.db.SelectContext(ctx, &drafts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}
	return drafts, total, nil
}

// UpdateStatus moves a draft to the given submission status.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE schedules SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateActiveSemesters replaces the visible-semester flags.
func (r *ScheduleRepository) UpdateActiveSemesters(ctx context.Context, id string, semesters models.ActiveSemesterList) error {
	const query = `UPDATE schedules SET active_semesters = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, semesters, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update schedule semesters: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule semester rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Touch bumps the draft's updated_at stamp.
func (r *ScheduleRepository) Touch(ctx context.Context, id string) error {
	const query = `UPDATE schedules SET updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("touch schedule: %w", err)
	}
	return nil
}

// Delete removes a draft header. Roster and assignment rows cascade via
// foreign keys.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
