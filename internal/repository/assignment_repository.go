package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

// AssignmentRepository persists the non-empty assignment entries of a draft.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListBySchedule returns every stored entry for a draft.
func (r *AssignmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SectionAssignment, error) {
	const query = `SELECT schedule_id, instructor_id, course_id, section, semester, class_taken, online_taken, updated_at
FROM section_assignments WHERE schedule_id = $1
ORDER BY semester ASC, course_id ASC, section ASC, instructor_id ASC`
	var rows []models.SectionAssignment
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list section assignments: %w", err)
	}
	return rows, nil
}

// ListFiltered returns stored entries narrowed by optional instructor,
// course and semester filters.
func (r *AssignmentRepository) ListFiltered(ctx context.Context, scheduleID, instructorID, courseID, semester string) ([]models.SectionAssignment, error) {
	where := []string{"schedule_id = $1"}
	args := []interface{}{scheduleID}
	argPos := 2

	if instructorID != "" {
		where = append(where, fmt.Sprintf("instructor_id = $%d", argPos))
		args = append(args, instructorID)
		argPos++
	}
	if courseID != "" {
		where = append(where, fmt.Sprintf("course_id = $%d", argPos))
		args = append(args, courseID)
		argPos++
	}
	if semester != "" {
		where = append(where, fmt.Sprintf("semester = $%d", argPos))
		args = append(args, semester)
	}

	query := fmt.Sprintf(`SELECT schedule_id, instructor_id, course_id, section, semester, class_taken, online_taken, updated_at
FROM section_assignments WHERE %s
ORDER BY semester ASC, course_id ASC, section ASC, instructor_id ASC`, strings.Join(where, " AND "))

	var rows []models.SectionAssignment
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list filtered assignments: %w", err)
	}
	return rows, nil
}

// ReplaceOffering swaps the stored rows of one (course, section, semester)
// offering for the given set in a single transaction. A toggle touches only
// its own offering, so concurrent commits on other keys are preserved.
func (r *AssignmentRepository) ReplaceOffering(ctx context.Context, scheduleID, courseID, section, semester string, rows []models.SectionAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM section_assignments WHERE schedule_id = $1 AND course_id = $2 AND section = $3 AND semester = $4`,
		scheduleID, courseID, section, semester); err != nil {
		return fmt.Errorf("delete offering rows: %w", err)
	}

	const insert = `INSERT INTO section_assignments (schedule_id, instructor_id, course_id, section, semester, class_taken, online_taken, updated_at)
VALUES (:schedule_id, :instructor_id, :course_id, :section, :semester, :class_taken, :online_taken, :updated_at)`
	now := time.Now().UTC()
	for i := range rows {
		rows[i].UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, insert, rows[i]); err != nil {
			return fmt.Errorf("insert offering row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment tx: %w", err)
	}
	return nil
}

// DeleteAllForSchedule drops every stored entry of a draft.
func (r *AssignmentRepository) DeleteAllForSchedule(ctx context.Context, scheduleID string) error {
	const query = `DELETE FROM section_assignments WHERE schedule_id = $1`
	if _, err := r.db.ExecContext(ctx, query, scheduleID); err != nil {
		return fmt.Errorf("delete schedule assignments: %w", err)
	}
	return nil
}
