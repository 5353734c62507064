package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acs-schedule-api/internal/models"
)

// RosterRepository persists a draft's instructor roster and scheduled
// courses. Removals delete dependent assignment rows in the same transaction
// so the store never holds entries pointing at missing roster members.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListInstructors returns the roster in position order.
func (r *RosterRepository) ListInstructors(ctx context.Context, scheduleID string) ([]models.ScheduleInstructor, error) {
	const query = `SELECT schedule_id, instructor_id, full_name, contract_type, annual_hour_cap, baseline_hours, position, created_at
FROM schedule_instructors WHERE schedule_id = $1 ORDER BY position ASC`
	var instructors []models.ScheduleInstructor
	if err := r.db.SelectContext(ctx, &instructors, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule instructors: %w", err)
	}
	return instructors, nil
}

// InsertInstructor appends a roster member at the next position.
func (r *RosterRepository) InsertInstructor(ctx context.Context, inst *models.ScheduleInstructor) error {
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = time.Now().UTC()
	}
	const nextPos = `SELECT COALESCE(MAX(position), -1) + 1 FROM schedule_instructors WHERE schedule_id = $1`
	if err := r.db.GetContext(ctx, &inst.Position, nextPos, inst.ScheduleID); err != nil {
		return fmt.Errorf("compute roster position: %w", err)
	}
	const query = `INSERT INTO schedule_instructors (schedule_id, instructor_id, full_name, contract_type, annual_hour_cap, baseline_hours, position, created_at)
VALUES (:schedule_id, :instructor_id, :full_name, :contract_type, :annual_hour_cap, :baseline_hours, :position, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("insert schedule instructor: %w", err)
	}
	return nil
}

// DeleteInstructor removes a roster member and their assignment rows.
func (r *RosterRepository) DeleteInstructor(ctx context.Context, scheduleID, instructorID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM section_assignments WHERE schedule_id = $1 AND instructor_id = $2`,
		scheduleID, instructorID); err != nil {
		return fmt.Errorf("delete instructor assignments: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_instructors WHERE schedule_id = $1 AND instructor_id = $2`,
		scheduleID, instructorID)
	if err != nil {
		return fmt.Errorf("delete schedule instructor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule instructor rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// ListCourses returns the draft's scheduled courses across all semesters in
// position order.
func (r *RosterRepository) ListCourses(ctx context.Context, scheduleID string) ([]models.ScheduleCourse, error) {
	const query = `SELECT schedule_id, semester, course_id, code, title, class_hours_per_week, online_hours_per_week, sections, position, created_at
FROM schedule_courses WHERE schedule_id = $1 ORDER BY semester ASC, position ASC`
	var courses []models.ScheduleCourse
	if err := r.db.SelectContext(ctx, &courses, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule courses: %w", err)
	}
	return courses, nil
}

// InsertCourse schedules a course into a semester at the next position.
func (r *RosterRepository) InsertCourse(ctx context.Context, course *models.ScheduleCourse) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const nextPos = `SELECT COALESCE(MAX(position), -1) + 1 FROM schedule_courses WHERE schedule_id = $1 AND semester = $2`
	if err := r.db.GetContext(ctx, &course.Position, nextPos, course.ScheduleID, course.Semester); err != nil {
		return fmt.Errorf("compute course position: %w", err)
	}
	const query = `INSERT INTO schedule_courses (schedule_id, semester, course_id, code, title, class_hours_per_week, online_hours_per_week, sections, position, created_at)
VALUES (:schedule_id, :semester, :course_id, :code, :title, :class_hours_per_week, :online_hours_per_week, :sections, :position, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("insert schedule course: %w", err)
	}
	return nil
}

// DeleteCourse removes one semester's offering of a course plus its
// assignment rows. Other semesters keep theirs.
func (r *RosterRepository) DeleteCourse(ctx context.Context, scheduleID, courseID, semester string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM section_assignments WHERE schedule_id = $1 AND course_id = $2 AND semester = $3`,
		scheduleID, courseID, semester); err != nil {
		return fmt.Errorf("delete course assignments: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_courses WHERE schedule_id = $1 AND course_id = $2 AND semester = $3`,
		scheduleID, courseID, semester)
	if err != nil {
		return fmt.Errorf("delete schedule course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// UpdateCourseSections replaces the open section set and drops assignment
// rows for sections no longer open.
func (r *RosterRepository) UpdateCourseSections(ctx context.Context, course *models.ScheduleCourse) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE schedule_courses SET sections = $1 WHERE schedule_id = $2 AND course_id = $3 AND semester = $4`,
		course.Sections, course.ScheduleID, course.CourseID, course.Semester)
	if err != nil {
		return fmt.Errorf("update course sections: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("course section rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	query, args, err := sqlx.In(
		`DELETE FROM section_assignments WHERE schedule_id = ? AND course_id = ? AND semester = ? AND section NOT IN (?)`,
		course.ScheduleID, course.CourseID, course.Semester, []string(course.Sections))
	if len(course.Sections) == 0 {
		query = `DELETE FROM section_assignments WHERE schedule_id = ? AND course_id = ? AND semester = ?`
		args = []interface{}{course.ScheduleID, course.CourseID, course.Semester}
		err = nil
	}
	if err != nil {
		return fmt.Errorf("build section prune query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("prune section assignments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// ClearSchedule empties the roster and the assignment rows of a draft.
func (r *RosterRepository) ClearSchedule(ctx context.Context, scheduleID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"section_assignments", "schedule_courses", "schedule_instructors"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE schedule_id = $1", table), scheduleID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}
