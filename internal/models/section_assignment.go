package models

import "time"

// SectionAssignment is one non-empty assignment row in section_assignments.
// Rows with neither flag set are never stored.
type SectionAssignment struct {
	ScheduleID   string    `db:"schedule_id" json:"schedule_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Section      string    `db:"section" json:"section"`
	Semester     string    `db:"semester" json:"semester"`
	ClassTaken   bool      `db:"class_taken" json:"class_taken"`
	OnlineTaken  bool      `db:"online_taken" json:"online_taken"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
