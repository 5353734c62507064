package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleInstructor is one roster member row in schedule_instructors.
type ScheduleInstructor struct {
	ScheduleID    string    `db:"schedule_id" json:"schedule_id"`
	InstructorID  string    `db:"instructor_id" json:"instructor_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	ContractType  string    `db:"contract_type" json:"contract_type"`
	AnnualHourCap float64   `db:"annual_hour_cap" json:"annual_hour_cap"`
	BaselineHours float64   `db:"baseline_hours" json:"baseline_hours"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ScheduleCourse is one scheduled course row in schedule_courses. The same
// course id may appear once per semester with independent section sets.
type ScheduleCourse struct {
	ScheduleID         string         `db:"schedule_id" json:"schedule_id"`
	Semester           string         `db:"semester" json:"semester"`
	CourseID           string         `db:"course_id" json:"course_id"`
	Code               string         `db:"code" json:"code"`
	Title              string         `db:"title" json:"title"`
	ClassHoursPerWeek  float64        `db:"class_hours_per_week" json:"class_hours_per_week"`
	OnlineHoursPerWeek float64        `db:"online_hours_per_week" json:"online_hours_per_week"`
	Sections           pq.StringArray `db:"sections" json:"sections"`
	Position           int            `db:"position" json:"position"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}
