package dto

import "time"

// CreateScheduleRequest opens a new draft for an academic year.
type CreateScheduleRequest struct {
	Year int `json:"year" validate:"required,min=2000,max=2100"`
}

// ScheduleResponse summarises one draft.
type ScheduleResponse struct {
	ID              string    `json:"id"`
	Year            int       `json:"year"`
	Status          string    `json:"status"`
	ActiveSemesters []string  `json:"active_semesters"`
	InstructorCount int       `json:"instructor_count"`
	AssignmentCount int       `json:"assignment_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ScheduleListQuery filters the draft listing.
type ScheduleListQuery struct {
	Year      *int    `form:"year"`
	Status    *string `form:"status" validate:"omitempty,oneof=NOT_SUBMITTED SUBMITTED APPROVED REJECTED RECALLED"`
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
	SortBy    string  `form:"sort_by"`
	SortOrder string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// SemesterToggleRequest flips one semester's visibility flag.
type SemesterToggleRequest struct {
	Semester string `json:"semester" validate:"required,oneof=WINTER SPRING_SUMMER FALL"`
	Active   *bool  `json:"active" validate:"required"`
}
