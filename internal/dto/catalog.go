package dto

import "time"

// CatalogListQuery filters directory listings.
type CatalogListQuery struct {
	Search    string `form:"search" validate:"omitempty,max=100"`
	Active    *bool  `form:"active"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort" validate:"omitempty,oneof=full_name email contract_type code title created_at"`
	SortOrder string `form:"order" validate:"omitempty,oneof=asc desc"`
}

// CatalogInstructorResponse is a directory record offered when building a
// roster. Baseline hours seed the roster entry unless overridden.
type CatalogInstructorResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	ContractType  string    `json:"contract_type"`
	BaselineHours float64   `json:"baseline_hours"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CatalogCourseResponse is a course catalog record with its default weekly
// hour split.
type CatalogCourseResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	Title              string    `json:"title"`
	ClassHoursPerWeek  float64   `json:"class_hours_per_week"`
	OnlineHoursPerWeek float64   `json:"online_hours_per_week"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}
