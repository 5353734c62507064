package models

import "time"

// CatalogInstructor is a directory record instructors are picked from when
// building a roster.
type CatalogInstructor struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	FullName      string    `db:"full_name" json:"full_name"`
	ContractType  string    `db:"contract_type" json:"contract_type"`
	BaselineHours float64   `db:"baseline_hours" json:"baseline_hours"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogCourse is a course catalog record with its default weekly hours.
type CatalogCourse struct {
	ID                 string    `db:"id" json:"id"`
	Code               string    `db:"code" json:"code"`
	Title              string    `db:"title" json:"title"`
	ClassHoursPerWeek  float64   `db:"class_hours_per_week" json:"class_hours_per_week"`
	OnlineHoursPerWeek float64   `db:"online_hours_per_week" json:"online_hours_per_week"`
	Active             bool      `db:"active" json:"active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogFilter captures filtering options for catalog listings.
type CatalogFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
