package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/acs-schedule-api/internal/engine"
)

// ScheduleDraft is the persisted header row for one academic year's draft.
type ScheduleDraft struct {
	ID              string             `db:"id" json:"id"`
	Year            int                `db:"year" json:"year"`
	Status          string             `db:"status" json:"status"`
	ActiveSemesters ActiveSemesterList `db:"active_semesters" json:"active_semesters"`
	CreatedBy       *string            `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// ActiveSemesterList stores the visible-semester flags as a JSONB array.
type ActiveSemesterList []engine.Semester

// Value marshals the list to JSON for persistence.
func (l ActiveSemesterList) Value() (driver.Value, error) {
	if l == nil {
		l = ActiveSemesterList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal active semesters: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the list.
func (l *ActiveSemesterList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ActiveSemesterList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal active semesters: %w", err)
	}
	return nil
}

// ScheduleFilter captures filtering criteria for listing drafts.
type ScheduleFilter struct {
	Year      *int
	Status    *string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
