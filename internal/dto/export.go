package dto

import "time"

// CreateExportRequest queues a workload export for one draft.
type CreateExportRequest struct {
	Format   string  `json:"format" validate:"required,oneof=csv pdf"`
	Semester *string `json:"semester" validate:"omitempty,oneof=WINTER SPRING_SUMMER FALL"`
}

// ExportJobResponse reports background job progress.
type ExportJobResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	Format       string     `json:"format"`
	ResultURL    *string    `json:"result_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}
