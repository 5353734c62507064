package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/response"
)

type assignmentService interface {
	Toggle(ctx context.Context, scheduleID string, req dto.ToggleAssignmentRequest) (*dto.ToggleAssignmentResponse, error)
	List(ctx context.Context, scheduleID string, query dto.AssignmentListQuery) ([]dto.AssignmentView, error)
	ClearAll(ctx context.Context, scheduleID string) error
}

// AssignmentHandler manages section assignment endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Toggle godoc
// @Summary Toggle a section assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ToggleAssignmentRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/assignments/toggle [post]
func (h *AssignmentHandler) Toggle(c *gin.Context) {
	var req dto.ToggleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Toggle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List stored assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Schedule ID"
// @Param instructor_id query string false "Filter by instructor"
// @Param course_id query string false "Filter by course"
// @Param semester query string false "Filter by semester"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	var query dto.AssignmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	assignments, err := h.service.List(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Clear godoc
// @Summary Remove every assignment of a draft
// @Tags Assignments
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id}/assignments [delete]
func (h *AssignmentHandler) Clear(c *gin.Context) {
	if err := h.service.ClearAll(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
