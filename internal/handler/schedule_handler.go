package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/response"
)

// ScheduleHandler manages schedule draft endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Create godoc
// @Summary Create schedule draft
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// List godoc
// @Summary List schedule drafts
// @Tags Schedules
// @Produce json
// @Param year query int false "Filter by year"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleListQuery
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		query.Year = &year
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		query.PageSize = limit
	}
	query.SortBy = c.Query("sort")
	query.SortOrder = c.Query("order")

	schedules, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get schedule draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete schedule draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetSemester godoc
// @Summary Toggle semester visibility
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SemesterToggleRequest true "Semester payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/semesters [patch]
func (h *ScheduleHandler) SetSemester(c *gin.Context) {
	var req dto.SemesterToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.SetSemesterActive(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Submit godoc
// @Summary Submit draft for review
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/submit [post]
func (h *ScheduleHandler) Submit(c *gin.Context) {
	h.transition(c, h.service.Submit)
}

// Approve godoc
// @Summary Approve submitted draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/approve [post]
func (h *ScheduleHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject submitted draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/reject [post]
func (h *ScheduleHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Recall godoc
// @Summary Recall submitted or approved draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/recall [post]
func (h *ScheduleHandler) Recall(c *gin.Context) {
	h.transition(c, h.service.Recall)
}

// Reopen godoc
// @Summary Reopen rejected or recalled draft
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/reopen [post]
func (h *ScheduleHandler) Reopen(c *gin.Context) {
	h.transition(c, h.service.Reopen)
}

// Clear godoc
// @Summary Clear draft roster and assignments
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id}/clear [post]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reload godoc
// @Summary Reconcile draft with persisted state
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/reload [post]
func (h *ScheduleHandler) Reload(c *gin.Context) {
	schedule, err := h.service.Reload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

func (h *ScheduleHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*dto.ScheduleResponse, error)) {
	schedule, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}
