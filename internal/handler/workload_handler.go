package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/middleware"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/response"
)

// WorkloadHandler exposes derived workload and completion boards.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// Instructors godoc
// @Summary Instructor workload board
// @Tags Workload
// @Produce json
// @Param id path string true "Schedule ID"
// @Param hide_near_cap query bool false "Hide instructors near their cap"
// @Param sort query string false "Sort mode"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/workload/instructors [get]
func (h *WorkloadHandler) Instructors(c *gin.Context) {
	var query dto.InstructorBoardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	views, err := h.service.Instructors(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil, middleware.ExtractMeta(c))
}

// Instructor godoc
// @Summary One instructor's workload
// @Tags Workload
// @Produce json
// @Param id path string true "Schedule ID"
// @Param instructorId path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/workload/instructors/{instructorId} [get]
func (h *WorkloadHandler) Instructor(c *gin.Context) {
	view, err := h.service.Instructor(c.Request.Context(), c.Param("id"), c.Param("instructorId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Courses godoc
// @Summary Course completion board for one semester
// @Tags Workload
// @Produce json
// @Param id path string true "Schedule ID"
// @Param semester query string true "Semester"
// @Param hide_complete query bool false "Hide fully staffed courses"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/workload/courses [get]
func (h *WorkloadHandler) Courses(c *gin.Context) {
	var query dto.CourseBoardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	courses, completion, err := h.service.Courses(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"courses":    courses,
		"completion": completion,
	}, nil, middleware.ExtractMeta(c))
}

// Board godoc
// @Summary Full assignment board
// @Tags Workload
// @Produce json
// @Param id path string true "Schedule ID"
// @Param semester query string true "Semester"
// @Param hide_near_cap query bool false "Hide instructors near their cap"
// @Param hide_complete query bool false "Hide fully staffed courses"
// @Param sort query string false "Sort mode"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/workload/board [get]
func (h *WorkloadHandler) Board(c *gin.Context) {
	var instructorQuery dto.InstructorBoardQuery
	if err := c.ShouldBindQuery(&instructorQuery); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	var courseQuery dto.CourseBoardQuery
	if err := c.ShouldBindQuery(&courseQuery); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	board, err := h.service.Board(c.Request.Context(), c.Param("id"), instructorQuery, courseQuery)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil, middleware.ExtractMeta(c))
}
