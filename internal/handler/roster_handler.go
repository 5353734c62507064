package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/response"
)

// RosterHandler manages the draft roster endpoints.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// Roster godoc
// @Summary Get draft roster
// @Tags Roster
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/roster [get]
func (h *RosterHandler) Roster(c *gin.Context) {
	instructors, courses, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"instructors": instructors,
		"courses":     courses,
	}, nil)
}

// AddInstructor godoc
// @Summary Add instructor to roster
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AddInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/instructors [post]
func (h *RosterHandler) AddInstructor(c *gin.Context) {
	var req dto.AddInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.service.AddInstructor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// RemoveInstructor godoc
// @Summary Remove instructor from roster
// @Tags Roster
// @Produce json
// @Param id path string true "Schedule ID"
// @Param instructorId path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/instructors/{instructorId} [delete]
func (h *RosterHandler) RemoveInstructor(c *gin.Context) {
	result, err := h.service.RemoveInstructor(c.Request.Context(), c.Param("id"), c.Param("instructorId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AddCourse godoc
// @Summary Schedule course into a semester
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AddCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/courses [post]
func (h *RosterHandler) AddCourse(c *gin.Context) {
	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.AddCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// RemoveCourse godoc
// @Summary Remove course from a semester
// @Tags Roster
// @Produce json
// @Param id path string true "Schedule ID"
// @Param courseId path string true "Course ID"
// @Param semester query string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/courses/{courseId} [delete]
func (h *RosterHandler) RemoveCourse(c *gin.Context) {
	semester := c.Query("semester")
	if semester == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester required"))
		return
	}
	result, err := h.service.RemoveCourse(c.Request.Context(), c.Param("id"), c.Param("courseId"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SetSectionCount godoc
// @Summary Resize course sections
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param courseId path string true "Course ID"
// @Param payload body dto.SetSectionCountRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/courses/{courseId}/sections [put]
func (h *RosterHandler) SetSectionCount(c *gin.Context) {
	var req dto.SetSectionCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.SetSectionCount(c.Request.Context(), c.Param("id"), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ToggleSection godoc
// @Summary Open or close one section letter
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param courseId path string true "Course ID"
// @Param payload body dto.ToggleSectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/courses/{courseId}/sections/toggle [post]
func (h *RosterHandler) ToggleSection(c *gin.Context) {
	var req dto.ToggleSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ToggleSection(c.Request.Context(), c.Param("id"), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
