package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/response"
)

// CatalogHandler serves the instructor and course directories.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListInstructors godoc
// @Summary List directory instructors
// @Tags Catalog
// @Produce json
// @Param search query string false "Name or email search"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/instructors [get]
func (h *CatalogHandler) ListInstructors(c *gin.Context) {
	var query dto.CatalogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	instructors, pagination, err := h.service.ListInstructors(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, pagination)
}

// ListCourses godoc
// @Summary List catalog courses
// @Tags Catalog
// @Produce json
// @Param search query string false "Code or title search"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var query dto.CatalogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	courses, pagination, err := h.service.ListCourses(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}
