package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/handler"
	"github.com/noah-isme/acs-schedule-api/internal/middleware"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	"github.com/noah-isme/acs-schedule-api/pkg/config"
	"github.com/noah-isme/acs-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/acs-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/acs-schedule-api/pkg/middleware/requestid"
)

type routerHandlers struct {
	schedules   *handler.ScheduleHandler
	roster      *handler.RosterHandler
	assignments *handler.AssignmentHandler
	catalog     *handler.CatalogHandler
	workload    *handler.WorkloadHandler
	exports     *handler.ExportHandler
	metrics     *handler.MetricsHandler
}

func buildRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, h routerHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Signed token downloads carry their own authorization.
	api.GET("/exports/download/:token", h.exports.Download)

	authed := api.Group("", middleware.JWT(cfg.JWT.Secret))

	readers := authed.Group("", middleware.RBAC(middleware.RoleAdmin, middleware.RoleCoordinator, middleware.RoleViewer))
	{
		readers.GET("/schedules", h.schedules.List)
		readers.GET("/schedules/:id", h.schedules.Get)
		readers.GET("/schedules/:id/roster", h.roster.Roster)
		readers.GET("/schedules/:id/assignments", h.assignments.List)
		readers.GET("/schedules/:id/workload/instructors", h.workload.Instructors)
		readers.GET("/schedules/:id/workload/instructors/:instructorId", h.workload.Instructor)
		readers.GET("/schedules/:id/workload/courses", h.workload.Courses)
		readers.GET("/schedules/:id/workload/board", h.workload.Board)
		readers.GET("/exports/:jobId", h.exports.Status)
		readers.GET("/catalog/instructors", h.catalog.ListInstructors)
		readers.GET("/catalog/courses", h.catalog.ListCourses)
	}

	editors := authed.Group("", middleware.RBAC(middleware.RoleAdmin, middleware.RoleCoordinator))
	{
		editors.POST("/schedules",
			middleware.Audit(logr, "create", "schedule"), h.schedules.Create)
		editors.PUT("/schedules/:id/semesters",
			middleware.Audit(logr, "set_semesters", "schedule"), h.schedules.SetSemester)
		editors.POST("/schedules/:id/submit",
			middleware.Audit(logr, "submit", "schedule"), h.schedules.Submit)
		editors.POST("/schedules/:id/recall",
			middleware.Audit(logr, "recall", "schedule"), h.schedules.Recall)
		editors.POST("/schedules/:id/clear",
			middleware.Audit(logr, "clear", "schedule"), h.schedules.Clear)
		editors.POST("/schedules/:id/reload",
			middleware.Audit(logr, "reload", "schedule"), h.schedules.Reload)

		editors.POST("/schedules/:id/roster/instructors",
			middleware.Audit(logr, "add_instructor", "roster"), h.roster.AddInstructor)
		editors.DELETE("/schedules/:id/roster/instructors/:instructorId",
			middleware.Audit(logr, "remove_instructor", "roster"), h.roster.RemoveInstructor)
		editors.POST("/schedules/:id/roster/courses",
			middleware.Audit(logr, "add_course", "roster"), h.roster.AddCourse)
		editors.DELETE("/schedules/:id/roster/courses/:courseId",
			middleware.Audit(logr, "remove_course", "roster"), h.roster.RemoveCourse)
		editors.PUT("/schedules/:id/roster/courses/:courseId/sections",
			middleware.Audit(logr, "set_sections", "roster"), h.roster.SetSectionCount)
		editors.POST("/schedules/:id/roster/courses/:courseId/sections/toggle",
			middleware.Audit(logr, "toggle_section", "roster"), h.roster.ToggleSection)

		editors.POST("/schedules/:id/assignments/toggle",
			middleware.Audit(logr, "toggle", "assignment"), h.assignments.Toggle)
		editors.DELETE("/schedules/:id/assignments",
			middleware.Audit(logr, "clear", "assignment"), h.assignments.Clear)

		editors.POST("/schedules/:id/exports",
			middleware.Audit(logr, "create", "export"), h.exports.Create)
	}

	admins := authed.Group("", middleware.RBAC(middleware.RoleAdmin))
	{
		admins.DELETE("/schedules/:id",
			middleware.Audit(logr, "delete", "schedule"), h.schedules.Delete)
		admins.POST("/schedules/:id/approve",
			middleware.Audit(logr, "approve", "schedule"), h.schedules.Approve)
		admins.POST("/schedules/:id/reject",
			middleware.Audit(logr, "reject", "schedule"), h.schedules.Reject)
		admins.POST("/schedules/:id/reopen",
			middleware.Audit(logr, "reopen", "schedule"), h.schedules.Reopen)
		admins.GET("/status", h.metrics.Status)
	}

	return r
}
