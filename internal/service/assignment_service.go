package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type offeringStore interface {
	ReplaceOffering(ctx context.Context, scheduleID, courseID, section, semester string, rows []models.SectionAssignment) error
	DeleteAllForSchedule(ctx context.Context, scheduleID string) error
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AssignmentService applies section toggles. A toggle is applied to the
// in-memory draft first, so subsequent reads observe it immediately, then the
// affected offering's rows are persisted. If persistence fails the local
// entries are rolled back to the pre-toggle state; a caller-cancelled context
// keeps the local state and leaves reconciliation to an explicit reload. At
// most one toggle is in flight per offering key.
type AssignmentService struct {
	registry  *ScheduleRegistry
	store     offeringStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService creates a service instance.
func NewAssignmentService(registry *ScheduleRegistry, store offeringStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		registry:  registry,
		store:     store,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Toggle flips one component of an offering for an instructor.
func (s *AssignmentService) Toggle(ctx context.Context, scheduleID string, req dto.ToggleAssignmentRequest) (*dto.ToggleAssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid toggle payload")
	}
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	sem := engine.Semester(req.Semester)
	key := offeringKey(req.CourseID, req.Section, sem)
	if !h.inflight.acquire(key) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "another change for this offering is still in flight")
	}
	defer h.inflight.release(key)

	h.mu.Lock()
	prior := h.sched.AssignmentsForOffering(req.CourseID, req.Section, sem)
	result, err := h.sched.ToggleAssignment(req.InstructorID, req.CourseID, req.Section, sem, engine.Component(req.Component))
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	after := h.sched.AssignmentsForOffering(req.CourseID, req.Section, sem)
	h.mu.Unlock()

	if err := s.store.ReplaceOffering(ctx, scheduleID, req.CourseID, req.Section, req.Semester, assignmentRows(scheduleID, after)); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				sched.ReplaceOffering(req.CourseID, req.Section, sem, prior)
				return nil
			})
			s.logger.Sugar().Warnw("toggle rolled back after persistence failure",
				"schedule_id", scheduleID, "course_id", req.CourseID, "section", req.Section, "error", err)
			return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist assignment toggle")
		}
		s.logger.Sugar().Warnw("toggle persistence cancelled, local state kept",
			"schedule_id", scheduleID, "course_id", req.CourseID, "section", req.Section)
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "assignment toggle interrupted")
	}

	s.invalidateWorkload(ctx, scheduleID)

	resp := &dto.ToggleAssignmentResponse{Displaced: result.Displaced}
	if resp.Displaced == nil {
		resp.Displaced = []string{}
	}
	if result.Entry != nil {
		view := assignmentView(engine.Assignment{AssignmentKey: result.Key, AssignmentEntry: *result.Entry})
		resp.Entry = &view
	}
	return resp, nil
}

// List returns stored entries narrowed by the query's optional filters.
func (s *AssignmentService) List(ctx context.Context, scheduleID string, query dto.AssignmentListQuery) ([]dto.AssignmentView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment query")
	}
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	var list []engine.Assignment
	_ = h.withLock(func(sched *engine.Schedule) error {
		var semesters []engine.Semester
		if query.Semester != "" {
			semesters = append(semesters, engine.Semester(query.Semester))
		}
		switch {
		case query.InstructorID != "":
			list = sched.AssignmentsForInstructor(query.InstructorID, semesters...)
		case query.CourseID != "":
			list = sched.AssignmentsForCourse(query.CourseID, semesters...)
		default:
			snap := sched.Snapshot()
			for _, a := range snap.Assignments {
				if query.Semester != "" && string(a.Semester) != query.Semester {
					continue
				}
				list = append(list, a)
			}
		}
		return nil
	})

	if query.CourseID != "" && query.InstructorID != "" {
		filtered := list[:0]
		for _, a := range list {
			if a.CourseID == query.CourseID {
				filtered = append(filtered, a)
			}
		}
		list = filtered
	}
	return assignmentViews(list), nil
}

// ClearAll removes every assignment of the draft, keeping the roster.
func (s *AssignmentService) ClearAll(ctx context.Context, scheduleID string) error {
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prior := h.sched.Snapshot()
	if err := h.sched.ClearAssignments(); err != nil {
		return err
	}
	if err := s.store.DeleteAllForSchedule(ctx, scheduleID); err != nil {
		if ctx.Err() == nil {
			h.sched.Reconcile(prior)
		}
		return appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to clear assignments")
	}
	s.invalidateWorkload(ctx, scheduleID)
	return nil
}

func (s *AssignmentService) invalidateWorkload(ctx context.Context, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, workloadCachePattern(scheduleID)); err != nil {
		s.logger.Sugar().Warnw("workload cache invalidation failed", "schedule_id", scheduleID, "error", err)
	}
}

func workloadCachePattern(scheduleID string) string {
	return "workload:" + scheduleID + ":*"
}
