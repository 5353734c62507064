package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type workloadCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// WorkloadCacheConfig tunes the Redis-side caching of workload projections.
type WorkloadCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// WorkloadService derives hour totals, utilization bands and completion
// states from the draft's assignment store. Results are pure projections of
// in-memory state; the cache only spares recomputation between mutations.
type WorkloadService struct {
	registry  *ScheduleRegistry
	cache     workloadCache
	cacheCfg  WorkloadCacheConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkloadService creates a service instance.
func NewWorkloadService(registry *ScheduleRegistry, cache workloadCache, cacheCfg WorkloadCacheConfig, validate *validator.Validate, logger *zap.Logger) *WorkloadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheCfg.TTL <= 0 {
		cacheCfg.TTL = 5 * time.Minute
	}
	return &WorkloadService{
		registry:  registry,
		cache:     cache,
		cacheCfg:  cacheCfg,
		validator: validate,
		logger:    logger,
	}
}

// Instructors returns the instructor board: filtered, sorted and annotated
// with derived workloads.
func (s *WorkloadService) Instructors(ctx context.Context, scheduleID string, query dto.InstructorBoardQuery) ([]dto.InstructorWorkloadView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor query")
	}
	mode := engine.SortMode(query.Sort)
	if query.Sort == "" {
		mode = engine.SortAlphabetical
	}

	cacheKey := fmt.Sprintf("workload:%s:instructors:%t:%s", scheduleID, query.HideNearCap, mode)
	var cached []dto.InstructorWorkloadView
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	views := make([]dto.InstructorWorkloadView, 0)
	_ = h.withLock(func(sched *engine.Schedule) error {
		for _, inst := range sched.VisibleInstructors(query.HideNearCap, mode) {
			views = append(views, workloadView(sched, inst))
		}
		return nil
	})

	s.cacheSet(ctx, cacheKey, views)
	return views, nil
}

// Instructor returns one roster member's derived workload.
func (s *WorkloadService) Instructor(ctx context.Context, scheduleID, instructorID string) (*dto.InstructorWorkloadView, error) {
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	var view *dto.InstructorWorkloadView
	lookupErr := h.withLock(func(sched *engine.Schedule) error {
		inst, ok := sched.InstructorByID(instructorID)
		if !ok {
			return appErrors.Clone(appErrors.ErrUnknownReference, "instructor is not on the roster")
		}
		v := workloadView(sched, inst)
		view = &v
		return nil
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	return view, nil
}

// Courses returns the course board for one semester with completion states.
func (s *WorkloadService) Courses(ctx context.Context, scheduleID string, query dto.CourseBoardQuery) ([]dto.CourseView, []dto.CourseCompletionView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course query")
	}
	sem := engine.Semester(query.Semester)

	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	courses := make([]dto.CourseView, 0)
	completion := make([]dto.CourseCompletionView, 0)
	_ = h.withLock(func(sched *engine.Schedule) error {
		for _, c := range sched.VisibleCourses(sem, query.HideComplete) {
			courses = append(courses, courseView(sem, c))
			completion = append(completion, dto.CourseCompletionView{
				CourseID:   c.CourseID,
				Code:       c.Code,
				Semester:   string(sem),
				Completion: string(sched.CourseCompletion(c.CourseID, sem)),
			})
		}
		return nil
	})
	return courses, completion, nil
}

// Board bundles both sides of the assignment screen in one response.
func (s *WorkloadService) Board(ctx context.Context, scheduleID string, instructorQuery dto.InstructorBoardQuery, courseQuery dto.CourseBoardQuery) (*dto.WorkloadBoardResponse, error) {
	instructors, err := s.Instructors(ctx, scheduleID, instructorQuery)
	if err != nil {
		return nil, err
	}
	courses, completion, err := s.Courses(ctx, scheduleID, courseQuery)
	if err != nil {
		return nil, err
	}
	return &dto.WorkloadBoardResponse{
		Instructors: instructors,
		Courses:     courses,
		Completion:  completion,
	}, nil
}

func (s *WorkloadService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if !s.cacheCfg.Enabled || s.cache == nil {
		return false
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if !appErrors.HasCode(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Debugw("workload cache read failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (s *WorkloadService) cacheSet(ctx context.Context, key string, value interface{}) {
	if !s.cacheCfg.Enabled || s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheCfg.TTL); err != nil {
		s.logger.Sugar().Debugw("workload cache write failed", "key", key, "error", err)
	}
}

func workloadView(sched *engine.Schedule, inst engine.Instructor) dto.InstructorWorkloadView {
	semHours := make(map[string]float64, 3)
	for _, sem := range engine.Semesters() {
		semHours[string(sem)] = sched.SemesterHours(inst.ID, sem)
	}
	return dto.InstructorWorkloadView{
		InstructorID:     inst.ID,
		FullName:         inst.FullName,
		ContractType:     string(inst.ContractType),
		AnnualHourCap:    inst.AnnualHourCap,
		BaselineHours:    inst.BaselineHours,
		SemesterHours:    semHours,
		AnnualHours:      sched.AnnualHours(inst.ID),
		UtilizationRatio: sched.UtilizationRatio(inst.ID),
		UtilizationBand:  string(sched.UtilizationBandFor(inst.ID)),
		NearCap:          sched.IsNearCap(inst.ID),
	}
}
