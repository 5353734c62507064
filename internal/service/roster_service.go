package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type rosterMutationStore interface {
	InsertInstructor(ctx context.Context, inst *models.ScheduleInstructor) error
	DeleteInstructor(ctx context.Context, scheduleID, instructorID string) error
	InsertCourse(ctx context.Context, course *models.ScheduleCourse) error
	DeleteCourse(ctx context.Context, scheduleID, courseID, semester string) error
	UpdateCourseSections(ctx context.Context, course *models.ScheduleCourse) error
}

type instructorDirectory interface {
	FindByID(ctx context.Context, id string) (*models.CatalogInstructor, error)
}

type courseDirectory interface {
	FindByID(ctx context.Context, id string) (*models.CatalogCourse, error)
}

// RosterService mutates a draft's roster. Every mutation is applied to the
// in-memory draft first and persisted after; a persistence failure rolls the
// local state back unless the caller cancelled. Removals report the
// assignment entries they cascaded away.
type RosterService struct {
	registry    *ScheduleRegistry
	store       rosterMutationStore
	instructors instructorDirectory
	courses     courseDirectory
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRosterService creates a service instance.
func NewRosterService(registry *ScheduleRegistry, store rosterMutationStore, instructors instructorDirectory, courses courseDirectory, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		registry:    registry,
		store:       store,
		instructors: instructors,
		courses:     courses,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// Roster returns the draft's instructors and courses.
func (s *RosterService) Roster(ctx context.Context, scheduleID string) ([]dto.InstructorView, []dto.CourseView, error) {
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	instructors := make([]dto.InstructorView, 0)
	courses := make([]dto.CourseView, 0)
	_ = h.withLock(func(sched *engine.Schedule) error {
		for _, inst := range sched.Instructors() {
			instructors = append(instructors, instructorView(inst))
		}
		for _, sem := range engine.Semesters() {
			for _, c := range sched.Courses(sem) {
				courses = append(courses, courseView(sem, c))
			}
		}
		return nil
	})
	return instructors, courses, nil
}

// AddInstructor places a catalog instructor onto the roster.
func (s *RosterService) AddInstructor(ctx context.Context, scheduleID string, req dto.AddInstructorRequest) (*dto.InstructorView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	record, err := s.instructors.FindByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownReference, "instructor not found in directory")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load instructor")
	}
	if !record.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "instructor is inactive")
	}

	inst := engine.Instructor{
		ID:            record.ID,
		FullName:      record.FullName,
		ContractType:  engine.ContractType(record.ContractType),
		BaselineHours: record.BaselineHours,
	}
	if req.AnnualHourCap != nil {
		inst.AnnualHourCap = *req.AnnualHourCap
	}
	if req.BaselineHours != nil {
		inst.BaselineHours = *req.BaselineHours
	}

	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if err := h.sched.AddInstructor(inst); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	added, _ := h.sched.InstructorByID(inst.ID)
	h.mu.Unlock()

	row := instructorRow(scheduleID, added)
	if err := s.store.InsertInstructor(ctx, &row); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				_, rmErr := sched.RemoveInstructor(inst.ID)
				return rmErr
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist instructor")
	}
	s.invalidateWorkload(ctx, scheduleID)
	view := instructorView(added)
	return &view, nil
}

// RemoveInstructor drops a roster member; their assignments cascade away.
func (s *RosterService) RemoveInstructor(ctx context.Context, scheduleID, instructorID string) (*dto.RosterMutationResponse, error) {
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	prior := h.sched.Snapshot()
	removed, err := h.sched.RemoveInstructor(instructorID)
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteInstructor(ctx, scheduleID, instructorID); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				sched.Reconcile(prior)
				return nil
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to remove instructor")
	}
	s.invalidateWorkload(ctx, scheduleID)
	return &dto.RosterMutationResponse{RemovedAssignments: assignmentViews(removed)}, nil
}

// AddCourse schedules a catalog course into a semester. The offering starts
// with the first sectionCount letters of the alphabet (one when omitted).
func (s *RosterService) AddCourse(ctx context.Context, scheduleID string, req dto.AddCourseRequest) (*dto.CourseView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	record, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownReference, "course not found in catalog")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load course")
	}

	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	sem := engine.Semester(req.Semester)
	count := req.SectionCount
	if count <= 0 {
		count = 1
	}

	h.mu.Lock()
	cfg := h.sched.Config()
	sections := make([]string, 0, count)
	for i := 0; i < count; i++ {
		letter := cfg.SectionLetter(i)
		if letter == "" {
			h.mu.Unlock()
			return nil, appErrors.Clone(appErrors.ErrSectionAlphabetExhausted, "requested more sections than the alphabet allows")
		}
		sections = append(sections, letter)
	}
	course := engine.Course{
		CourseID:           record.ID,
		Code:               record.Code,
		Title:              record.Title,
		ClassHoursPerWeek:  record.ClassHoursPerWeek,
		OnlineHoursPerWeek: record.OnlineHoursPerWeek,
		Sections:           sections,
	}
	if err := h.sched.AddCourse(sem, course); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	added, _ := h.sched.CourseInSemester(course.CourseID, sem)
	h.mu.Unlock()

	row := courseRow(scheduleID, sem, added)
	if err := s.store.InsertCourse(ctx, &row); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				_, rmErr := sched.RemoveCourse(sem, course.CourseID)
				return rmErr
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist course")
	}
	view := courseView(sem, added)
	return &view, nil
}

// RemoveCourse drops one semester's offering; its assignments cascade away.
func (s *RosterService) RemoveCourse(ctx context.Context, scheduleID, courseID, semester string) (*dto.RosterMutationResponse, error) {
	sem := engine.Semester(semester)
	if !sem.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown semester")
	}
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	prior := h.sched.Snapshot()
	removed, err := h.sched.RemoveCourse(sem, courseID)
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteCourse(ctx, scheduleID, courseID, semester); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				sched.Reconcile(prior)
				return nil
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to remove course")
	}
	s.invalidateWorkload(ctx, scheduleID)
	return &dto.RosterMutationResponse{RemovedAssignments: assignmentViews(removed)}, nil
}

// SetSectionCount resizes an offering to the first count letters. Shrinking
// cascades assignments of the dropped sections.
func (s *RosterService) SetSectionCount(ctx context.Context, scheduleID, courseID string, req dto.SetSectionCountRequest) (*dto.RosterMutationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sem := engine.Semester(req.Semester)

	h.mu.Lock()
	prior := h.sched.Snapshot()
	removed, err := h.sched.SetSectionCount(courseID, sem, req.Count)
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	updated, _ := h.sched.CourseInSemester(courseID, sem)
	h.mu.Unlock()

	if err := s.persistSections(ctx, h, scheduleID, sem, updated, prior); err != nil {
		return nil, err
	}
	s.invalidateWorkload(ctx, scheduleID)
	return &dto.RosterMutationResponse{RemovedAssignments: assignmentViews(removed)}, nil
}

// ToggleSection opens or closes one section letter. Closing cascades the
// section's assignments.
func (s *RosterService) ToggleSection(ctx context.Context, scheduleID, courseID string, req dto.ToggleSectionRequest) (*dto.ToggleSectionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	h, err := s.registry.Handle(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sem := engine.Semester(req.Semester)

	h.mu.Lock()
	prior := h.sched.Snapshot()
	open, removed, err := h.sched.ToggleSectionLetter(courseID, sem, req.Letter)
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	updated, _ := h.sched.CourseInSemester(courseID, sem)
	h.mu.Unlock()

	if err := s.persistSections(ctx, h, scheduleID, sem, updated, prior); err != nil {
		return nil, err
	}
	s.invalidateWorkload(ctx, scheduleID)
	return &dto.ToggleSectionResponse{
		Open:               open,
		Sections:           updated.Sections,
		RemovedAssignments: assignmentViews(removed),
	}, nil
}

func (s *RosterService) persistSections(ctx context.Context, h *scheduleHandle, scheduleID string, sem engine.Semester, course engine.Course, prior engine.Snapshot) error {
	row := courseRow(scheduleID, sem, course)
	if err := s.store.UpdateCourseSections(ctx, &row); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				sched.Reconcile(prior)
				return nil
			})
		}
		return appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist sections")
	}
	return nil
}

func (s *RosterService) invalidateWorkload(ctx context.Context, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, workloadCachePattern(scheduleID)); err != nil {
		s.logger.Sugar().Warnw("workload cache invalidation failed", "schedule_id", scheduleID, "error", err)
	}
}
