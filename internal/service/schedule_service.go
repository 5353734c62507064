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

type draftHeaderStore interface {
	Create(ctx context.Context, draft *models.ScheduleDraft) error
	FindByID(ctx context.Context, id string) (*models.ScheduleDraft, error)
	FindByYear(ctx context.Context, year int) (*models.ScheduleDraft, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDraft, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateActiveSemesters(ctx context.Context, id string, semesters models.ActiveSemesterList) error
	Delete(ctx context.Context, id string) error
}

type scheduleWiper interface {
	ClearSchedule(ctx context.Context, scheduleID string) error
}

// ScheduleService owns draft lifecycle: creation, listing, the submission
// state machine and semester visibility. Status changes are applied to the
// in-memory draft first and rolled back if persistence fails, unless the
// caller cancelled mid-flight.
type ScheduleService struct {
	registry  *ScheduleRegistry
	drafts    draftHeaderStore
	wiper     scheduleWiper
	cache     cacheInvalidator
	engineCfg engine.Config
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService creates a service instance.
func NewScheduleService(registry *ScheduleRegistry, drafts draftHeaderStore, wiper scheduleWiper, cache cacheInvalidator, engineCfg engine.Config, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		registry:  registry,
		drafts:    drafts,
		wiper:     wiper,
		cache:     cache,
		engineCfg: engineCfg,
		validator: validate,
		logger:    logger,
	}
}

// Create opens a new draft with every semester visible.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest, actorID string) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	// One draft per academic year.
	if _, err := s.drafts.FindByYear(ctx, req.Year); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a draft for this year already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to check existing drafts")
	}

	draft := &models.ScheduleDraft{
		Year:            req.Year,
		Status:          string(engine.StatusNotSubmitted),
		ActiveSemesters: models.ActiveSemesterList(engine.Semesters()),
	}
	if actorID != "" {
		draft.CreatedBy = &actorID
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to create schedule")
	}

	sched := engine.NewSchedule(draft.ID, draft.Year, s.engineCfg)
	s.registry.Insert(sched)
	s.logger.Sugar().Infow("schedule created", "schedule_id", draft.ID, "year", draft.Year)
	return s.responseFor(ctx, draft.ID)
}

// Get returns the draft summary.
func (s *ScheduleService) Get(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.responseFor(ctx, id)
}

// List returns draft headers matching the query.
func (s *ScheduleService) List(ctx context.Context, query dto.ScheduleListQuery) ([]dto.ScheduleResponse, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list query")
	}
	filter := models.ScheduleFilter{
		Year:      query.Year,
		Status:    query.Status,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	drafts, total, err := s.drafts.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to list schedules")
	}

	out := make([]dto.ScheduleResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, dto.ScheduleResponse{
			ID:              d.ID,
			Year:            d.Year,
			Status:          d.Status,
			ActiveSemesters: semesterStrings(d.ActiveSemesters),
			CreatedAt:       d.CreatedAt,
			UpdatedAt:       d.UpdatedAt,
		})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return out, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Delete removes a draft and all its dependent rows.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.drafts.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to delete schedule")
	}
	s.registry.Remove(id)
	s.invalidateWorkload(ctx, id)
	s.logger.Sugar().Infow("schedule deleted", "schedule_id", id)
	return nil
}

// SetSemesterActive flips one semester's visibility flag. Hidden semesters
// keep their assignments; the flag only filters views.
func (s *ScheduleService) SetSemesterActive(ctx context.Context, id string, req dto.SemesterToggleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	h, err := s.registry.Handle(ctx, id)
	if err != nil {
		return nil, err
	}

	sem := engine.Semester(req.Semester)
	var prev []engine.Semester
	_ = h.withLock(func(sched *engine.Schedule) error {
		prev = sched.ActiveSemesterList()
		sched.SetSemesterActive(sem, *req.Active)
		return nil
	})

	var active []engine.Semester
	_ = h.withLock(func(sched *engine.Schedule) error {
		active = sched.ActiveSemesterList()
		return nil
	})
	if err := s.drafts.UpdateActiveSemesters(ctx, id, models.ActiveSemesterList(active)); err != nil {
		s.rollbackSemesters(ctx, h, prev)
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist semester flags")
	}
	// The active set feeds the current-semester sort fallback, so cached
	// boards are stale once it changes.
	s.invalidateWorkload(ctx, id)
	return s.responseFor(ctx, id)
}

// Submit moves the draft into review.
func (s *ScheduleService) Submit(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, func(sched *engine.Schedule) error { return sched.Submit() })
}

// Approve accepts a submitted draft.
func (s *ScheduleService) Approve(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, func(sched *engine.Schedule) error { return sched.Approve() })
}

// Reject returns a submitted draft to its author.
func (s *ScheduleService) Reject(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, func(sched *engine.Schedule) error { return sched.Reject() })
}

// Recall withdraws a submitted or approved draft, unlocking edits.
func (s *ScheduleService) Recall(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, func(sched *engine.Schedule) error { return sched.Recall() })
}

// Reopen resets a rejected or recalled draft to NotSubmitted.
func (s *ScheduleService) Reopen(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return s.transition(ctx, id, func(sched *engine.Schedule) error { return sched.Reopen() })
}

// Clear empties the draft's roster and assignments, keeping year, flags and
// status.
func (s *ScheduleService) Clear(ctx context.Context, id string) error {
	h, err := s.registry.Handle(ctx, id)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prior := h.sched.Snapshot()
	if err := h.sched.Clear(); err != nil {
		return err
	}
	if err := s.wiper.ClearSchedule(ctx, id); err != nil {
		if ctx.Err() == nil {
			h.sched.Reconcile(prior)
		}
		return appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to clear schedule")
	}
	s.invalidateWorkload(ctx, id)
	s.logger.Sugar().Infow("schedule cleared", "schedule_id", id)
	return nil
}

// Reload discards unpersisted local state and reconciles with the database.
func (s *ScheduleService) Reload(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	if err := s.registry.Reload(ctx, id); err != nil {
		return nil, err
	}
	s.invalidateWorkload(ctx, id)
	return s.responseFor(ctx, id)
}

func (s *ScheduleService) transition(ctx context.Context, id string, op func(*engine.Schedule) error) (*dto.ScheduleResponse, error) {
	h, err := s.registry.Handle(ctx, id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	prev := h.sched.Status()
	if err := op(h.sched); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	next := h.sched.Status()
	h.mu.Unlock()

	if err := s.drafts.UpdateStatus(ctx, id, string(next)); err != nil {
		if ctx.Err() == nil {
			_ = h.withLock(func(sched *engine.Schedule) error {
				sched.SetStatus(prev)
				return nil
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to persist schedule status")
	}
	s.logger.Sugar().Infow("schedule status changed", "schedule_id", id, "from", prev, "to", next)
	return s.responseFor(ctx, id)
}

func (s *ScheduleService) invalidateWorkload(ctx context.Context, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, workloadCachePattern(scheduleID)); err != nil {
		s.logger.Sugar().Warnw("workload cache invalidation failed", "schedule_id", scheduleID, "error", err)
	}
}

func (s *ScheduleService) rollbackSemesters(ctx context.Context, h *scheduleHandle, prev []engine.Semester) {
	if ctx.Err() != nil {
		return
	}
	_ = h.withLock(func(sched *engine.Schedule) error {
		for _, sem := range engine.Semesters() {
			sched.SetSemesterActive(sem, false)
		}
		for _, sem := range prev {
			sched.SetSemesterActive(sem, true)
		}
		return nil
	})
}

func (s *ScheduleService) responseFor(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	h, err := s.registry.Handle(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load schedule")
	}

	resp := &dto.ScheduleResponse{
		ID:        draft.ID,
		CreatedAt: draft.CreatedAt,
		UpdatedAt: draft.UpdatedAt,
	}
	_ = h.withLock(func(sched *engine.Schedule) error {
		resp.Year = sched.Year()
		resp.Status = string(sched.Status())
		resp.ActiveSemesters = semesterStrings(sched.ActiveSemesterList())
		resp.InstructorCount = len(sched.Instructors())
		resp.AssignmentCount = sched.AssignmentCount()
		return nil
	})
	return resp, nil
}
