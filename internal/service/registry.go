package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type draftHeaderReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleDraft, error)
}

type rosterRowReader interface {
	ListInstructors(ctx context.Context, scheduleID string) ([]models.ScheduleInstructor, error)
	ListCourses(ctx context.Context, scheduleID string) ([]models.ScheduleCourse, error)
}

type assignmentRowReader interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SectionAssignment, error)
}

// scheduleHandle pairs one loaded draft with its locks. mu serialises
// mutations of the engine state; inflight tracks per-offering toggles so at
// most one is in flight per key.
type scheduleHandle struct {
	mu       sync.Mutex
	sched    *engine.Schedule
	inflight inflightKeys
}

// withLock runs fn with exclusive access to the engine state.
func (h *scheduleHandle) withLock(fn func(s *engine.Schedule) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.sched)
}

type inflightKeys struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (k *inflightKeys) acquire(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys == nil {
		k.keys = make(map[string]struct{})
	}
	if _, busy := k.keys[key]; busy {
		return false
	}
	k.keys[key] = struct{}{}
	return true
}

func (k *inflightKeys) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, key)
}

// ScheduleRegistry keeps the authoritative in-memory engine state per draft,
// loading from the persistence layer on first access. Reads served from the
// registry observe every locally applied mutation immediately, including ones
// whose persistence is still in flight.
type ScheduleRegistry struct {
	drafts      draftHeaderReader
	roster      rosterRowReader
	assignments assignmentRowReader
	engineCfg   engine.Config
	logger      *zap.Logger

	mu      sync.RWMutex
	handles map[string]*scheduleHandle
}

// NewScheduleRegistry constructs a registry backed by the given stores.
func NewScheduleRegistry(drafts draftHeaderReader, roster rosterRowReader, assignments assignmentRowReader, engineCfg engine.Config, logger *zap.Logger) *ScheduleRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleRegistry{
		drafts:      drafts,
		roster:      roster,
		assignments: assignments,
		engineCfg:   engineCfg,
		logger:      logger,
		handles:     make(map[string]*scheduleHandle),
	}
}

// Handle returns the loaded draft, fetching it on a registry miss.
func (r *ScheduleRegistry) Handle(ctx context.Context, id string) (*scheduleHandle, error) {
	r.mu.RLock()
	h, ok := r.handles[id]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	snap, err := r.loadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[id]; ok {
		return h, nil
	}
	h = &scheduleHandle{sched: engine.FromSnapshot(r.engineCfg, *snap)}
	r.handles[id] = h
	r.logger.Sugar().Debugw("schedule loaded into registry", "schedule_id", id)
	return h, nil
}

// Insert registers a freshly created draft.
func (r *ScheduleRegistry) Insert(sched *engine.Schedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[sched.ID()] = &scheduleHandle{sched: sched}
}

// Loaded reports how many drafts are held in memory.
func (r *ScheduleRegistry) Loaded() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Remove drops a draft from the registry.
func (r *ScheduleRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// Reload refetches persisted state and reconciles the in-memory draft with
// it, discarding any unpersisted local entries.
func (r *ScheduleRegistry) Reload(ctx context.Context, id string) error {
	snap, err := r.loadSnapshot(ctx, id)
	if err != nil {
		return err
	}
	h, err := r.Handle(ctx, id)
	if err != nil {
		return err
	}
	return h.withLock(func(s *engine.Schedule) error {
		s.Reconcile(*snap)
		return nil
	})
}

func (r *ScheduleRegistry) loadSnapshot(ctx context.Context, id string) (*engine.Snapshot, error) {
	draft, err := r.drafts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load schedule")
	}
	instructors, err := r.roster.ListInstructors(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load roster")
	}
	courses, err := r.roster.ListCourses(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load courses")
	}
	rows, err := r.assignments.ListBySchedule(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to load assignments")
	}
	snap := snapshotFromRows(draft, instructors, courses, rows)
	return &snap, nil
}
