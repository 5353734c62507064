package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type draftStoreStub struct {
	drafts        map[string]*models.ScheduleDraft
	nextID        string
	createErr     error
	statusErr     error
	semestersErr  error
	deleteErr     error
	statusUpdates []string
}

func (s *draftStoreStub) Create(ctx context.Context, draft *models.ScheduleDraft) error {
	if s.createErr != nil {
		return s.createErr
	}
	if draft.ID == "" {
		draft.ID = s.nextID
	}
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt
	if s.drafts == nil {
		s.drafts = make(map[string]*models.ScheduleDraft)
	}
	cp := *draft
	s.drafts[draft.ID] = &cp
	return nil
}

func (s *draftStoreStub) FindByYear(ctx context.Context, year int) (*models.ScheduleDraft, error) {
	for _, draft := range s.drafts {
		if draft.Year == year {
			cp := *draft
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *draftStoreStub) FindByID(ctx context.Context, id string) (*models.ScheduleDraft, error) {
	if draft, ok := s.drafts[id]; ok {
		cp := *draft
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *draftStoreStub) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDraft, int, error) {
	out := make([]models.ScheduleDraft, 0, len(s.drafts))
	for _, d := range s.drafts {
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (s *draftStoreStub) UpdateStatus(ctx context.Context, id, status string) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	draft, ok := s.drafts[id]
	if !ok {
		return sql.ErrNoRows
	}
	draft.Status = status
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *draftStoreStub) UpdateActiveSemesters(ctx context.Context, id string, semesters models.ActiveSemesterList) error {
	if s.semestersErr != nil {
		return s.semestersErr
	}
	draft, ok := s.drafts[id]
	if !ok {
		return sql.ErrNoRows
	}
	draft.ActiveSemesters = semesters
	return nil
}

func (s *draftStoreStub) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.drafts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.drafts, id)
	return nil
}

type rosterRowsStub struct {
	instructors []models.ScheduleInstructor
	courses     []models.ScheduleCourse
	err         error
}

func (s *rosterRowsStub) ListInstructors(ctx context.Context, scheduleID string) ([]models.ScheduleInstructor, error) {
	return s.instructors, s.err
}

func (s *rosterRowsStub) ListCourses(ctx context.Context, scheduleID string) ([]models.ScheduleCourse, error) {
	return s.courses, s.err
}

type assignmentRowsStub struct {
	rows []models.SectionAssignment
	err  error
}

func (s *assignmentRowsStub) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SectionAssignment, error) {
	return s.rows, s.err
}

type offeringStoreStub struct {
	replaceErr error
	clearErr   error
	lastRows   []models.SectionAssignment
	replaces   int
	cleared    []string
}

func (s *offeringStoreStub) ReplaceOffering(ctx context.Context, scheduleID, courseID, section, semester string, rows []models.SectionAssignment) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.lastRows = rows
	s.replaces++
	return nil
}

func (s *offeringStoreStub) DeleteAllForSchedule(ctx context.Context, scheduleID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = append(s.cleared, scheduleID)
	return nil
}

type cachePatternStub struct {
	patterns []string
	err      error
}

func (s *cachePatternStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return s.err
}

type workloadCacheStub struct {
	data map[string][]byte
	sets int
	gets int
}

func (s *workloadCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.gets++
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *workloadCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = raw
	s.sets++
	return nil
}

// seededStores returns stores loaded with one draft: two instructors on the
// roster and one winter course with sections A and B.
func seededStores() (*draftStoreStub, *rosterRowsStub, *assignmentRowsStub) {
	drafts := &draftStoreStub{
		drafts: map[string]*models.ScheduleDraft{
			"sched-1": {
				ID:              "sched-1",
				Year:            2025,
				Status:          string(engine.StatusNotSubmitted),
				ActiveSemesters: models.ActiveSemesterList(engine.Semesters()),
			},
		},
	}
	roster := &rosterRowsStub{
		instructors: []models.ScheduleInstructor{
			{ScheduleID: "sched-1", InstructorID: "inst-1", FullName: "Avery Boone", ContractType: string(engine.ContractCasual), AnnualHourCap: 800},
			{ScheduleID: "sched-1", InstructorID: "inst-2", FullName: "Morgan Cole", ContractType: string(engine.ContractSalaried), AnnualHourCap: 615},
		},
		courses: []models.ScheduleCourse{
			{
				ScheduleID:         "sched-1",
				Semester:           string(engine.SemesterWinter),
				CourseID:           "crs-213",
				Code:               "CPRG213",
				Title:              "Web Development 1",
				ClassHoursPerWeek:  2,
				OnlineHoursPerWeek: 3,
				Sections:           []string{"A", "B"},
			},
		},
	}
	return drafts, roster, &assignmentRowsStub{}
}

func newTestRegistry(drafts *draftStoreStub, roster *rosterRowsStub, rows *assignmentRowsStub) *ScheduleRegistry {
	return NewScheduleRegistry(drafts, roster, rows, engine.DefaultConfig(), zap.NewNop())
}

func TestRegistryLoadsDraftFromStores(t *testing.T) {
	drafts, roster, rows := seededStores()
	rows.rows = []models.SectionAssignment{
		{ScheduleID: "sched-1", InstructorID: "inst-1", CourseID: "crs-213", Section: "A", Semester: string(engine.SemesterWinter), ClassTaken: true},
	}
	registry := newTestRegistry(drafts, roster, rows)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)

	assert.Equal(t, 2025, h.sched.Year())
	assert.Len(t, h.sched.Instructors(), 2)
	assert.True(t, h.sched.IsAssigned("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass))
}

func TestRegistryHandleReturnsSameInstance(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)

	first, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	second, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistryUnknownDraft(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)

	_, err := registry.Handle(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestRegistryReloadDropsUnpersistedState(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass)
	require.NoError(t, err)

	require.NoError(t, registry.Reload(context.Background(), "sched-1"))
	assert.False(t, h.sched.IsAssigned("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass))
}

func TestRegistryRemoveForgetsDraft(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)

	h, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	_, err = h.sched.ToggleAssignment("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass)
	require.NoError(t, err)

	registry.Remove("sched-1")
	fresh, err := registry.Handle(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.False(t, fresh.sched.IsAssigned("inst-1", "crs-213", "A", engine.SemesterWinter, engine.ComponentClass))
}
