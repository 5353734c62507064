package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	"github.com/noah-isme/acs-schedule-api/internal/repository"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
	"github.com/noah-isme/acs-schedule-api/pkg/jobs"
	"github.com/noah-isme/acs-schedule-api/pkg/storage"
)

type exportJobStoreStub struct {
	jobs      map[string]*models.ExportJob
	nextID    string
	createErr error
	updates   []repository.UpdateExportJobParams
}

func (s *exportJobStoreStub) Create(ctx context.Context, job *models.ExportJob) error {
	if s.createErr != nil {
		return s.createErr
	}
	if job.ID == "" {
		job.ID = s.nextID
	}
	job.CreatedAt = time.Now()
	if s.jobs == nil {
		s.jobs = make(map[string]*models.ExportJob)
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *exportJobStoreStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	if job, ok := s.jobs[id]; ok {
		cp := *job
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *exportJobStoreStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	job, ok := s.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.updates = append(s.updates, params)
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (s *exportJobStoreStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	out := make([]models.ExportJob, 0)
	for _, job := range s.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

type dispatcherStub struct {
	enqueued []jobs.Job
	err      error
}

func (s *dispatcherStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

type generatorStub struct {
	result *ExportResult
	err    error
	calls  int
}

func (s *generatorStub) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newExportJobFixture(t *testing.T) (*ExportJobService, *exportJobStoreStub, *dispatcherStub) {
	t.Helper()
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	exporter := NewExportService(registry, files, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)

	repo := &exportJobStoreStub{nextID: "job-1"}
	queue := &dispatcherStub{}
	svc := NewExportJobService(repo, queue, exporter, registry, nil, nil, ExportJobServiceConfig{})
	return svc, repo, queue
}

func TestCreateJobQueuesWork(t *testing.T) {
	svc, repo, queue := newExportJobFixture(t)

	resp, err := svc.CreateJob(context.Background(), "sched-1", dto.CreateExportRequest{Format: "csv"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", resp.ID)
	assert.Equal(t, string(models.ExportStatusQueued), resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "workload_export", queue.enqueued[0].Type)
	assert.Equal(t, "user-1", repo.jobs["job-1"].CreatedBy)
}

func TestCreateJobUnknownSchedule(t *testing.T) {
	svc, _, queue := newExportJobFixture(t)

	_, err := svc.CreateJob(context.Background(), "missing", dto.CreateExportRequest{Format: "csv"}, "")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	assert.Empty(t, queue.enqueued)
}

func TestCreateJobValidatesFormat(t *testing.T) {
	svc, _, _ := newExportJobFixture(t)

	_, err := svc.CreateJob(context.Background(), "sched-1", dto.CreateExportRequest{Format: "xlsx"}, "")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCreateJobMarksFailedWhenEnqueueFails(t *testing.T) {
	svc, repo, queue := newExportJobFixture(t)
	queue.err = errors.New("queue full")

	_, err := svc.CreateJob(context.Background(), "sched-1", dto.CreateExportRequest{Format: "pdf"}, "")
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, repo.jobs["job-1"].Status)
}

func TestGetStatusUnknownJob(t *testing.T) {
	svc, _, _ := newExportJobFixture(t)

	_, err := svc.GetStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestRecoverPendingJobsRequeues(t *testing.T) {
	svc, repo, queue := newExportJobFixture(t)
	repo.jobs = map[string]*models.ExportJob{
		"job-9": {ID: "job-9", Status: models.ExportStatusQueued},
		"job-8": {ID: "job-8", Status: models.ExportStatusFinished},
	}

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "job-9", queue.enqueued[0].ID)
}

func TestResolveDownload(t *testing.T) {
	drafts, roster, rows := seededStores()
	registry := newTestRegistry(drafts, roster, rows)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	exporter := NewExportService(registry, files, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)

	job := &models.ExportJob{
		ID:     "job-1",
		Status: models.ExportStatusQueued,
		Params: models.ExportJobParams{ScheduleID: "sched-1", Format: models.ExportFormatCSV},
	}
	repo := &exportJobStoreStub{jobs: map[string]*models.ExportJob{"job-1": job}}
	svc := NewExportJobService(repo, &dispatcherStub{}, exporter, registry, nil, nil, ExportJobServiceConfig{})

	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)
	job.ResultURL = &result.URL

	_, err = svc.ResolveDownload(context.Background(), result.Token)
	require.Error(t, err, "download must be refused before the job finishes")

	job.Status = models.ExportStatusFinished
	download, err := svc.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, models.ExportFormatCSV, download.Format)

	_, err = svc.ResolveDownload(context.Background(), "bogus-token")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestExportWorkerFinishesJob(t *testing.T) {
	repo := &exportJobStoreStub{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Status: models.ExportStatusQueued, Params: models.ExportJobParams{ScheduleID: "sched-1", Format: models.ExportFormatCSV}},
	}}
	gen := &generatorStub{result: &ExportResult{URL: "/api/v1/exports/download/tok", RelativePath: "file.csv"}}
	worker := NewExportWorker(repo, gen, 3, nil)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1}))

	job := repo.jobs["job-1"]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/exports/download/tok", *job.ResultURL)
	require.NotNil(t, job.FinishedAt)
}

func TestExportWorkerRequeuesUntilMaxRetries(t *testing.T) {
	repo := &exportJobStoreStub{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Status: models.ExportStatusQueued, Params: models.ExportJobParams{ScheduleID: "sched-1", Format: models.ExportFormatCSV}},
	}}
	gen := &generatorStub{err: errors.New("render failed")}
	worker := NewExportWorker(repo, gen, 3, nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusQueued, repo.jobs["job-1"].Status)
	assert.Nil(t, repo.jobs["job-1"].FinishedAt)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 3})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, repo.jobs["job-1"].Status)
	require.NotNil(t, repo.jobs["job-1"].ErrorMessage)
	assert.Equal(t, "render failed", *repo.jobs["job-1"].ErrorMessage)
	require.NotNil(t, repo.jobs["job-1"].FinishedAt)
}
