package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acs-schedule-api/internal/dto"
	"github.com/noah-isme/acs-schedule-api/internal/middleware"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

type exportJobServiceMock struct {
	createResp  *dto.ExportJobResponse
	createErr   error
	createdBy   string
	statusResp  *dto.ExportJobResponse
	statusErr   error
	download    *service.ExportDownload
	downloadErr error
}

func (m *exportJobServiceMock) CreateJob(ctx context.Context, scheduleID string, req dto.CreateExportRequest, actorID string) (*dto.ExportJobResponse, error) {
	m.createdBy = actorID
	return m.createResp, m.createErr
}

func (m *exportJobServiceMock) GetStatus(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *exportJobServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	return m.download, m.downloadErr
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{
		createResp: &dto.ExportJobResponse{ID: "job-1", Status: "QUEUED", Format: "csv", CreatedAt: time.Now()},
	}
	h := NewExportHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateExportRequest{Format: "csv"})
	c, w := newGinContext(http.MethodPost, "/schedules/sched-1/exports", payload)
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}
	c.Set(middleware.ContextUserKey, &middleware.Claims{UserID: "user-7", Role: middleware.RoleCoordinator})

	h.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "user-7", mockSvc.createdBy)
	require.Contains(t, w.Body.String(), "job-1")
}

func TestExportHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(&exportJobServiceMock{})

	c, w := newGinContext(http.MethodPost, "/schedules/sched-1/exports", []byte("{"))
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{
		statusResp: &dto.ExportJobResponse{ID: "job-2", Status: "FINISHED", Progress: 100, Format: "pdf"},
	}
	h := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/job-2", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "job-2"}}

	h.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "FINISHED")
}

func TestExportHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{
		statusErr: appErrors.Clone(appErrors.ErrNotFound, "export job not found"),
	}
	h := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/missing", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "missing"}}

	h.Status(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "workload.csv")
	require.NoError(t, os.WriteFile(path, []byte("Instructor,Winter Hours\nAvery Boone,75.0\n"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	mockSvc := &exportJobServiceMock{
		download: &service.ExportDownload{
			File:      file,
			Filename:  "workload_2025.csv",
			Format:    models.ExportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	h := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/download/tok", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}

	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "workload_2025.csv")
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "Avery Boone")
}

func TestExportHandlerDownloadForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportJobServiceMock{
		downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid download token"),
	}
	h := NewExportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/exports/download/bogus", nil)
	c.Params = gin.Params{{Key: "token", Value: "bogus"}}

	h.Download(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
