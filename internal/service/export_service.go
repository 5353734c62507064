package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/models"
	"github.com/noah-isme/acs-schedule-api/pkg/export"
	"github.com/noah-isme/acs-schedule-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders workload reports for a draft and persists the files
// behind signed download URLs.
type ExportService struct {
	registry *ScheduleRegistry
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(registry *ScheduleRegistry, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		registry: registry,
		storage:  files,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the workload dataset for the job's draft and stores the
// rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := "annual"
	if job.Params.Semester != nil {
		scope = strings.ToLower(*job.Params.Semester)
	}
	return fmt.Sprintf("workload_%s_%s_%s.%s", sanitizeFilename(job.Params.ScheduleID), scope, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	h, err := s.registry.Handle(ctx, params.ScheduleID)
	if err != nil {
		return export.Dataset{}, "", err
	}

	var semFilter *engine.Semester
	if params.Semester != nil {
		sem := engine.Semester(*params.Semester)
		semFilter = &sem
	}

	headers := []string{"Instructor", "Contract", "Baseline Hours"}
	if semFilter == nil {
		for _, sem := range engine.Semesters() {
			headers = append(headers, semesterHeader(sem))
		}
	} else {
		headers = append(headers, semesterHeader(*semFilter))
	}
	headers = append(headers, "Annual Hours", "Annual Cap", "Utilization", "Band")

	var (
		rows []map[string]string
		year int
	)
	_ = h.withLock(func(sched *engine.Schedule) error {
		year = sched.Year()
		for _, inst := range sched.Instructors() {
			row := map[string]string{
				"Instructor":     inst.FullName,
				"Contract":       string(inst.ContractType),
				"Baseline Hours": clockCell(inst.BaselineHours),
				"Annual Hours":   clockCell(sched.AnnualHours(inst.ID)),
				"Annual Cap":     fmt.Sprintf("%.0f", inst.AnnualHourCap),
				"Utilization":    fmt.Sprintf("%.2f", sched.UtilizationRatio(inst.ID)),
				"Band":           string(sched.UtilizationBandFor(inst.ID)),
			}
			if semFilter == nil {
				for _, sem := range engine.Semesters() {
					row[semesterHeader(sem)] = clockCell(sched.SemesterHours(inst.ID, sem))
				}
			} else {
				row[semesterHeader(*semFilter)] = clockCell(sched.SemesterHours(inst.ID, *semFilter))
			}
			rows = append(rows, row)
		}
		return nil
	})

	dataset := export.Dataset{Headers: headers, Rows: rows}
	title := fmt.Sprintf("Instructor Workload %d", year)
	if semFilter != nil {
		title = fmt.Sprintf("%s (%s)", title, *semFilter)
	}
	return dataset, title, nil
}

// Hour cells render in the ledger's clock form so report columns line up
// with the timesheet entries instructors reconcile against.
func clockCell(hours float64) string {
	clock, err := engine.AddHours("", hours)
	if err != nil {
		return fmt.Sprintf("%.1f", hours)
	}
	return clock
}

func semesterHeader(sem engine.Semester) string {
	switch sem {
	case engine.SemesterWinter:
		return "Winter Hours"
	case engine.SemesterSpringSummer:
		return "Spring/Summer Hours"
	case engine.SemesterFall:
		return "Fall Hours"
	}
	return string(sem)
}
