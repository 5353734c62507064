package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/noah-isme/acs-schedule-api/api/swagger"
	"github.com/noah-isme/acs-schedule-api/internal/engine"
	"github.com/noah-isme/acs-schedule-api/internal/handler"
	"github.com/noah-isme/acs-schedule-api/internal/repository"
	"github.com/noah-isme/acs-schedule-api/internal/service"
	"github.com/noah-isme/acs-schedule-api/pkg/cache"
	"github.com/noah-isme/acs-schedule-api/pkg/config"
	"github.com/noah-isme/acs-schedule-api/pkg/database"
	"github.com/noah-isme/acs-schedule-api/pkg/export"
	"github.com/noah-isme/acs-schedule-api/pkg/jobs"
	"github.com/noah-isme/acs-schedule-api/pkg/logger"
	"github.com/noah-isme/acs-schedule-api/pkg/storage"
)

// @title ACS Schedule API
// @version 1.0.0
// @description Section assignment and workload accounting for academic scheduling.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	scheduleRepo := repository.NewScheduleRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	instructorRepo := repository.NewInstructorCatalogRepository(db)
	courseRepo := repository.NewCourseCatalogRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	engineCfg := engine.Config{
		WeeksPerSemester:   cfg.Engine.WeeksPerSemester,
		SectionAlphabet:    cfg.Engine.SectionAlphabet,
		CasualAnnualCap:    cfg.Engine.CasualAnnualCap,
		SalariedAnnualCap:  cfg.Engine.SalariedAnnualCap,
		UnderUtilizedBelow: cfg.Engine.UnderUtilizedBelow,
		NearCapFactor:      cfg.Engine.NearCapFactor,
	}

	registry := service.NewScheduleRegistry(scheduleRepo, rosterRepo, assignmentRepo, engineCfg, logr)
	metricsSvc := service.NewMetricsService(registry.Loaded)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Workload.CacheTTL, logr, cfg.Workload.CacheEnabled)

	scheduleSvc := service.NewScheduleService(registry, scheduleRepo, rosterRepo, cacheSvc, engineCfg, validate, logr)
	rosterSvc := service.NewRosterService(registry, rosterRepo, instructorRepo, courseRepo, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(registry, assignmentRepo, cacheSvc, validate, logr)
	catalogSvc := service.NewCatalogService(instructorRepo, courseRepo, validate, logr)
	workloadSvc := service.NewWorkloadService(registry, cacheSvc, service.WorkloadCacheConfig{
		Enabled: cfg.Workload.CacheEnabled,
		TTL:     cfg.Workload.CacheTTL,
	}, validate, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(registry, fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	exportWorker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("exports", exportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportRepo, exportQueue, exportSvc, registry, validate, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: time.Hour,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	router := buildRouter(cfg, logr, metricsSvc, routerHandlers{
		schedules:   handler.NewScheduleHandler(scheduleSvc),
		roster:      handler.NewRosterHandler(rosterSvc),
		assignments: handler.NewAssignmentHandler(assignmentSvc),
		catalog:     handler.NewCatalogHandler(catalogSvc),
		workload:    handler.NewWorkloadHandler(workloadSvc),
		exports:     handler.NewExportHandler(exportJobSvc),
		metrics:     handler.NewMetricsHandler(metricsSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Exports.Enabled {
		exportQueue.Start(ctx)
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if cfg.Exports.Enabled {
		exportQueue.Stop()
	}
	logr.Sugar().Infow("server stopped")
}
