package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/escola-adp/horario-api/api/swagger"
	"github.com/escola-adp/horario-api/internal/handler"
	"github.com/escola-adp/horario-api/internal/middleware"
	"github.com/escola-adp/horario-api/internal/repository"
	"github.com/escola-adp/horario-api/internal/scheduler"
	"github.com/escola-adp/horario-api/internal/service"
	"github.com/escola-adp/horario-api/pkg/cache"
	"github.com/escola-adp/horario-api/pkg/config"
	"github.com/escola-adp/horario-api/pkg/database"
	"github.com/escola-adp/horario-api/pkg/logger"
	corsmiddleware "github.com/escola-adp/horario-api/pkg/middleware/cors"
	reqidmiddleware "github.com/escola-adp/horario-api/pkg/middleware/requestid"
	"github.com/escola-adp/horario-api/pkg/storage"
)

// @title Horario Escolar API
// @version 1.0.0
// @description Weekly school timetable generation with counter-shift support
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	classRepo := repository.NewClassRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	loadRepo := repository.NewWeeklyLoadRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	engine := scheduler.New(logr)

	timetableSvc := service.NewTimetableService(
		classRepo, teacherRepo, subjectRepo, loadRepo, timeslotRepo, scheduleRepo,
		engine, cacheRepo, metricsSvc, cfg.Timetable, logr,
	)
	classSvc := service.NewClassService(classRepo, loadRepo, subjectRepo, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, logr)
	timeslotSvc := service.NewTimeslotService(timeslotRepo, cfg.Timetable.PeriodsPerShift, logr)

	if created, err := timeslotSvc.Sync(ctx); err != nil {
		logr.Sugar().Warnw("timeslot catalogue sync failed", "error", err)
	} else if created > 0 {
		logr.Sugar().Infow("timeslot catalogue seeded", "created", created)
	}

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(
			scheduleRepo, classRepo, teacherRepo, files, signer, metricsSvc,
			service.ExportServiceConfig{
				APIPrefix:       cfg.APIPrefix,
				PeriodsPerShift: cfg.Timetable.PeriodsPerShift,
				ResultTTL:       cfg.Exports.SignedURLTTL,
				Workers:         cfg.Exports.WorkerConcurrency,
				MaxRetries:      cfg.Exports.WorkerRetries,
			},
			logr,
		)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
		go exportCleanupLoop(ctx, exportSvc, cfg.Exports.CleanupInterval, logr.Sugar())
		exportHandler = handler.NewExportHandler(exportSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Classes:    handler.NewClassHandler(classSvc),
		Teachers:   handler.NewTeacherHandler(teacherSvc),
		Subjects:   handler.NewSubjectHandler(subjectSvc),
		Timeslots:  handler.NewTimeslotHandler(timeslotSvc),
		Timetables: handler.NewTimetableHandler(timetableSvc),
		Exports:    exportHandler,
		Metrics:    handler.NewMetricsHandler(metricsSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func exportCleanupLoop(ctx context.Context, exports *service.ExportService, interval time.Duration, log *zap.SugaredLogger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := exports.Cleanup()
			if err != nil {
				log.Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				log.Infow("export files cleaned", "deleted", len(deleted))
			}
		}
	}
}
