package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kelasworks/sis-api/api/swagger"
	"github.com/kelasworks/sis-api/internal/handler"
	"github.com/kelasworks/sis-api/internal/middleware"
	"github.com/kelasworks/sis-api/internal/repository"
	"github.com/kelasworks/sis-api/internal/service"
	"github.com/kelasworks/sis-api/pkg/cache"
	"github.com/kelasworks/sis-api/pkg/config"
	"github.com/kelasworks/sis-api/pkg/database"
	"github.com/kelasworks/sis-api/pkg/dateutil"
	"github.com/kelasworks/sis-api/pkg/export"
	"github.com/kelasworks/sis-api/pkg/genai"
	"github.com/kelasworks/sis-api/pkg/logger"
	corsmiddleware "github.com/kelasworks/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kelasworks/sis-api/pkg/middleware/requestid"
)

// @title Kelas Works SIS API
// @version 0.1.0
// @description Attendance, billing, exam, and report aggregation service
// @BasePath /
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

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid reporting timezone", "timezone", cfg.Reporting.Timezone, "error", err)
	}
	weekStart := dateutil.ParseWeekday(cfg.Reporting.WeekStartDay)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Attendance.CacheTTL, logr, true)
	}

	validate := validator.New()

	attendanceRepo := repository.NewAttendanceRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	examRepo := repository.NewExamRepository(db)
	reportRepo := repository.NewReportRepository(db)

	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, validate, logr, loc, weekStart, service.AttendanceServiceConfig{
		CacheTTL:          cfg.Attendance.CacheTTL,
		DefaultWindowDays: cfg.Attendance.DefaultWindowDays,
		MaxWindowDays:     cfg.Attendance.MaxWindowDays,
	})
	billingSvc := service.NewBillingService(feeRepo, billingRepo, cacheSvc, logr, cfg.Billing.CacheTTL)

	localDetector := service.NewLocalConflictDetector(loc)
	var detector service.ConflictDetector = localDetector
	if client := genai.New(cfg.AIAssist); client != nil {
		detector = service.NewAIConflictDetector(localDetector, client, metrics, logr)
	}
	examSvc := service.NewExamService(examRepo, localDetector, cacheSvc, metrics, logr, cfg.Exams.MaxBatchSize)
	reportSvc := service.NewReportService(reportRepo, attendanceRepo, feeRepo, export.NewReportPDF(), logr)

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, export.NewAttendanceCSV())
	billingHandler := handler.NewBillingHandler(billingSvc)
	examHandler := handler.NewExamHandler(examSvc, detector)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		attendance := api.Group("/attendance")
		attendance.GET("", attendanceHandler.List)
		attendance.GET("/export", attendanceHandler.ExportCSV)
		attendance.GET("/students/:id/overview", attendanceHandler.Overview)
		attendance.GET("/students/:id/window", attendanceHandler.Window)
		attendance.GET("/sections/:id/completion", attendanceHandler.SectionCompletion)
		attendance.POST("", attendanceHandler.Mark)
		attendance.POST("/bulk", attendanceHandler.BulkMark)

		billing := api.Group("/billing")
		billing.GET("/students/:id/fees", billingHandler.StudentFeeSummary)
		billing.GET("/overview", billingHandler.Overview)

		exams := api.Group("/exams")
		exams.POST("/bulk", examHandler.BulkCreate)
		exams.POST("/conflicts", examHandler.CheckConflicts)

		reports := api.Group("/reports")
		reports.POST("/student", reportHandler.Assemble)
		reports.POST("/student/pdf", reportHandler.Render)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
