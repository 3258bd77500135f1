package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/academy-timetable-api/api/swagger"
	"github.com/noah-isme/academy-timetable-api/internal/handler"
	"github.com/noah-isme/academy-timetable-api/internal/middleware"
	"github.com/noah-isme/academy-timetable-api/internal/repository"
	"github.com/noah-isme/academy-timetable-api/internal/service"
	"github.com/noah-isme/academy-timetable-api/pkg/cache"
	"github.com/noah-isme/academy-timetable-api/pkg/config"
	"github.com/noah-isme/academy-timetable-api/pkg/database"
	"github.com/noah-isme/academy-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-timetable-api/pkg/middleware/requestid"
)

// @title Academy Timetable API
// @version 1.0.0
// @description Weekly class and consulting schedule management
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to migrate schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr,
		cfg.Cache.Enabled && cacheRepo != nil)

	validate := validator.New()
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheSvc, metricsSvc, validate, logr)
	exportSvc := service.NewExportService()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.NewTeacherHandler(teacherSvc, scheduleSvc, exportSvc).Register(r)
	handler.NewRoomHandler(roomSvc, scheduleSvc, exportSvc).Register(r)
	handler.NewStudentHandler(studentSvc).Register(r)
	handler.NewScheduleHandler(scheduleSvc).Register(r)
	handler.NewAdminHandler(scheduleSvc).Register(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
