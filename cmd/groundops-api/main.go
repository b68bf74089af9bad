package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/joesch21/ground-ops-api/internal/handler"
	"github.com/joesch21/ground-ops-api/internal/middleware"
	"github.com/joesch21/ground-ops-api/internal/models"
	"github.com/joesch21/ground-ops-api/internal/repository"
	"github.com/joesch21/ground-ops-api/internal/service"
	"github.com/joesch21/ground-ops-api/pkg/cache"
	"github.com/joesch21/ground-ops-api/pkg/config"
	"github.com/joesch21/ground-ops-api/pkg/database"
	"github.com/joesch21/ground-ops-api/pkg/logger"
	corsmiddleware "github.com/joesch21/ground-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/joesch21/ground-ops-api/pkg/middleware/requestid"
)

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

	location, err := time.LoadLocation(cfg.Airport.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid airport timezone", "timezone", cfg.Airport.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// A nil redis client leaves the listing cache disabled without changing
	// service behaviour.
	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, listing cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()

	flightRepo := repository.NewFlightRepository(db)
	runRepo := repository.NewRunRepository(db)
	staffRunRepo := repository.NewStaffRunRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	flightSvc := service.NewFlightService(flightRepo, validate, logr, location)
	staffSvc := service.NewStaffService(staffRepo, validate, logr)
	rosterSvc := service.NewRosterService(rosterRepo, staffRepo, validate, logr, location)

	runSvc := service.NewRunService(flightRepo, runRepo, cacheRepo, db, metricsSvc, validate, logr, location, cfg.Cache.ListingTTL)
	staffRunSvc := service.NewStaffRunService(flightRepo, rosterSvc, staffRunRepo, cacheRepo, db, metricsSvc, validate, logr, location, service.StaffRunConfig{
		JobDuration:  cfg.Ops.JobDuration,
		MinimumGap:   cfg.Ops.MinimumGap,
		OperatorRole: cfg.Ops.OperatorRole,
		CacheTTL:     cfg.Cache.ListingTTL,
	})
	exportSvc := service.NewExportService(runSvc, staffRunSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	flightHandler := handler.NewFlightHandler(flightSvc)
	runHandler := handler.NewRunHandler(runSvc)
	staffRunHandler := handler.NewStaffRunHandler(staffRunSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := r.Group("/api/v1", middleware.JWT(authSvc))
	{
		protected.GET("/flights", flightHandler.List)
		protected.GET("/runs", runHandler.List)
		protected.GET("/staff-runs", staffRunHandler.List)
		protected.GET("/staff", staffHandler.List)
		protected.GET("/roster", rosterHandler.List)
		protected.GET("/roster/shifts", rosterHandler.Shifts)
		protected.GET("/exports/runs", exportHandler.RunSheet)
		protected.GET("/exports/staff-runs", exportHandler.StaffRunSheet)

		operational := protected.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor))
		operational.POST("/flights/import", flightHandler.Import)
		operational.DELETE("/flights/:id", flightHandler.Delete)
		operational.POST("/runs/generate", runHandler.Generate)
		operational.POST("/staff-runs/generate", staffRunHandler.Generate)
		operational.POST("/roster", rosterHandler.Create)
		operational.DELETE("/roster/:id", rosterHandler.Delete)

		admin := protected.Group("", middleware.RequireRoles(models.RoleAdmin))
		admin.POST("/staff", staffHandler.Create)
		admin.PATCH("/staff/:id", staffHandler.Update)
		admin.DELETE("/staff/:id", staffHandler.Deactivate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "airport", cfg.Airport.Code)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
