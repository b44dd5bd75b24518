package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowcheck_backend/internal/config"
	"knowcheck_backend/internal/controller"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/service"
	"knowcheck_backend/pkg/database"
	"knowcheck_backend/pkg/logger"
	"knowcheck_backend/pkg/monitoring"
	"knowcheck_backend/pkg/security"
	"knowcheck_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	catalog *repository.CatalogRepository
	test    *repository.TestRepository
	run     *repository.TestRunRepository
	result  *repository.ResultRepository
}

type services struct {
	archive *service.ArchiveService
	catalog *service.CatalogService
	test    *service.TestService
	run     *service.TestRunService
	result  *service.ResultService
}

type controllers struct {
	catalog     *controller.CatalogController
	test        *controller.TestController
	run         *controller.TestRunController
	result      *controller.ResultController
	maintenance *controller.MaintenanceController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		catalog: repository.NewCatalogRepository(db),
		test:    repository.NewTestRepository(db),
		run:     repository.NewTestRunRepository(db),
		result:  repository.NewResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, rdb *redis.Client) *services {
	s := &services{}
	s.archive = service.NewArchiveService(repos.catalog, repos.test, repos.run, repos.result)
	s.catalog = service.NewCatalogService(repos.catalog, s.archive)
	s.test = service.NewTestService(repos.test, repos.catalog, s.archive)
	s.run = service.NewTestRunService(repos.run, repos.test, s.archive, rdb)
	s.result = service.NewResultService(repos.result, repos.run, s.test, rdb)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		catalog:     controller.NewCatalogController(s.catalog),
		test:        controller.NewTestController(s.test),
		run:         controller.NewTestRunController(s.run),
		result:      controller.NewResultController(s.result),
		maintenance: controller.NewMaintenanceController(s.run, s.archive),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the overdue-run sweep every minute and publishes
// the count as a gauge.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			overdue, err := s.run.FlagOverdueRuns()
			if err != nil {
				logger.Log.Error("overdue run sweep failed", zap.Error(err))
				continue
			}
			monitoring.OverdueRunsGauge.Set(float64(overdue))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The pending-count cache is an optimization; run without it.
		logger.Log.Warn("Redis unavailable, pending-count caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("knowledge-check", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
