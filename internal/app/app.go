package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/controller"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/internal/service"
	"astro_learn_backend/pkg/database"
	"astro_learn_backend/pkg/logger"
	"astro_learn_backend/pkg/monitoring"
	"astro_learn_backend/pkg/security"
	"astro_learn_backend/pkg/tracing"

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

	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	planet      *repository.PlanetRepository
	level       *repository.LevelRepository
	exercise    *repository.ExerciseRepository
	attempt     *repository.AttemptRepository
	progress    *repository.ProgressRepository
	achievement *repository.AchievementRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	unlock      *service.UnlockService
	exercise    *service.ExerciseService
	progress    *service.ProgressService
	achievement *service.AchievementService
}

type controllers struct {
	auth        *controller.AuthController
	planet      *controller.PlanetController
	exercise    *controller.ExerciseController
	progress    *controller.ProgressController
	achievement *controller.AchievementController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口，由 configwatcher 触发
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		planet:      repository.NewPlanetRepository(db),
		level:       repository.NewLevelRepository(db),
		exercise:    repository.NewExerciseRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		progress:    repository.NewProgressRepository(db),
		achievement: repository.NewAchievementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.unlock = service.NewUnlockService(repos.planet, repos.level, repos.progress, rdb)
	s.exercise = service.NewExerciseService(repos.exercise, repos.attempt, repos.level, s.unlock, s.storage)
	s.progress = service.NewProgressService(repos.exercise, repos.attempt, repos.progress, repos.level, repos.planet, repos.user, s.unlock, db)
	s.achievement = service.NewAchievementService(repos.achievement, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		planet:      controller.NewPlanetController(s.unlock),
		exercise:    controller.NewExerciseController(s.exercise),
		progress:    controller.NewProgressController(s.progress, s.unlock),
		achievement: controller.NewAchievementController(s.achievement),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 不可用时降级为直接计算解锁状态
		logger.Log.Warn("Redis unavailable, unlock cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 成就目录幂等播种
	if err := services.achievement.Seed(); err != nil {
		logger.Log.Fatal("Failed to seed achievements", zap.Error(err))
	}

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("astro-learn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
