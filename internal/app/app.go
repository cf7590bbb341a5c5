package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales_coach_backend/internal/config"
	"sales_coach_backend/internal/controller"
	"sales_coach_backend/internal/repository"
	"sales_coach_backend/internal/rubric"
	"sales_coach_backend/internal/service"
	"sales_coach_backend/pkg/cache"
	"sales_coach_backend/pkg/database"
	"sales_coach_backend/pkg/logger"
	"sales_coach_backend/pkg/monitoring"
	"sales_coach_backend/pkg/security"
	"sales_coach_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user  *repository.UserRepository
	grade *repository.GradeRepository
}

type services struct {
	auth    *service.AuthService
	user    *service.UserService
	grading *service.GradingService
	metrics *service.MetricsService
}

type controllers struct {
	auth    *controller.AuthController
	user    *controller.UserController
	grade   *controller.GradeController
	metrics *controller.MetricsController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置热更新入口，依次触发已注册的回调
func (a *App) OnConfigReload(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:  repository.NewUserRepository(db),
		grade: repository.NewGradeRepository(db),
	}
}

// newSnapshotCache 按配置选择缓存后端：redis 或进程内存
func (a *App) newSnapshotCache(cfg *config.Config, rdb *redis.Client) cache.SnapshotCache {
	if cfg.Cache.Type == "redis" {
		logger.Log.Info("Using redis snapshot cache", zap.Duration("ttl", cfg.Cache.TTL()))
		return cache.NewRedisCache(rdb, cfg.Cache.TTL())
	}

	mem := cache.NewMemoryCache(cfg.Cache.TTL())
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		mem.SetTTL(newCfg.Cache.TTL())
	})
	logger.Log.Info("Using in-memory snapshot cache", zap.Duration("ttl", cfg.Cache.TTL()))
	return mem
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	snapshots := a.newSnapshotCache(cfg, rdb)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.grading = service.NewGradingService(repos.grade, repos.user, rubric.Default())
	s.metrics = service.NewMetricsService(repos.grade, snapshots)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth, s.user),
		user:    controller.NewUserController(s.user),
		grade:   controller.NewGradeController(s.grading),
		metrics: controller.NewMetricsController(s.metrics, s.grading),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		if cfg.Cache.Type == "redis" {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		logger.Log.Warn("Redis unavailable, continuing without it", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("sales-coach-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	log.Println("Server exiting")
}
