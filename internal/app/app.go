package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/config"
	"placement_prep_backend/internal/controller"
	"placement_prep_backend/internal/repository"
	"placement_prep_backend/internal/service"
	"placement_prep_backend/pkg/database"
	"placement_prep_backend/pkg/logger"
	"placement_prep_backend/pkg/monitoring"
	"placement_prep_backend/pkg/security"
	"placement_prep_backend/pkg/tracing"

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
	user         *repository.UserRepository
	problem      *repository.ProblemRepository
	progress     *repository.ProgressRepository
	achievement  *repository.AchievementRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth            *service.AuthService
	problem         *service.ProblemService
	progress        *service.ProgressService
	achievement     *service.AchievementService
	notification    *service.NotificationService
	maintenance     *service.MaintenanceService
	notificationHub *service.NotificationHub
}

type controllers struct {
	auth         *controller.AuthController
	problem      *controller.ProblemController
	progress     *controller.ProgressController
	achievement  *controller.AchievementController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热加载入口，更新当前配置并分发给已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		problem:      repository.NewProblemRepository(db),
		progress:     repository.NewProgressRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	cat := catalog.Default()

	hub := service.NewNotificationHub(rdb)
	notificationSvc := service.NewNotificationService(repos.notification, hub)
	achievementSvc := service.NewAchievementService(repos.achievement, repos.progress, repos.user, notificationSvc, cat, rdb)
	progressSvc := service.NewProgressService(repos.progress, repos.problem, repos.user, achievementSvc, notificationSvc, cat)

	return &services{
		auth:            service.NewAuthService(repos.user, cfg),
		problem:         service.NewProblemService(repos.problem),
		progress:        progressSvc,
		achievement:     achievementSvc,
		notification:    notificationSvc,
		maintenance:     service.NewMaintenanceService(repos.progress),
		notificationHub: hub,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		problem:      controller.NewProblemController(s.problem),
		progress:     controller.NewProgressController(s.progress),
		achievement:  controller.NewAchievementController(s.achievement),
		notification: controller.NewNotificationController(s.notification, s.notificationHub),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(&cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(&cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	go s.notificationHub.Run()

	// 日界维护：连击过期与周 XP 清零
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.maintenance.ExpireStaleStreaks(); err != nil {
				logger.Log.Error("streak expiry error", zap.Error(err))
			}
			if err := s.maintenance.ResetWeeklyXPIfDue(); err != nil {
				logger.Log.Error("weekly xp reset error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ShouldMigrate())
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
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
		tp, err := tracing.InitTracer("placement-prep-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

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

	// 清理 WebSocket 连接和 Redis 在线状态
	if a.services != nil && a.services.notificationHub != nil {
		a.services.notificationHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
