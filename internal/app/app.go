package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/controller"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/configwatcher"
	"tutalearn_backend/pkg/database"
	"tutalearn_backend/pkg/logger"
	"tutalearn_backend/pkg/monitoring"
	"tutalearn_backend/pkg/security"
	"tutalearn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	lesson    *repository.LessonRepository
	subject   *repository.SubjectRepository
	progress  *repository.ProgressRepository
	analytics *repository.AnalyticsRepository
	profile   *repository.ProfileRepository
	chat      *repository.ChatRepository
}

type services struct {
	storage        *service.StorageService
	content        *service.ContentService
	progress       *service.ProgressService
	stats          *service.StatsService
	analytics      *service.AnalyticsService
	ai             *service.AIService
	tutor          *service.TutorService
	recommendation *service.RecommendationService
	whatsapp       *service.WhatsAppService
	profile        *service.ProfileService
}

type controllers struct {
	content   *controller.ContentController
	progress  *controller.ProgressController
	analytics *controller.AnalyticsController
	tutor     *controller.TutorController
	profile   *controller.ProfileController
	whatsapp  *controller.WhatsAppController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		lesson:    repository.NewLessonRepository(db),
		subject:   repository.NewSubjectRepository(db),
		progress:  repository.NewProgressRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
		profile:   repository.NewProfileRepository(db),
		chat:      repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.content = service.NewContentService(repos.lesson, repos.subject, cfg, rdb)
	s.progress = service.NewProgressService(db, repos.progress, repos.analytics)
	s.stats = service.NewStatsService(repos.progress, repos.analytics, cfg.App.Location())
	s.analytics = service.NewAnalyticsService(repos.analytics)
	s.ai = service.NewAIService(cfg.AI)
	s.tutor = service.NewTutorService(s.ai, s.analytics)
	s.recommendation = service.NewRecommendationService(s.tutor, s.stats)
	s.whatsapp = service.NewWhatsAppService(cfg.WhatsApp, s.tutor, repos.chat, repos.profile)
	s.profile = service.NewProfileService(repos.profile, s.storage)

	// API Key、模型与 WhatsApp 凭据支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		s.whatsapp.UpdateConfig(newCfg.WhatsApp)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *controllers {
	return &controllers{
		content:   controller.NewContentController(s.content, s.profile),
		progress:  controller.NewProgressController(s.progress, s.stats),
		analytics: controller.NewAnalyticsController(s.analytics),
		tutor:     controller.NewTutorController(s.tutor, s.recommendation, s.profile),
		profile:   controller.NewProfileController(s.profile),
		whatsapp:  controller.NewWhatsAppController(s.whatsapp, cfg.WhatsApp.DisplayNumber),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// newRouter 组装路由，测试中可直接传入内存数据库
func (a *App) newRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	repos := a.initRepositories(db)
	a.services = a.initServices(repos, cfg, db, rdb)
	controllers := a.initControllers(a.services, db, rdb, cfg)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			logger.Log.Error("Failed to seed database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Log.Warn("Redis unavailable, lesson cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.App.Name, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.Router = app.newRouter(cfg, db, rdb)
	return app
}

// watchConfig 配置文件变更后依次通知已注册的回调
func (a *App) watchConfig(ctx context.Context, configDir string) {
	err := configwatcher.WatchConfig(ctx, filepath.Join(configDir, "config.yaml"), func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run(configDir string) {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(watchCtx, configDir)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
