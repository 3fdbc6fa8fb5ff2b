package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/controller"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/pkg/configwatcher"
	"vocab_drill_backend/pkg/database"
	"vocab_drill_backend/pkg/logger"
	"vocab_drill_backend/pkg/monitoring"
	"vocab_drill_backend/pkg/security"
	"vocab_drill_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	AI              *service.AIService
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	word      *repository.WordRepository
	memory    *repository.MemoryRepository
	sentence  *repository.SentenceRepository
	attempt   *repository.AttemptRepository
	summary   *repository.SummaryRepository
	dashboard *repository.DashboardRepository
}

type services struct {
	scheduler *service.SchedulerService
	ledger    *service.LedgerService
	drill     *service.DrillService
	sentence  *service.SentenceService
	practice  *service.PracticeService
	analyzer  *service.SessionAnalyzer
	catalog   *service.CatalogService
	dashboard *service.DashboardService
}

type controllers struct {
	practice   *controller.PracticeController
	session    *controller.SessionController
	vocabulary *controller.VocabularyController
	health     *controller.HealthController
	dashboard  *controller.DashboardController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		word:      repository.NewWordRepository(db),
		memory:    repository.NewMemoryRepository(db),
		sentence:  repository.NewSentenceRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		summary:   repository.NewSummaryRepository(db),
		dashboard: repository.NewDashboardRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, ai *service.AIService) *services {
	s := &services{}

	s.scheduler = service.NewSchedulerService(repos.memory)
	s.ledger = service.NewLedgerService(repos.attempt)
	s.drill = service.NewDrillService(ai, cfg.Practice.DrillSentenceCount)
	s.sentence = service.NewSentenceService(
		repos.sentence,
		ai,
		ai,
		cfg.Practice.GeneratedSentenceCount,
		cfg.Practice.RAGTopK,
	)
	s.practice = service.NewPracticeService(
		db,
		repos.word,
		repos.memory,
		repos.sentence,
		s.scheduler,
		s.ledger,
		s.drill,
		s.sentence,
		cfg.Practice.AllowTypo,
	)

	cache := service.NewSummaryCache(rdb, time.Duration(cfg.Redis.SummaryTTLHours)*time.Hour)
	s.analyzer = service.NewSessionAnalyzer(s.ledger, repos.word, repos.summary, ai, cache)
	s.catalog = service.NewCatalogService(db, repos.word, repos.memory, repos.sentence)
	s.dashboard = service.NewDashboardService(repos.dashboard)

	return s
}

func initControllers(s *services, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		practice:   controller.NewPracticeController(s.practice, cfg.Practice.DueLimit),
		session:    controller.NewSessionController(s.analyzer, s.practice),
		vocabulary: controller.NewVocabularyController(s.catalog),
		health:     controller.NewHealthController(db, rdb),
		dashboard:  controller.NewDashboardController(s.dashboard),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 在已初始化的存储上装配服务与路由
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ai := service.NewAIService(cfg.AI)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		AI:     ai,
	}
	// 热更新只影响模型调用参数
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		ai.UpdateConfig(newCfg.AI)
	})

	repos := initRepositories(db)
	services := initServices(repos, cfg, db, rdb, ai)
	controllers := initControllers(services, cfg, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := New(cfg, db, rdb)
	app.ConfigDir = configDir

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("vocab-drill", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigDir == "" {
		return
	}
	configFile := filepath.Join(a.ConfigDir, "config.yaml")
	go func() {
		err := configwatcher.WatchConfig(ctx, configFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
}
