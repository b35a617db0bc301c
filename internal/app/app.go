package app

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/controller"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/internal/session"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/configwatcher"
	"college_chatbot_backend/pkg/database"
	"college_chatbot_backend/pkg/logger"
	"college_chatbot_backend/pkg/monitoring"
	"college_chatbot_backend/pkg/security"
	"college_chatbot_backend/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	Sessions        session.Store
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	login      *repository.LoginRepository
	adminFAQ   *repository.AdminFAQRepository
	unanswered *repository.UnansweredRepository
	chatLog    *repository.ChatLogRepository
	history    *repository.HistoryRepository
	setting    *repository.SettingRepository
	college    *repository.CollegeRepository
}

type services struct {
	auth    *service.AuthService
	setting *service.SettingService
	ai      *service.AIService
	scraper *service.ScraperService
	qa      *service.QAService
	log     *service.LogService
	history *service.HistoryService
	admin   *service.AdminService
	storage *service.StorageService
}

type controllers struct {
	auth   *controller.AuthController
	query  *controller.QueryController
	log    *controller.LogController
	admin  *controller.AdminController
	info   *controller.InfoController
	page   *controller.PageController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		login:      repository.NewLoginRepository(db),
		adminFAQ:   repository.NewAdminFAQRepository(db),
		unanswered: repository.NewUnansweredRepository(db),
		chatLog:    repository.NewChatLogRepository(db),
		history:    repository.NewHistoryRepository(db),
		setting:    repository.NewSettingRepository(db),
		college:    repository.NewCollegeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.setting = service.NewSettingService(repos.setting, cfg.AI)
	s.ai = service.NewAIService(cfg.AI, s.setting)
	s.scraper = service.NewScraperService(cfg.Scrape)
	s.qa = service.NewQAService(cfg, repos.adminFAQ, repos.unanswered, s.ai, s.scraper)
	s.auth = service.NewAuthService(repos.user, repos.login, a.Sessions, cfg)
	s.log = service.NewLogService(repos.chatLog)
	s.history = service.NewHistoryService(repos.history)
	s.admin = service.NewAdminService(repos.adminFAQ, repos.unanswered, repos.college, repos.user, repos.login, cfg)
	s.storage = service.NewStorageService(cfg)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.setting.UpdateConfig(newCfg.AI)
		s.ai.UpdateConfig(newCfg.AI)
		logger.Log.Info("AI settings reloaded")
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth, a.Config.Server.Mode == gin.ReleaseMode),
		query:  controller.NewQueryController(s.qa),
		log:    controller.NewLogController(s.log, s.history),
		admin:  controller.NewAdminController(s.admin, s.setting, s.storage),
		info:   controller.NewInfoController(a.Config.CollegeData.Dir, s.ai),
		page:   controller.NewPageController(a.Config.Server.TemplatesDir, s.auth),
		health: controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewSessionStore picks the session backend named by cfg. The redis driver needs rdb.
func NewSessionStore(cfg *config.Config, rdb *redis.Client) (session.Store, error) {
	switch cfg.Session.Driver {
	case "", util.SessionDriverMemory:
		return session.NewMemoryStore(), nil
	case util.SessionDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("session driver %q needs a redis connection", cfg.Session.Driver)
		}
		return session.NewRedisStore(rdb), nil
	}
	return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
}

// New assembles the application on an open database and session store.
func New(cfg *config.Config, db *gorm.DB, sessions session.Store) *App {
	app := &App{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if err := app.services.auth.SeedAdmin(); err != nil {
		logger.Log.Error("Failed to seed admin account", zap.Error(err))
	}

	return app
}

// NewApp opens the database, redis (when sessions live there) and tracing, then
// builds the application.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	var rdb *redis.Client
	if cfg.Session.Driver == util.SessionDriverRedis {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
	}

	sessions, err := NewSessionStore(cfg, rdb)
	if err != nil {
		return nil, err
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer("college-chatbot", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
	}

	app := New(cfg, db, sessions)
	app.Redis = rdb
	app.tracer = tp
	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.File == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.File, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.watchConfig(ctx)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.Close()
	logger.Log.Info("Server exiting")
	return nil
}

// Close releases tracing, redis and the database.
func (a *App) Close() {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}
