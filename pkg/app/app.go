// Package app 提供应用程序的初始化和启动流程.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/coursevault/pkg/api"
	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/jobs"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/router"
	"github.com/yeisme/coursevault/pkg/internal/storage"
	"github.com/yeisme/coursevault/pkg/log"
	"github.com/yeisme/coursevault/pkg/metrics"
	"github.com/yeisme/coursevault/pkg/middleware"
	"github.com/yeisme/coursevault/pkg/rule"
	"github.com/yeisme/coursevault/pkg/scheduler"
	"github.com/yeisme/coursevault/pkg/tracing"
)

type App struct {
	Engine *gin.Engine
	config *configs.AppConfig

	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	log.Init()
	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	// 注册表单校验规则，必须在第一次 ShouldBind 之前完成
	if err := rule.RegisterCatalogRules(); err != nil {
		l.Fatal().Err(err).Msg("Error registering validation rules")
	}

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		l.Fatal().Err(err).Msg("Error initializing tracing")
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		l.Fatal().Err(err).Msg("Error initializing metrics")
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("Error initializing storage")
	}

	if err := manager.DB.AutoMigrate(&model.Content{}); err != nil {
		l.Fatal().Err(err).Msg("Error migrating catalog schema")
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		l.Fatal().Err(err).Msg("Error creating scheduler")
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		l.Fatal().Err(err).Msg("Error registering cron jobs")
	}

	engine := gin.New()
	engine.Use(
		middleware.GinLoggerMiddleware(),
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.AuthMiddleware(config.Auth),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	api.RegisterGroup(engine, manager)
	router.RegisterSwaggerRoute(engine)

	if config.Metrics.Enabled {
		if err := metrics.StartMetricsServer(config.Metrics, engine); err != nil {
			l.Error().Err(err).Msg("Error starting metrics server")
		}
	}

	sched.Start()

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run 启动 HTTP 服务并阻塞到 ctx 取消，随后优雅下线.
func (a *App) Run(ctx contextPkg.Context) error {
	l := log.Logger()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", srv.Addr).Msg("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown()

		return err
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down")

	shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 15*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.shutdown()

	return err
}

func (a *App) shutdown() {
	l := log.Logger()

	if a.sched != nil {
		if err := a.sched.Shutdown(); err != nil {
			l.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}

	shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.ShutdownTracer(shutdownCtx); err != nil {
		l.Warn().Err(err).Msg("tracer shutdown failed")
	}

	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			l.Warn().Err(err).Msg("storage shutdown failed")
		}
	}
}
