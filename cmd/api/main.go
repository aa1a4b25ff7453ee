package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/bootstrap"
	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/handlers"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/formar-para-liderar/app-bolsas/docs"
)

// @title           FORMAR PARA LIDERAR - API de Bolsas
// @version         1.0
// @description     API de candidaturas a bolsas de estudo: submissão em seis passos, área do candidato, revisão administrativa com exportação e gestão de papéis.

// @contact.name   Equipa FORMAR PARA LIDERAR

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name auth
// @tag.description Contas e sessões

// @tag.name applications
// @tag.description Submissão de candidaturas

// @tag.name drafts
// @tag.description Rascunhos do formulário em seis passos

// @tag.name candidate
// @tag.description Área do candidato

// @tag.name admin
// @tag.description Revisão de candidaturas e gestão de utilizadores

// @tag.name health
// @tag.description Estado do serviço

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Logger.Sync()

	if err := run(); err != nil {
		logging.Logger.Error("server failed", zap.Error(err))
		logging.Logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := config.AppConfig

	if err := observability.InitTracer(cfg); err != nil {
		logging.Logger.Warn("continuing without tracing", zap.Error(err))
	}
	defer observability.ShutdownTracer()

	backend, err := bootstrap.OpenStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		backend.Close(ctx)
	}()

	var audit *services.AuditWorker
	if cfg.AuditLogsEnabled {
		audit = services.NewAuditWorker(backend.Store.Audit, cfg.AuditWorkers, cfg.AuditBuffer, logging.Logger)
		audit.Start()
		defer audit.Stop()
	}

	var notifier services.Notifier
	if cfg.NotificationsEnabled {
		ses, err := services.NewSESNotifier(context.Background(), cfg.AWSRegion, cfg.SESSender)
		if err != nil {
			return fmt.Errorf("create SES notifier: %w", err)
		}
		notifier = ses
	}

	svc := services.New(backend.Store, cfg, audit, notifier, logging.Logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.New(svc, cfg, backend.Checks, logging.Logger).RegisterRoutes(router.Group("/v1"))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logging.Logger.Info("server exited gracefully")
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
