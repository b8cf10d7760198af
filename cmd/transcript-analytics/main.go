package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/config"
	"github.com/xxxsen/transcript-analytics/internal/handler"
	"github.com/xxxsen/transcript-analytics/internal/job"
	"github.com/xxxsen/transcript-analytics/internal/middleware"
	"github.com/xxxsen/transcript-analytics/internal/observability"
	"github.com/xxxsen/transcript-analytics/internal/schedule"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "transcript-analytics",
		Short: "therapy transcript analytics service",
	}
	rootCmd.AddCommand(newRunCmd(), newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func newRunCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run analytics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (json or yaml)")
	return cmd
}

func initLogger(cfg *config.Config) {
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logutil.GetLogger(ctx)
	log.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("default_language", cfg.Analysis.DefaultLanguage),
		zap.Bool("ai_descriptions", cfg.AI.Enabled),
		zap.Bool("tracing", cfg.Tracing.Enabled))

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}

	scheduler := schedule.NewCronScheduler()
	if cfg.Emotion.ReloadCron != "" {
		if err := scheduler.AddJob(job.NewLexiconReloadJob(a.scorer, cfg.Emotion.LexiconDir), cfg.Emotion.ReloadCron); err != nil {
			return fmt.Errorf("schedule lexicon reload: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	deps := handler.RouterDeps{
		Health:   handler.NewHealthHandler(version, a.analysis.DescriptionsEnabled()),
		Document: handler.NewDocumentHandler(a.analysis),
		Emotion:  handler.NewEmotionHandler(a.emotions),
		Session:  handler.NewSessionHandler(a.sessions),
	}
	middlewares := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.CORS(cfg.CORS.AllowOrigins, cfg.CORS.AllowCredentials),
		gzip.Gzip(gzip.DefaultCompression),
	}
	if cfg.Tracing.Enabled {
		middlewares = append(middlewares, otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(middlewares...),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	log.Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("server stopping...")
	return nil
}
