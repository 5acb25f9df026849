package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/concord/internal/archive"
	"github.com/agenthands/concord/internal/config"
	"github.com/agenthands/concord/internal/core"
	"github.com/agenthands/concord/internal/core/brief"
	"github.com/agenthands/concord/internal/core/observe"
	"github.com/agenthands/concord/internal/driver"
	"github.com/agenthands/concord/internal/llm"
	"github.com/agenthands/concord/internal/logging"
	"github.com/agenthands/concord/internal/metrics"
	"github.com/agenthands/concord/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector := core.NewDetector(cfg.Detection,
		core.WithObserver(observe.Multi(observe.NewZapObserver(logger), metrics.Observer{})))
	svc := core.NewService(detector)
	svc.OnRun = metrics.RecordRun
	srv := server.NewServer(svc, logger)

	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Memgraph", zap.Error(err))
		}
		defer func() { _ = d.Close(context.Background()) }()
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("Failed to build indices", zap.Error(err))
		}
		svc.Sink = driver.NewGraphSink(d)
	}

	if cfg.Archive.Path != "" {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			logger.Fatal("Failed to open run archive", zap.String("path", cfg.Archive.Path), zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		svc.Store = store
		srv.Archive = store
	}

	client, err := llm.NewClient(ctx, cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		logger.Info("No LLM provider configured, briefs disabled")
	case err != nil:
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	default:
		if c, ok := client.(io.Closer); ok {
			defer func() { _ = c.Close() }()
		}
		srv.Briefer = brief.NewBriefer(client, cfg.Brief)
		logger.Info("LLM briefs enabled", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
