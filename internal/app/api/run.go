package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	boardserver "github.com/Apurer/svgboard-api/go"
	boardsobs "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/observability"
	boardsapp "github.com/Apurer/svgboard-api/internal/domains/boards/application"
	"github.com/Apurer/svgboard-api/internal/platform/middleware"
	platformobservability "github.com/Apurer/svgboard-api/internal/platform/observability"
)

const instrumentationScope = "internal.boards.application"

// Run boots the board HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPInsecure:   cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close board storage", slog.String("error", err.Error()))
		}
	}()
	logger.Info("board storage configured", slog.String("backend", st.backend))

	router := newRouter(cfg, st, instruments)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("board API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("board API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down board API", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// newRouter assembles services, decorators, middleware and routes over st.
func newRouter(cfg Config, st *storage, instruments *platformobservability.Instruments) *gin.Engine {
	logger := instruments.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decorators := []boardsobs.Option{
		boardsobs.WithLogger(logger),
		boardsobs.WithTracer(instruments.Tracer(instrumentationScope)),
		boardsobs.WithMeter(instruments.Meter(instrumentationScope)),
		boardsobs.WithRequestID(middleware.RequestIDFromContext),
	}
	projectService := boardsobs.NewProjectService(
		boardsapp.NewProjectService(st.projects, st.snapshots, st.tx),
		decorators...,
	)
	snapshotService := boardsobs.NewSnapshotService(
		boardsapp.NewSnapshotService(st.projects, st.snapshots, st.tx),
		decorators...,
	)

	handlers := boardserver.ApiHandleFunctions{
		ProjectAPI:  boardserver.NewProjectAPI(projectService),
		SnapshotAPI: boardserver.NewSnapshotAPI(snapshotService),
		HealthAPI:   boardserver.NewHealthAPI(cfg.ServiceName, cfg.ServiceVersion, st.backend, st.pinger),
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
		otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(instruments.TracerProvider)),
		middleware.RequestID(logger),
	)
	return boardserver.NewRouterWithGinEngine(engine, handlers)
}
