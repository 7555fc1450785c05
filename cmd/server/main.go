package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/cache"
	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/repository"
	"github.com/mamadbah2/stockbook/internal/repository/memory"
	"github.com/mamadbah2/stockbook/internal/repository/mongodb"
	"github.com/mamadbah2/stockbook/internal/repository/sheets"
	"github.com/mamadbah2/stockbook/internal/scheduler"
	"github.com/mamadbah2/stockbook/internal/server/handlers"
	"github.com/mamadbah2/stockbook/internal/server/router"
	"github.com/mamadbah2/stockbook/internal/service/approval"
	identitysvc "github.com/mamadbah2/stockbook/internal/service/identity"
	reportingsvc "github.com/mamadbah2/stockbook/internal/service/reporting"
	workspacesvc "github.com/mamadbah2/stockbook/internal/service/workspace"
	identityclient "github.com/mamadbah2/stockbook/pkg/clients/identity"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.WorkspaceStore
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewWorkspaceRepository(context.Background(), cfg.MongoDB, baseLogger.Named("repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		store = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI not set, workspaces are kept in memory")
		store = memory.NewStore()
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close workspace store", zap.Error(err))
		}
	}()

	var revoked cache.RevocationStore
	if cfg.Redis.Addr != "" {
		redisStore := cache.NewRedisRevocationStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to reach redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = redisStore.Close() }()
		revoked = redisStore
	} else {
		baseLogger.Warn("REDIS_ADDR not set, revoked sessions are kept in memory")
		revoked = cache.NewMemoryRevocationStore()
	}

	gate, err := approval.NewGate(cfg.Approval.PrivilegedPassword, cfg.Approval.SpoilagePassword)
	if err != nil {
		baseLogger.Fatal("failed to init approval gate", zap.Error(err))
	}

	workspaceSvc := workspacesvc.NewService(store, gate, baseLogger.Named("svc.workspace"))
	identitySvc := identitysvc.NewService(
		identityclient.NewClient(cfg.Identity),
		revoked,
		workspaceSvc,
		cfg.Auth,
		baseLogger.Named("svc.identity"),
	)

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		googleRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = googleRepo
	} else {
		baseLogger.Warn("google sheets not configured, sheet export disabled")
	}
	reportingSvc := reportingsvc.NewService(store, sheetsRepo, baseLogger.Named("svc.reporting"))

	if reportingSvc.SheetsEnabled() {
		sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(identitySvc, baseLogger.Named("handlers.auth")),
		Workspace: handlers.NewWorkspaceHandler(workspaceSvc, baseLogger.Named("handlers.workspace")),
		Report:    handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.report")),
	}, identitySvc, baseLogger.Named("router"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// No WriteTimeout: the workspace stream is long-lived. Streams end with ctx.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
