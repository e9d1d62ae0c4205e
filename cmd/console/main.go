package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vox-console/internal/apiclient"
	"vox-console/internal/audit"
	"vox-console/internal/auth"
	"vox-console/internal/config"
	"vox-console/internal/httpapi"
	"vox-console/internal/inflight"
	"vox-console/pkg/logger"
	"vox-console/pkg/metrics"
	"vox-console/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	m := metrics.New("vox-console", prometheus.NewRegistry())

	// Audit trail: Postgres when configured, otherwise process memory.
	var auditRepo audit.Repository = audit.NewMemoryRepo()
	var db *sql.DB
	if cfg.AuditEnabled() {
		db, err = utils.OpenPostgres(rootCtx, utils.DriverPgx, cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := audit.NewPostgresRepo(db)
		if err := repo.Migrate(rootCtx); err != nil {
			log.Error("audit migrate failed", "err", err)
			os.Exit(1)
		}
		auditRepo = repo
	} else {
		log.Warn("DB_HOST not set, audit events kept in memory")
	}

	var rdb *redis.Client
	if cfg.InflightCapEnabled() {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	client := apiclient.New(cfg.Backend.BaseURL,
		apiclient.WithLogger(log),
		apiclient.WithObserver(m),
	)
	h := httpapi.New(client, audit.NewService(auditRepo))
	defer h.Close()

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(m.Middleware())

	deps := routeDeps{
		handlers: h,
		auth:     authManager,
		metrics:  m,
		db:       db,
	}
	if rdb != nil {
		deps.inflight = inflight.Cap(utils.NewRedisSlots(rdb), inflight.Options{
			Limit:    cfg.Redis.InflightLimit,
			Recorder: m,
		})
	}
	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("console listening", "addr", srv.Addr, "env", cfg.App.Env, "backend", client.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
