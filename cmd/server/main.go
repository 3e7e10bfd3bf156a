package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/internal/config"
	"github.com/rhyrak/section-scheduler/internal/logger"
	"github.com/rhyrak/section-scheduler/internal/metrics"
	"github.com/rhyrak/section-scheduler/internal/service"
	"github.com/rhyrak/section-scheduler/internal/store"
)

const (
	GeneratedDir   = "db/generated"
	requestIDKey   = "X-Request-ID"
	maxUploadBytes = 8 << 20
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg, err := cfg.SchedulerConfiguration()
	if err != nil {
		logr.Fatal("invalid scheduler configuration", zap.Error(err))
	}

	runs, closeRuns, err := openRunStore(cfg)
	if err != nil {
		logr.Fatal("failed to open schedule storage", zap.Error(err))
	}
	defer closeRuns()

	m := metrics.New()
	h := &scheduleHandler{
		service: service.NewScheduleService(engineCfg, runs, m, logr),
		delim:   cfg.Delimiter,
		defaults: service.GenerateInput{
			Groups:          cfg.Scheduler.Groups,
			DefaultSections: cfg.Scheduler.DefaultSections,
		},
		logger: logr,
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h, m, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "database", cfg.Database.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openRunStore picks PostgreSQL when enabled and the generated directory otherwise.
func openRunStore(cfg *config.Config) (service.RunStore, func(), error) {
	if !cfg.Database.Enabled {
		fs, err := store.NewFileStore(GeneratedDir)
		return fs, func() {}, err
	}
	db, err := store.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store.NewRunRepository(db), func() { _ = db.Close() }, nil
}

func newRouter(h *scheduleHandler, m *metrics.Metrics, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(logger.GinMiddleware(logr))
	r.Use(m.GinMiddleware())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.GET("/schedule", h.handleGetSchedule)
	r.GET("/schedule/:id", h.handleGetScheduleWithId)
	r.POST("/schedule", h.handlePostSchedule)
	r.DELETE("/schedule/:id", h.handleDeleteSchedule)
	return r
}

// requestID keeps the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(requestIDKey, id)
		}
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}
