package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoojob/config"
	"github.com/yoockh/yoojob/internal/api/handlers"
	"github.com/yoockh/yoojob/internal/api/routes"
	"github.com/yoockh/yoojob/internal/auth"
	"github.com/yoockh/yoojob/internal/cache"
	"github.com/yoockh/yoojob/internal/logger"
	"github.com/yoockh/yoojob/internal/migrations"
	mongorepo "github.com/yoockh/yoojob/internal/repositories/mongo"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/storage"
	"github.com/yoockh/yoojob/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	log := logger.New(cfg.LogLevel)
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := config.OpenPostgres(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL handle")
	}
	defer sqlDB.Close()
	log.Info("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, sqlDB); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
		log.Info("migrations applied")
	}

	// Init Redis (optional)
	var jobCache cache.Cache = cache.Noop{}
	rdb, err := config.OpenRedis(ctx, cfg)
	switch {
	case err != nil:
		log.WithError(err).Warn("Redis unavailable, job cache disabled")
	case rdb != nil:
		defer rdb.Close()
		jobCache = cache.NewRedisCache(rdb, "yoojob:")
		log.Info("Redis connected")
	}

	// Init MongoDB (optional)
	var timeline services.TimelineStore
	mc, err := config.OpenMongo(ctx, cfg)
	switch {
	case err != nil:
		log.WithError(err).Warn("MongoDB unavailable, application timeline disabled")
	case mc != nil:
		defer func() { _ = mc.Disconnect(context.Background()) }()
		mdb := mc.Database(cfg.Mongo.Database)
		if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
			log.WithError(err).Warn("mongo indexes")
		}
		timeline = mongorepo.NewEventRepo(mdb)
		log.Info("MongoDB connected")
	}

	uploader, closeUploader, err := newUploader(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("storage init error")
	}
	defer closeUploader()

	validate, err := validation.New()
	if err != nil {
		log.WithError(err).Fatal("validator")
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	users := pgrepo.NewUserRepo(db)
	jobs := pgrepo.NewJobRepo(db)
	apps := pgrepo.NewApplicationRepo(db)

	authSvc := services.NewAuthService(users, tokens, validate)
	jobSvc := services.NewJobService(jobs, validate, jobCache, cfg.Redis.JobTTL, log)
	resumes := services.NewResumeGateway(uploader, cfg.Storage.MaxResumeBytes, cfg.Storage.SniffContent)
	appSvc := services.NewApplicationService(apps, jobs, resumes, validate, timeline, log)

	r := routes.NewRouter(log, cfg.CORSAllowedOrigins, routes.Deps{
		Auth:        handlers.NewAuthHandler(authSvc),
		Job:         handlers.NewJobHandler(jobSvc),
		Application: handlers.NewApplicationHandler(appSvc, cfg.Storage.MaxResumeBytes),
		Tokens:      tokens,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, func(), error) {
	s := cfg.Storage
	if s.Provider == "s3" {
		u, err := storage.NewS3Uploader(ctx, storage.S3Options{
			Bucket:    s.Bucket,
			Region:    s.S3Region,
			Endpoint:  s.S3Endpoint,
			AccessKey: s.S3AccessKey,
			SecretKey: s.S3SecretKey,
			BaseURL:   s.PublicBaseURL,
		})
		return u, func() {}, err
	}

	u, err := storage.NewGCSUploader(ctx, s.Bucket, s.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return u, func() { _ = u.Close() }, nil
}
