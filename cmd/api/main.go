package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-portal-backend/config"
	_ "job-portal-backend/docs" // Important for Swagger
	v1 "job-portal-backend/internal/delivery/http/v1"
	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/repository/postgres"
	"job-portal-backend/internal/storage"
	"job-portal-backend/internal/usecase"
	"job-portal-backend/pkg/auth"
	"job-portal-backend/pkg/database"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/redis"
	"job-portal-backend/pkg/security/antivirus"
	"job-portal-backend/pkg/validation"
)

// @title           Job Portal API
// @version         1.0
// @description     Job postings, applicant profiles, document uploads and admin review.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting job portal backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
	}
	defer redis.Close()

	// 5. Setup Storage
	store, uploadsDir, presigner, err := setupStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up upload storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAV(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		if err := clam.Ping(ctx); err != nil {
			logger.Log.Warn("clamd not reachable at startup, uploads will fail until it is", "address", cfg.ClamAVAddress, "error", err)
		}
		scanner = clam
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 7. Setup UseCases
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	validate := validation.New()

	authUC := usecase.NewAuthUsecase(userRepo, tokens, cfg.AdminEmail, cfg.BcryptCost)
	jobUC := usecase.NewJobUsecase(jobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, documentRepo, userRepo, validate)
	documentUC := usecase.NewDocumentUsecase(documentRepo, store, usecase.DocumentConfig{
		MaxFileSize:       cfg.UploadMaxFileSize,
		ImageMaxDimension: cfg.UploadImageMaxDimension,
		Scanner:           scanner,
	})
	adminUC := usecase.NewAdminUsecase(adminRepo)
	var cachePing usecase.Pinger
	if cfg.RedisURL != "" {
		cachePing = usecase.PingerFunc(redis.HealthCheck)
	}
	healthUC := usecase.NewHealthUsecase(dbPool, cachePing)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		ProfileUC:     profileUC,
		DocumentUC:    documentUC,
		AdminUC:       adminUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		Config:        cfg,
		UploadsDir:    uploadsDir,
		Presigner:     presigner,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// setupStorage picks the upload backend. Local storage is served from disk,
// S3 through presigned redirects.
func setupStorage(ctx context.Context, cfg *config.Config) (domain.FileStore, string, v1.Presigner, error) {
	if cfg.StorageDriver == "s3" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, "", nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s3Store.Ping(pingCtx); err != nil {
			logger.Log.Warn("S3 bucket not reachable at startup", "bucket", cfg.S3Bucket, "error", err)
		}
		return s3Store, "", s3Store, nil
	}

	local, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		return nil, "", nil, err
	}
	return local, local.Dir(), nil, nil
}
