package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/database"
	"github.com/saviare/saviare-backend/internal/handler"
	"github.com/saviare/saviare-backend/internal/logger"
	"github.com/saviare/saviare-backend/internal/repository"
	"github.com/saviare/saviare-backend/internal/repository/docstore"
	"github.com/saviare/saviare-backend/internal/router"
	"github.com/saviare/saviare-backend/internal/service"
	"github.com/saviare/saviare-backend/internal/validator"
	"github.com/saviare/saviare-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("grade_store", string(cfg.GradeStore)).
		Bool("record_attempts", cfg.RecordAttempts).
		Msg("Starting Saviare Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	deps := map[string]handler.Pinger{
		"postgres": handler.PingFunc(pool.Ping),
		"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	gradeRepo := repository.NewGradeRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	// ─── Select Grade Store ────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	var (
		gradeStore  service.GradeStore
		gradeReader service.GradeReader
		gradeFlags  service.GradeFlags
		queueRDB    *redis.Client
	)
	switch cfg.GradeStore {
	case config.GradeStoreMongo:
		db, err := database.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			disconnectCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
			defer c()
			_ = db.Client().Disconnect(disconnectCtx)
		}()

		store := docstore.NewGradeStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
		}
		gradeStore, gradeReader, gradeFlags = store, store, store
		deps["mongo"] = handler.PingFunc(func(ctx context.Context) error { return db.Client().Ping(ctx, nil) })

	case config.GradeStorePostgres:
		store := repository.NewPostgresGradeStore(gradeRepo, attemptRepo)
		gradeStore, gradeReader, gradeFlags = store, store, store

	default:
		queue := worker.NewGradeQueue(rdb, gradeRepo)
		gradeStore, gradeFlags = queue, queue
		gradeReader = repository.NewPostgresGradeStore(gradeRepo, attemptRepo)
		queueRDB = rdb
		startWorkers(workerCtx, &workers, gradeRepo, attemptRepo, rdb, log)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	courseService := service.NewCourseService(courseRepo, userRepo, gradeFlags, log)
	quizService := service.NewQuizService(quizRepo, courseService, rdb, cfg.QuizCacheTTL, log)
	draftService := service.NewDraftService(rdb)
	submissionService := service.NewSubmissionService(quizService, courseService, gradeStore, draftService, cfg.RecordAttempts, log)
	gradeService := service.NewGradeService(courseService, userRepo, gradeStore, gradeReader, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Course:     handler.NewCourseHandler(courseService),
		Quiz:       handler.NewQuizHandler(quizService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Grade:      handler.NewGradeHandler(gradeService),
		WS:         handler.NewWSHandler(quizService, draftService, submissionService, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(deps, queueRDB, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// startWorkers runs the queue consumers that move grades from Redis to PostgreSQL.
func startWorkers(
	ctx context.Context,
	wg *sync.WaitGroup,
	gradeRepo *repository.GradeRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) {
	gradeWorker := worker.NewGradeWorker(gradeRepo, rdb, log)
	attemptWorker := worker.NewAttemptWorker(attemptRepo, rdb, log)

	wg.Go(func() { gradeWorker.Start(ctx) })
	wg.Go(func() { attemptWorker.Start(ctx) })
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
