package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/database"
	"github.com/saviare/saviare-backend/internal/logger"
	"github.com/saviare/saviare-backend/internal/repository"
)

func main() {
	var (
		path   string
		dryRun bool
	)
	flag.StringVar(&path, "file", "", "YAML file with quizzes to import")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if path == "" {
		fmt.Println("Usage: seed-quizzes -file quizzes.yaml [-dry-run]")
		os.Exit(2)
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open quiz file")
	}
	defer f.Close()

	courseID, quizzes, err := parseQuizFile(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Invalid quiz file")
	}

	if dryRun {
		log.Info().Int("quizzes", len(quizzes)).Str("course_id", courseID.String()).Msg("Quiz file is valid")
		return
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if _, err := repository.NewCourseRepository(pool).GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Fatal().Str("course_id", courseID.String()).Msg("Course does not exist")
		}
		log.Fatal().Err(err).Msg("Failed to look up course")
	}

	quizRepo := repository.NewQuizRepository(pool)
	for _, q := range quizzes {
		if err := quizRepo.Create(ctx, q); err != nil {
			log.Fatal().Err(err).Str("title", q.Title).Msg("Failed to insert quiz")
		}
		log.Info().Str("quiz_id", q.ID.String()).Str("title", q.Title).Int("questions", len(q.Questions)).Msg("Quiz imported")
	}
}
