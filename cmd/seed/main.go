package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/academy-timetable-api/internal/repository"
	"github.com/noah-isme/academy-timetable-api/internal/seed"
	"github.com/noah-isme/academy-timetable-api/pkg/config"
	"github.com/noah-isme/academy-timetable-api/pkg/database"
	"github.com/noah-isme/academy-timetable-api/pkg/logger"
)

func main() {
	file := flag.String("file", "timetable.txt", "path to the weekly timetable text")
	exempt := flag.String("exempt", "", "comma-separated teacher names whose classes allow overlap")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to migrate schema", "error", err)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logr.Sugar().Fatalw("failed to read timetable", "file", *file, "error", err)
	}

	loader := seed.NewLoader(
		repository.NewTeacherRepository(db),
		repository.NewRoomRepository(db),
		repository.NewStudentRepository(db),
		repository.NewScheduleRepository(db),
		logr,
	)

	count, err := loader.Load(ctx, seed.Parse(string(raw)), splitNames(*exempt))
	if err != nil {
		logr.Sugar().Fatalw("seeding failed", "error", err)
	}
	logr.Sugar().Infow("seeding complete", "schedules", count)
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
