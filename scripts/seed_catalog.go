// Loads courses, lessons and quizzes from a YAML catalog. Courses that an
// instructor already has under the same title are skipped, so the script can
// be re-run after editing the file.
//
// Usage: go run scripts/seed_catalog.go -file configs/catalog.example.yaml

package main

import (
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/seed"
	"elearn_backend/internal/service"
	"elearn_backend/pkg/database"
	"elearn_backend/pkg/logger"
	"flag"
	"log"
	"os"
	"time"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	file := flag.String("file", "configs/catalog.example.yaml", "catalog to load")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	defer f.Close()

	cat, err := seed.Parse(f)
	if err != nil {
		log.Fatal(err)
	}

	courses := repository.NewCourseRepository(db, nil, 0)
	svc := service.NewCourseService(courses, repository.NewLessonRepository(db), repository.NewQuizRepository(db), service.NewStorageService(cfg))
	loader := seed.NewLoader(repository.NewUserRepository(db), courses, svc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sum, err := loader.Load(ctx, cat)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("created %d courses, skipped %d", sum.Created, sum.Skipped)
}
