package main

import (
	"context"
	"log"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/config"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

const batchSize = 50

func main() {
	log.Println("🚀 Starting job index backfill...")

	cfg := config.Load()
	if !cfg.JobIndexEnabled() {
		log.Fatal("❌ QDRANT_URL is not set, nothing to index")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	resumes := repositories.NewResumeRepository(db)

	gemini, err := services.NewGeminiClient(ctx, services.GeminiOptions{APIKey: cfg.LLM.GeminiAPIKey})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	index, err := services.NewQdrantJobIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := index.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	stats, err := services.BackfillJobIndex(ctx, resumes, index, batchSize)
	if err != nil {
		log.Fatalf("❌ Backfill stopped: %v", err)
	}

	log.Printf("\n🎉 Backfill completed: %d resumes indexed, %d failed", stats.Indexed, stats.Failed)
}
