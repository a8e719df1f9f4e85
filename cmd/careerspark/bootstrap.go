package main

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/config"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

// application holds the wired collaborators shared by the commands.
type application struct {
	cfg       *config.Config
	db        *gorm.DB
	resumes   repositories.ResumeRepository
	profiles  repositories.ProfileRepository
	auth      *services.AuthService
	pipeline  *services.Pipeline
	jobIndex  services.JobIndex
	publisher services.ProgressPublisher
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Println("✅ Config loaded successfully")
	return cfg, nil
}

func bootstrap(ctx context.Context, cfg *config.Config) (*application, error) {
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &application{
		cfg:      cfg,
		db:       db,
		resumes:  repositories.NewResumeRepository(db),
		profiles: repositories.NewProfileRepository(db),
		auth:     services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Expiration, cfg.Auth.Issuer),
	}
	log.Println("✅ Repositories initialized successfully")

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	retry := services.RetryPolicy{
		MaxRetries:  cfg.LLM.MaxRetries,
		InitialWait: cfg.LLM.RetryInitialDelay,
		MaxWait:     services.DefaultRetryPolicy.MaxWait,
		Multiplier:  services.DefaultRetryPolicy.Multiplier,
	}

	llm, err := services.NewLLMClient(ctx, services.LLMOptions{
		Provider:          cfg.LLM.Provider,
		PerplexityAPIKey:  cfg.LLM.PerplexityAPIKey,
		PerplexityBaseURL: cfg.LLM.PerplexityBaseURL,
		PerplexityModel:   cfg.LLM.PerplexityModel,
		GeminiAPIKey:      cfg.LLM.GeminiAPIKey,
		GeminiModel:       cfg.LLM.GeminiModel,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		Retry:             retry,
		HTTPTimeout:       cfg.LLM.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	log.Printf("✅ %s client initialized successfully", llm.Name())

	schemas, err := services.NewSchemaChecker()
	if err != nil {
		return nil, err
	}

	analyzer := services.NewResumeAnalyzer(llm, services.NewPromptBuilder(cfg.LLM.JobRegion, cfg.LLM.MinJobResults), schemas)

	app.pipeline = services.NewPipeline(files, analyzer, app.resumes, services.NewDocumentParser(), services.PipelineConfig{
		UploadTimeout:   cfg.Pipeline.UploadTimeout,
		AnalysisTimeout: cfg.Pipeline.AnalysisTimeout,
		MatchTimeout:    cfg.Pipeline.MatchTimeout,
		SaveTimeout:     cfg.Pipeline.SaveTimeout,
		ExcerptChars:    cfg.Pipeline.ExcerptChars,
	})
	log.Println("✅ Pipeline initialized successfully")

	if cfg.JobIndexEnabled() {
		index, err := newJobIndex(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.jobIndex = index
	}

	if cfg.ProgressPublishingEnabled() {
		publisher, err := services.NewAMQPProgressPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, err
		}
		app.publisher = publisher
	}

	return app, nil
}

func newFileStore(ctx context.Context, cfg *config.Config) (services.FileStore, error) {
	if cfg.Storage.Driver == "s3" {
		store, err := services.NewS3FileStore(ctx, services.S3Options{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		log.Printf("✅ S3 storage initialized (bucket %s)", cfg.S3.Bucket)
		return store, nil
	}

	log.Printf("✅ Local storage initialized (%s)", cfg.Storage.UploadPath)
	return services.NewLocalFileStore(cfg.Storage.UploadPath, cfg.Storage.PublicBaseURL), nil
}

func newJobIndex(ctx context.Context, cfg *config.Config) (services.JobIndex, error) {
	embedder, err := services.NewGeminiClient(ctx, services.GeminiOptions{APIKey: cfg.LLM.GeminiAPIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini embeddings: %w", err)
	}

	index, err := services.NewQdrantJobIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant: %w", err)
	}

	if err := index.InitCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	return index, nil
}

// indexer returns the job index as a worker hook, or nil when disabled.
func (a *application) indexer() services.ResumeIndexer {
	if a.jobIndex == nil {
		return nil
	}
	return a.jobIndex
}

func (a *application) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Printf("⚠️ Failed to close progress publisher: %v", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
