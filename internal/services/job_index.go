package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

// JobIndex keeps matched jobs searchable by meaning across a user's history.
type JobIndex interface {
	InitCollection(ctx context.Context) error
	IndexResume(ctx context.Context, resume *models.Resume) error
	Search(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]JobSearchResult, error)
	DeleteResume(ctx context.Context, resumeID uuid.UUID) error
}

// JobSearchResult is one hit from the job index.
type JobSearchResult struct {
	JobID           string  `json:"job_id"`
	ResumeID        string  `json:"resume_id"`
	Score           float32 `json:"score"`
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	ApplyURL        string  `json:"apply_url"`
	MatchPercentage int64   `json:"match_percentage"`
}

type qdrantJobIndex struct {
	client         *qdrant.Client
	embedder       Embedder
	prompts        *PromptBuilder
	collectionName string
	vectorSize     uint64
}

func NewQdrantJobIndex(urlStr, apiKey, collectionName string, embedder Embedder) (JobIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantJobIndex{
		client:         client,
		embedder:       embedder,
		prompts:        NewPromptBuilder("", 0),
		collectionName: collectionName,
		vectorSize:     GeminiEmbeddingSize,
	}, nil
}

// InitCollection implements JobIndex.
func (q *qdrantJobIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexResume implements JobIndex. Point ids are the matched job ids, so
// indexing the same record twice overwrites instead of duplicating.
func (q *qdrantJobIndex) IndexResume(ctx context.Context, resume *models.Resume) error {
	points := make([]*qdrant.PointStruct, 0, len(resume.MatchedJobs))

	for _, job := range resume.MatchedJobs {
		embedding, err := q.embedder.GenerateEmbedding(ctx, q.prompts.BuildJobSearchQuery(job.Title, job.Company, job.Location, job.Description))
		if err != nil {
			return fmt.Errorf("failed to embed job %s: %w", job.ID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(job.ID.String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(jobPayload(resume, job)),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	log.Printf("✅ Indexed %d jobs for resume %s\n", len(points), resume.ID)
	return nil
}

// Search implements JobIndex.
func (q *qdrantJobIndex) Search(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]JobSearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	queryEmbedding, err := q.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_id", ownerID.String()),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]JobSearchResult, 0, len(searchResult))
	for _, point := range searchResult {
		results = append(results, searchResultFromPayload(point.Score, point.Payload))
	}

	return results, nil
}

// DeleteResume implements JobIndex.
func (q *qdrantJobIndex) DeleteResume(ctx context.Context, resumeID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("resume_id", resumeID.String()),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete jobs of resume %s: %w", resumeID, err)
	}

	return nil
}

func jobPayload(resume *models.Resume, job models.MatchedJob) map[string]any {
	return map[string]any{
		"job_id":           job.ID.String(),
		"owner_id":         resume.UserID.String(),
		"resume_id":        resume.ID.String(),
		"title":            job.Title,
		"company":          job.Company,
		"location":         job.Location,
		"apply_url":        job.ApplyURL,
		"match_percentage": int64(job.MatchPercentage),
	}
}

func searchResultFromPayload(score float32, payload map[string]*qdrant.Value) JobSearchResult {
	str := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}

	var pct int64
	if v, ok := payload["match_percentage"]; ok {
		pct = v.GetIntegerValue()
	}

	return JobSearchResult{
		JobID:           str("job_id"),
		ResumeID:        str("resume_id"),
		Score:           score,
		Title:           str("title"),
		Company:         str("company"),
		Location:        str("location"),
		ApplyURL:        str("apply_url"),
		MatchPercentage: pct,
	}
}
