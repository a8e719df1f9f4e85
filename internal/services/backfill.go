package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

const defaultBackfillBatch = 50

// ResumePager pages through saved records that have job matches, ordered by
// id and strictly after the given cursor.
type ResumePager interface {
	ListWithMatchedJobs(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error)
}

type BackfillStats struct {
	Indexed int
	Failed  int
}

// BackfillJobIndex indexes the matched jobs of every saved record. A record
// that fails to index is counted and skipped.
func BackfillJobIndex(ctx context.Context, pager ResumePager, indexer ResumeIndexer, batchSize int) (BackfillStats, error) {
	if batchSize <= 0 {
		batchSize = defaultBackfillBatch
	}

	var stats BackfillStats
	after := uuid.Nil

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch, err := pager.ListWithMatchedJobs(ctx, after, batchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to load resumes after %s: %w", after, err)
		}

		for i := range batch {
			resume := &batch[i]
			log.Printf("📄 Indexing %d jobs of resume %s (%s)", len(resume.MatchedJobs), resume.ID, resume.Filename)

			if err := indexer.IndexResume(ctx, resume); err != nil {
				log.Printf("⚠️  Failed to index resume %s: %v", resume.ID, err)
				stats.Failed++
				continue
			}
			stats.Indexed++
		}

		if len(batch) < batchSize {
			return stats, nil
		}
		after = batch[len(batch)-1].ID
	}
}
