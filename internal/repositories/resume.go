package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ResumeRepository interface {
	Save(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ResumeSummary, error)
	ListWithMatchedJobs(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// withChildren preloads every child table in stored order.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Skills", byPosition).
		Preload("Feedback", byPosition).
		Preload("MatchedJobs", byPosition)
}

func ownerHistory(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.
		Model(&models.Resume{}).
		Select("id, filename, score, created_at").
		Where("user_id = ?", ownerID).
		Order("created_at DESC")
}

// matchedJobsPage selects the next keyset page strictly after afterID.
func matchedJobsPage(db *gorm.DB, afterID uuid.UUID, limit int) *gorm.DB {
	q := db.Where("EXISTS (SELECT 1 FROM matched_jobs WHERE matched_jobs.resume_id = resumes.id)")
	if afterID != uuid.Nil {
		q = q.Where("resumes.id > ?", afterID)
	}
	return q.Order("resumes.id ASC").Limit(limit)
}

// Save writes the record and its children in one transaction and returns
// the stored version.
func (r *resumeRepository) Save(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(resume).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	return r.FindByID(ctx, resume.ID)
}

func (r *resumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := withChildren(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// ListByOwner returns the owner's analyses, newest first.
func (r *resumeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ResumeSummary, error) {
	summaries := []models.ResumeSummary{}
	err := ownerHistory(r.db.WithContext(ctx), ownerID).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return summaries, nil
}

// ListWithMatchedJobs pages through every record that has job matches,
// ordered by id. Pass uuid.Nil to start from the beginning.
func (r *resumeRepository) ListWithMatchedJobs(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	q := matchedJobsPage(r.db.WithContext(ctx).Preload("MatchedJobs", byPosition), afterID, limit)
	if err := q.Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to list resumes with matched jobs: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Resume{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
