package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

// UpdateFullName creates the profile on first use.
func (r *profileRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	profile := models.Profile{ID: id, FullName: fullName, UpdatedAt: time.Now()}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return r.Get(ctx, id)
}
