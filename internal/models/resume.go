package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Resume is the persisted analysis of one uploaded resume file.
type Resume struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename        string         `gorm:"type:text;not null" json:"filename"`
	FileURL         string         `gorm:"type:text;not null" json:"file_url"`
	Score           int            `gorm:"not null;default:0" json:"score"`
	ExperienceLevel string         `gorm:"type:text" json:"experience_level"`
	TotalExperience float64        `gorm:"type:numeric(5,2);default:0" json:"total_experience"`
	JobTitles       pq.StringArray `gorm:"type:text[]" json:"job_titles"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Skills      []ResumeSkill    `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"skills"`
	Feedback    []ResumeFeedback `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"feedback"`
	MatchedJobs []MatchedJob     `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"matched_jobs"`
}

func (Resume) TableName() string {
	return "resumes"
}

type ResumeSkill struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"-"`
	Position   int           `gorm:"not null" json:"-"`
	Name       string        `gorm:"type:text;not null" json:"name"`
	Category   SkillCategory `gorm:"type:text;not null" json:"category"`
	Confidence float64       `gorm:"type:numeric(4,3);not null" json:"confidence"`
	Source     string        `gorm:"type:text" json:"source,omitempty"`
}

func (ResumeSkill) TableName() string {
	return "skills"
}

type ResumeFeedback struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position   int       `gorm:"not null" json:"-"`
	Suggestion string    `gorm:"type:text;not null" json:"suggestion"`
}

func (ResumeFeedback) TableName() string {
	return "feedback"
}

type MatchedJob struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID           uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position           int       `gorm:"not null" json:"-"`
	Title              string    `gorm:"type:text" json:"title"`
	Company            string    `gorm:"type:text" json:"company"`
	Location           string    `gorm:"type:text" json:"location"`
	MatchPercentage    int       `json:"match_percentage"`
	ApplyURL           string    `gorm:"type:text" json:"apply_url"`
	Description        string    `gorm:"type:text" json:"description"`
	SalaryRange        string    `gorm:"type:text" json:"salary_range"`
	ExperienceRequired string    `gorm:"type:text" json:"experience_required"`
	JobType            string    `gorm:"type:text" json:"job_type"`
}

func (MatchedJob) TableName() string {
	return "matched_jobs"
}

// Profile holds the public profile of an authenticated user.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName  string    `gorm:"type:text" json:"full_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ResumeSummary is the dashboard projection of a Resume.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResume builds an unsaved record from a normalized analysis and its
// job matches. Child positions follow slice order.
func NewResume(userID uuid.UUID, filename, fileURL string, analysis AnalysisResult, jobs []JobMatch) *Resume {
	r := &Resume{
		ID:              uuid.New(),
		UserID:          userID,
		Filename:        filename,
		FileURL:         fileURL,
		Score:           analysis.Score,
		ExperienceLevel: analysis.ExperienceLevel,
		TotalExperience: analysis.TotalExperience,
		JobTitles:       pq.StringArray(append([]string{}, analysis.JobTitles...)),
		Skills:          make([]ResumeSkill, 0, len(analysis.Skills)),
		Feedback:        make([]ResumeFeedback, 0, len(analysis.Feedback)),
		MatchedJobs:     make([]MatchedJob, 0, len(jobs)),
	}

	for i, s := range analysis.Skills {
		r.Skills = append(r.Skills, ResumeSkill{
			ID:         uuid.New(),
			Position:   i,
			Name:       s.Name,
			Category:   s.Category,
			Confidence: s.Confidence,
			Source:     s.Source,
		})
	}

	for i, fb := range analysis.Feedback {
		r.Feedback = append(r.Feedback, ResumeFeedback{
			ID:         uuid.New(),
			Position:   i,
			Suggestion: fb.Suggestion,
		})
	}

	for i, job := range jobs {
		r.MatchedJobs = append(r.MatchedJobs, MatchedJob{
			ID:                 uuid.New(),
			Position:           i,
			Title:              job.Title,
			Company:            job.Company,
			Location:           job.Location,
			MatchPercentage:    int(job.MatchPercentage),
			ApplyURL:           job.ApplyURL,
			Description:        job.Description,
			SalaryRange:        job.SalaryRange,
			ExperienceRequired: job.ExperienceRequired,
			JobType:            job.JobType,
		})
	}

	return r
}
