package models

type ResumeListResponse struct {
	Resumes []ResumeSummary `json:"resumes"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=120"`
}

type JobSearchRequest struct {
	Query string `query:"q" validate:"required,min=2,max=500"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}
