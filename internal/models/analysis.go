package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type SkillCategory string

const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryDomain    SkillCategory = "domain"
)

// Skill is a normalized skill entry. Confidence is always within [0,1].
type Skill struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Confidence float64       `json:"confidence"`
	// Source is the provider bucket the skill was declared in
	// (technical, tools, languages, soft or domain).
	Source string `json:"source,omitempty"`
}

type FeedbackItem struct {
	Suggestion string `json:"suggestion"`
}

// AnalysisResult is the normalized record produced from one analysis call.
type AnalysisResult struct {
	Score           int            `json:"score"`
	ExperienceLevel string         `json:"experience_level"`
	TotalExperience float64        `json:"total_experience"`
	Feedback        []FeedbackItem `json:"feedback"`
	Skills          []Skill        `json:"skills"`
	JobTitles       []string       `json:"job_titles"`
}

// HighConfidenceSkills returns the names of skills whose confidence is
// strictly greater than threshold, in declaration order.
func (a AnalysisResult) HighConfidenceSkills(threshold float64) []string {
	names := make([]string, 0, len(a.Skills))
	for _, s := range a.Skills {
		if s.Confidence > threshold {
			names = append(names, s.Name)
		}
	}
	return names
}

// JobMatch is one job opening returned by the matching provider.
type JobMatch struct {
	Title              string     `json:"title"`
	Company            string     `json:"company"`
	Location           string     `json:"location"`
	MatchPercentage    Percentage `json:"match_percentage"`
	ApplyURL           string     `json:"apply_url"`
	Description        string     `json:"description"`
	SalaryRange        string     `json:"salary_range"`
	ExperienceRequired string     `json:"experience_required"`
	JobType            string     `json:"job_type"`
}

// UnmarshalJSON accepts provider objects whose text fields are numbers or
// booleans and whose match_percentage cannot be read. Those fields keep
// their raw JSON text or fall back to zero instead of failing the object.
func (j *JobMatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("job listing is not an object: %w", err)
	}

	*j = JobMatch{}
	fields := map[string]*string{
		"title":               &j.Title,
		"company":             &j.Company,
		"location":            &j.Location,
		"apply_url":           &j.ApplyURL,
		"description":         &j.Description,
		"salary_range":        &j.SalaryRange,
		"experience_required": &j.ExperienceRequired,
		"job_type":            &j.JobType,
	}
	for key, dst := range fields {
		if v, ok := raw[key]; ok {
			*dst = looseString(v)
		}
	}

	if v, ok := raw["match_percentage"]; ok {
		if err := j.MatchPercentage.UnmarshalJSON(v); err != nil {
			j.MatchPercentage = 0
		}
	}
	return nil
}

func looseString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	raw := strings.TrimSpace(string(v))
	if raw == "null" {
		return ""
	}
	return raw
}

// Percentage decodes integer, fractional or quoted numeric JSON values into
// an integer percentage.
type Percentage int

func (p *Percentage) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid percentage %s", raw)
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", s)
		}
		f = parsed
	}

	*p = Percentage(math.Round(f))
	return nil
}
