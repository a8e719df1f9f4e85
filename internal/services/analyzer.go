package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

// keySkillThreshold is the confidence a skill must exceed to be sent to the
// job matching prompt.
const keySkillThreshold = 0.8

// AnalysisRequest identifies the resume to analyze. Excerpt is optional
// plain text taken from the uploaded document.
type AnalysisRequest struct {
	DocumentURL string
	Excerpt     string
}

// MatchRequest is the candidate profile used to look up job openings.
type MatchRequest struct {
	JobTitles       []string
	Skills          []models.Skill
	ExperienceLevel string
}

// ResumeAnalyzer issues the analysis and job matching calls and turns the
// raw model text into typed results.
type ResumeAnalyzer struct {
	llm     LLMClient
	prompts *PromptBuilder
	schemas *SchemaChecker
}

func NewResumeAnalyzer(llm LLMClient, prompts *PromptBuilder, schemas *SchemaChecker) *ResumeAnalyzer {
	if prompts == nil {
		prompts = NewPromptBuilder("", 0)
	}
	return &ResumeAnalyzer{llm: llm, prompts: prompts, schemas: schemas}
}

// Analyze makes exactly one provider call and normalizes its answer.
func (a *ResumeAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error) {
	raw, err := a.llm.Complete(ctx, CompletionRequest{
		System: a.prompts.AnalysisSystemPrompt(),
		Prompt: a.prompts.BuildAnalysisPrompt(req),
	})
	if err != nil {
		return nil, err
	}

	value, err := ParseModelJSON(raw)
	if err != nil {
		log.Printf("❌ Failed to parse resume analysis from %s: %v\n--- raw response ---\n%s", a.llm.Name(), err, raw)
		return nil, err
	}

	if a.schemas != nil {
		for _, w := range a.schemas.CheckAnalysis(value) {
			log.Printf("⚠️ Analysis response drift: %s", w)
		}
	}

	result := MapAnalysis(value)
	return &result, nil
}

// MatchJobs looks up openings for the candidate. With no target titles it
// returns an empty list without calling the provider.
func (a *ResumeAnalyzer) MatchJobs(ctx context.Context, req MatchRequest) ([]models.JobMatch, error) {
	if len(req.JobTitles) == 0 {
		return []models.JobMatch{}, nil
	}

	keySkills := models.AnalysisResult{Skills: req.Skills}.HighConfidenceSkills(keySkillThreshold)

	raw, err := a.llm.Complete(ctx, CompletionRequest{
		System: a.prompts.JobSearchSystemPrompt(),
		Prompt: a.prompts.BuildJobMatchPrompt(req.JobTitles, strings.Join(keySkills, ", "), req.ExperienceLevel),
	})
	if err != nil {
		return nil, err
	}

	value, err := ParseModelJSON(raw)
	if err != nil {
		log.Printf("❌ Failed to parse job matches from %s: %v\n--- raw response ---\n%s", a.llm.Name(), err, raw)
		return nil, err
	}

	if a.schemas != nil {
		for _, w := range a.schemas.CheckJobMatches(value) {
			log.Printf("⚠️ Job matches response drift: %s", w)
		}
	}

	return decodeJobMatches(value)
}

// decodeJobMatches converts a parsed array into job matches as-is. Entries
// that are not objects are skipped.
func decodeJobMatches(value any) ([]models.JobMatch, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, &MalformedResponseError{Message: "expected a JSON array of job listings"}
	}

	jobs := make([]models.JobMatch, 0, len(items))
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			log.Printf("⚠️ Skipping job listing #%d: %v", i, err)
			continue
		}

		var job models.JobMatch
		if err := json.Unmarshal(data, &job); err != nil {
			log.Printf("⚠️ Skipping job listing #%d: %v", i, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
