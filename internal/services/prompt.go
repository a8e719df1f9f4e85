package services

import (
	"fmt"
	"strings"
)

const (
	analysisSystemPrompt = "You are an API that responds ONLY with a single, valid JSON object based on the user's instructions. " +
		"You never provide any commentary, explanations, or text outside of the JSON structure requested. " +
		"Your output must be machine-parsable."

	jobSearchSystemPrompt = "You are a powerful job search engine API. Your sole purpose is to find real job listings " +
		"from the web and return them as a single, valid JSON array. Do not include any other text."
)

type PromptBuilder struct {
	jobRegion  string
	minResults int
}

func NewPromptBuilder(jobRegion string, minResults int) *PromptBuilder {
	if jobRegion == "" {
		jobRegion = "India"
	}
	if minResults <= 0 {
		minResults = 20
	}
	return &PromptBuilder{jobRegion: jobRegion, minResults: minResults}
}

// AnalysisSystemPrompt returns the system message for resume analysis
func (pb *PromptBuilder) AnalysisSystemPrompt() string {
	return analysisSystemPrompt
}

// JobSearchSystemPrompt returns the system message for job matching
func (pb *PromptBuilder) JobSearchSystemPrompt() string {
	return jobSearchSystemPrompt
}

// BuildAnalysisPrompt creates the resume analysis prompt. The excerpt is
// optional and is appended after the URL when present.
func (pb *PromptBuilder) BuildAnalysisPrompt(req AnalysisRequest) string {
	var excerpt string
	if strings.TrimSpace(req.Excerpt) != "" {
		excerpt = fmt.Sprintf("\nRESUME TEXT (extracted, may be truncated):\n%s\n", strings.TrimSpace(req.Excerpt))
	}

	return fmt.Sprintf(`You are a professional resume analyst with 20 years of experience in technical recruiting. Your analysis must be meticulous, accurate, and strictly based on the provided document.

Analyze the resume available at the following URL and provide a structured, detailed JSON response.
RESUME URL: %s
%s
TASKS:
1.  **Identify and extract all skills (explicit and implied).**
2.  **Classify the skills** into the following categories:
    *   `+"`technical`"+`: General technical concepts (e.g., 'Data Structures', 'CI/CD').
    *   `+"`tools`"+`: Specific software, frameworks, or libraries (e.g., 'React', 'Docker', 'Jira').
    *   `+"`languages`"+`: Programming languages (e.g., 'Python', 'JavaScript', 'SQL').
    *   `+"`soft`"+`: Interpersonal attributes (e.g., 'Communication', 'Teamwork').
    *   `+"`domain`"+`: Industry-specific knowledge (e.g., 'E-commerce', 'Healthcare IT').
3.  **Assign a Skill Strength Score (0-10)** for each skill based on its context and emphasis in the resume. A skill demonstrated in a project should have a higher score than one simply listed.
4.  **Evaluate the resume sections** (Summary, Experience, Projects, Skills) and provide one concise, actionable feedback point for each.
5.  **Suggest the top 3 most impactful improvements** to enhance professional impact and readability.
6.  **Determine the candidate's professional profile:**
    *   Calculate the total years of professional experience.
    *   Categorize the experience level ('Entry-Level', 'Mid-Level', 'Senior').
    *   Suggest up to 3 suitable job titles.
7.  **Provide an overall score (0-100)** based on clarity, technical depth, and presentation.

**STRICT JSON OUTPUT FORMAT:**
Your entire response MUST be a single, valid JSON object. Do not add any text, explanations, or markdown fences before or after the JSON.

{
  "skills": {
    "technical": ["<string>", ...],
    "tools": ["<string>", ...],
    "languages": ["<string>", ...],
    "soft": ["<string>", ...],
    "domain": ["<string>", ...]
  },
  "skill_meter": {
    "<skill_name>": <number, 0-10>,
    ...
  },
  "feedback": {
    "summary": "<string>",
    "experience": "<string>",
    "projects": "<string>",
    "skills": "<string>",
    "overall": "<string, a summary of overall impression>"
  },
  "improvement_suggestions": ["<string>", "<string>", "<string>"],
  "experience_level": "<string, 'Entry-Level', 'Mid-Level', 'Senior', or 'Executive'>",
  "total_experience": <number>,
  "job_titles": ["<string>", "<string>", "<string>"],
  "overall_score": <number, 0-100>
}`, req.DocumentURL, excerpt)
}

// BuildJobMatchPrompt creates the job search prompt for a candidate profile
func (pb *PromptBuilder) BuildJobMatchPrompt(jobTitles []string, keySkills, experienceLevel string) string {
	return fmt.Sprintf(`You are an expert career placement agent AI. Your goal is to find highly relevant job postings based on the provided candidate profile. Prioritize RELEVANCE over quantity.

**CANDIDATE PROFILE:**
*   **Target Job Titles:** [%s]
*   **Candidate's Key Skills:** [%s]
*   **Candidate's Experience Level:** "%s"

**TASK:**
Perform an extensive live web search to find a minimum of %d real job openings in %s. Source these jobs from reputable platforms like LinkedIn, Naukri.com, and directly from company career pages.

**CRITICAL MATCHING & FILTERING RULES:**
1.  **EXPERIENCE IS KEY:** Heavily prioritize jobs that match the candidate's experience level. DISCARD any job where the required experience is wildly mismatched (e.g., a "Director" role for an "Entry-Level" candidate).
2.  **NUANCED MATCH SCORE:** For each job, you MUST calculate a `+"`match_percentage`"+` from 70-100 based on this formula:
    *   **Title/Description Alignment (60%% weight):** How well does the job posting align with the target titles?
    *   **Skill Overlap (30%% weight):** How many of the candidate's key skills are mentioned in the job requirements?
    *   **Experience Fit (10%% weight):** Does the job's required experience align with the candidate's level?
    *   **Reputation Bonus (up to 5%%):** Add a small bonus for jobs at well-known, reputable companies.
3.  **DIVERSE LEVELS:** The final list must include a mix of experience levels, from roles matching the candidate's current level to slightly more senior positions.

**REQUIRED JSON OUTPUT:**
Respond with a single, valid JSON array of job objects. Each object must strictly follow this structure:
{
  "title": string,
  "company": string,
  "location": string,
  "match_percentage": number,
  "apply_url": string (a direct, real URL to the application page),
  "description": string (a 1-2 sentence summary of the role),
  "salary_range": string,
  "experience_required": string,
  "job_type": string
}.`, strings.Join(jobTitles, ", "), keySkills, experienceLevel, pb.minResults, pb.jobRegion)
}

// BuildJobSearchQuery creates the embedding query used against the job index
func (pb *PromptBuilder) BuildJobSearchQuery(title, company, location, description string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{title, company, location, description} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
