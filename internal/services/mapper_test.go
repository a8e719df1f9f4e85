package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

func TestMapAnalysis_FullPayload(t *testing.T) {
	value, err := ParseModelJSON(`{
		"overall_score": 82,
		"experience_level": "Mid-Level",
		"total_experience": 4.5,
		"skills": {"technical": ["Python"], "tools": ["Docker"], "languages": ["English"], "soft": ["Leadership"], "domain": ["Fintech"]},
		"skill_meter": {"Python": 9, "Docker": 6, "Leadership": 7.5},
		"feedback": {"summary": "Add metrics", "experience": "Quantify impact"},
		"improvement_suggestions": ["Add a projects section"],
		"job_titles": ["Data Analyst", "ML Engineer"]
	}`)
	require.NoError(t, err)

	got := MapAnalysis(value)

	assert.Equal(t, 82, got.Score)
	assert.Equal(t, "Mid-Level", got.ExperienceLevel)
	assert.Equal(t, 4.5, got.TotalExperience)
	assert.Equal(t, []string{"Data Analyst", "ML Engineer"}, got.JobTitles)

	require.Len(t, got.Skills, 5)
	assert.Equal(t, models.Skill{Name: "Python", Category: models.CategoryTechnical, Confidence: 0.9, Source: "technical"}, got.Skills[0])
	assert.Equal(t, models.Skill{Name: "Docker", Category: models.CategoryTechnical, Confidence: 0.6, Source: "tools"}, got.Skills[1])
	assert.Equal(t, models.Skill{Name: "English", Category: models.CategoryTechnical, Confidence: 0.7, Source: "languages"}, got.Skills[2])
	assert.Equal(t, models.Skill{Name: "Leadership", Category: models.CategorySoft, Confidence: 0.75, Source: "soft"}, got.Skills[3])
	assert.Equal(t, models.Skill{Name: "Fintech", Category: models.CategoryDomain, Confidence: 0.7, Source: "domain"}, got.Skills[4])

	assert.Equal(t, []models.FeedbackItem{
		{Suggestion: "Add metrics"},
		{Suggestion: "Quantify impact"},
		{Suggestion: "Add a projects section"},
	}, got.Feedback)
}

func TestMapAnalysis_Defaults(t *testing.T) {
	got := MapAnalysis(map[string]any{})

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "Not specified", got.ExperienceLevel)
	assert.Equal(t, 0.0, got.TotalExperience)
	assert.NotNil(t, got.Skills)
	assert.Empty(t, got.Skills)
	assert.NotNil(t, got.Feedback)
	assert.Empty(t, got.Feedback)
	assert.NotNil(t, got.JobTitles)
	assert.Empty(t, got.JobTitles)
}

func TestMapAnalysis_NonObjectInput(t *testing.T) {
	for _, value := range []any{nil, []any{1, 2}, "text", float64(3)} {
		got := MapAnalysis(value)
		assert.Equal(t, "Not specified", got.ExperienceLevel)
		assert.Empty(t, got.Skills)
	}
}

func TestMapAnalysis_ScoreCoercion(t *testing.T) {
	tests := []struct {
		name  string
		score any
		want  int
	}{
		{"integer", float64(75), 75},
		{"fraction rounds", 74.6, 75},
		{"numeric string", "68", 68},
		{"above range", float64(140), 100},
		{"below range", float64(-5), 0},
		{"not a number", "great", 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapAnalysis(map[string]any{"overall_score": tt.score})
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestMapAnalysis_ConfidenceClamped(t *testing.T) {
	got := MapAnalysis(map[string]any{
		"skills":      map[string]any{"technical": []any{"Go", "Rust", "Zig"}},
		"skill_meter": map[string]any{"Go": float64(15), "Rust": float64(-3), "Zig": "not rated"},
	})

	require.Len(t, got.Skills, 3)
	assert.Equal(t, 1.0, got.Skills[0].Confidence)
	assert.Equal(t, 0.0, got.Skills[1].Confidence)
	assert.Equal(t, 0.7, got.Skills[2].Confidence)
	for _, s := range got.Skills {
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}
}

func TestMapAnalysis_DuplicateSkillsKept(t *testing.T) {
	got := MapAnalysis(map[string]any{
		"skills": map[string]any{
			"technical": []any{"SQL"},
			"domain":    []any{"SQL"},
		},
	})

	require.Len(t, got.Skills, 2)
	assert.Equal(t, models.CategoryTechnical, got.Skills[0].Category)
	assert.Equal(t, models.CategoryDomain, got.Skills[1].Category)
}

func TestMapAnalysis_SkipsBlankAndNonStringEntries(t *testing.T) {
	got := MapAnalysis(map[string]any{
		"skills":     map[string]any{"soft": []any{"", "  ", float64(3), "Mentoring"}},
		"job_titles": []any{"", "Engineer", nil},
	})

	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Mentoring", got.Skills[0].Name)
	assert.Equal(t, []string{"Engineer"}, got.JobTitles)
}

func TestMapAnalysis_FeedbackOrder(t *testing.T) {
	got := MapAnalysis(map[string]any{
		"feedback": map[string]any{
			"overall":    "E",
			"zeta":       "G",
			"skills":     "D",
			"alpha":      "F",
			"projects":   "C",
			"experience": "B",
			"summary":    "A",
			"empty":      "",
		},
		"improvement_suggestions": []any{"H", "I"},
	})

	suggestions := make([]string, 0, len(got.Feedback))
	for _, fb := range got.Feedback {
		suggestions = append(suggestions, fb.Suggestion)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}, suggestions)
}

func TestMapAnalysis_NegativeExperience(t *testing.T) {
	got := MapAnalysis(map[string]any{"total_experience": float64(-2)})
	assert.Equal(t, 0.0, got.TotalExperience)

	got = MapAnalysis(map[string]any{"total_experience": "3.5"})
	assert.Equal(t, 3.5, got.TotalExperience)
}

func TestSkillConfidence(t *testing.T) {
	assert.Equal(t, 0.0, SkillConfidence(0))
	assert.Equal(t, 0.5, SkillConfidence(5))
	assert.Equal(t, 1.0, SkillConfidence(10))
	assert.Equal(t, 1.0, SkillConfidence(42))
	assert.Equal(t, 0.0, SkillConfidence(-1))
}
