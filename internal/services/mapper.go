package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

const (
	defaultExperienceLevel = "Not specified"
	defaultSkillStrength   = 7.0
)

// skillBuckets lists the provider's skill buckets in output order and the
// category each one maps to.
var skillBuckets = []struct {
	key      string
	category models.SkillCategory
}{
	{"technical", models.CategoryTechnical},
	{"tools", models.CategoryTechnical},
	{"languages", models.CategoryTechnical},
	{"soft", models.CategorySoft},
	{"domain", models.CategoryDomain},
}

// feedbackSections fixes the order in which per-section feedback is read.
// Sections not listed here follow in lexical order.
var feedbackSections = []string{"summary", "experience", "projects", "skills", "overall"}

// MapAnalysis converts a parsed analysis payload into an AnalysisResult.
// It never fails: missing or mistyped fields fall back to defaults.
func MapAnalysis(value any) models.AnalysisResult {
	data, _ := value.(map[string]any)

	return models.AnalysisResult{
		Score:           mapScore(data["overall_score"]),
		ExperienceLevel: mapExperienceLevel(data["experience_level"]),
		TotalExperience: mapTotalExperience(data["total_experience"]),
		Feedback:        mapFeedback(data["feedback"], data["improvement_suggestions"]),
		Skills:          mapSkills(data["skills"], data["skill_meter"]),
		JobTitles:       stringList(data["job_titles"]),
	}
}

// SkillConfidence converts a 0-10 strength into a confidence in [0,1].
func SkillConfidence(strength float64) float64 {
	if math.IsNaN(strength) {
		strength = defaultSkillStrength
	}
	return math.Min(math.Max(strength/10.0, 0), 1)
}

func mapScore(v any) int {
	f, ok := toNumber(v)
	if !ok {
		return 0
	}
	return int(math.Min(math.Max(math.Round(f), 0), 100))
}

func mapExperienceLevel(v any) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return defaultExperienceLevel
}

func mapTotalExperience(v any) float64 {
	f, ok := toNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func mapSkills(skillsValue, meterValue any) []models.Skill {
	buckets, _ := skillsValue.(map[string]any)
	meter, _ := meterValue.(map[string]any)

	skills := []models.Skill{}
	for _, bucket := range skillBuckets {
		names, ok := buckets[bucket.key].([]any)
		if !ok {
			continue
		}
		for _, raw := range names {
			name, ok := raw.(string)
			if !ok || strings.TrimSpace(name) == "" {
				continue
			}

			strength, ok := toNumber(meter[name])
			if !ok {
				strength = defaultSkillStrength
			}

			skills = append(skills, models.Skill{
				Name:       name,
				Category:   bucket.category,
				Confidence: SkillConfidence(strength),
				Source:     bucket.key,
			})
		}
	}
	return skills
}

func mapFeedback(sectionsValue, suggestionsValue any) []models.FeedbackItem {
	feedback := []models.FeedbackItem{}

	if sections, ok := sectionsValue.(map[string]any); ok {
		for _, key := range orderedSectionKeys(sections) {
			if s, ok := sections[key].(string); ok && strings.TrimSpace(s) != "" {
				feedback = append(feedback, models.FeedbackItem{Suggestion: strings.TrimSpace(s)})
			}
		}
	}

	for _, s := range stringList(suggestionsValue) {
		feedback = append(feedback, models.FeedbackItem{Suggestion: s})
	}

	return feedback
}

func orderedSectionKeys(sections map[string]any) []string {
	known := make(map[string]bool, len(feedbackSections))
	keys := make([]string, 0, len(sections))
	for _, k := range feedbackSections {
		known[k] = true
		if _, ok := sections[k]; ok {
			keys = append(keys, k)
		}
	}

	var extra []string
	for k := range sections {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

// stringList keeps the non-blank strings of a JSON array, in order.
func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// toNumber accepts JSON numbers and numeric strings.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
