package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSONPattern    = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	bareJSONPattern      = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON locates a JSON object or array inside arbitrary model output.
// A ```json fenced block wins; otherwise the leftmost greedy {...} or [...]
// span is returned. The boolean is false when nothing JSON-like exists.
func ExtractJSON(text string) (string, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		return m[1], true
	}

	if m := bareJSONPattern.FindString(text); m != "" {
		return m, true
	}

	return "", false
}

// RepairJSON strips separators that directly precede a closing bracket.
func RepairJSON(candidate string) string {
	return trailingCommaPattern.ReplaceAllString(candidate, "$1")
}

// RepairAndParseJSON parses candidate into a generic value. A failed first
// parse is retried once after RepairJSON; if that also fails the returned
// *MalformedResponseError carries both strings.
func RepairAndParseJSON(candidate string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err == nil {
		return value, nil
	}

	repaired := RepairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, &MalformedResponseError{
			Message:  "the AI model returned an invalid JSON format that could not be repaired",
			Original: candidate,
			Repaired: repaired,
			Cause:    err,
		}
	}

	return value, nil
}

// ParseModelJSON runs extraction then repair over a raw model response.
func ParseModelJSON(raw string) (any, error) {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return nil, &MalformedResponseError{
			Message:  "no JSON found in model response",
			Original: raw,
		}
	}
	return RepairAndParseJSON(candidate)
}
