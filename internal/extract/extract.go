// Package extract recovers structured fields from the model's free-text
// response. Missing labels degrade to sentinel placeholders; the full raw
// text always survives in Details.
package extract

import (
	"regexp"
	"strings"

	"github.com/baholash/baholash-api/internal/prompt"
)

// Sentinels substituted when a labelled field cannot be located.
const (
	ScoreNotFound   = "Baholanmagan"
	SummaryNotFound = "Xulosa topilmadi"
)

// Result holds the extracted fields. Details is the verbatim response text
// regardless of whether the labelled fields were found.
type Result struct {
	Score   string
	Summary string
	Details string
}

// The labels come from the composer so instruction and extraction cannot
// drift apart. The colon is accepted inside or outside the bold markers.
var (
	scorePattern   = labelPattern(prompt.ScoreLabel)
	summaryPattern = labelPattern(prompt.SummaryLabel)
)

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`\*\*` + regexp.QuoteMeta(label) + `:?\*\*:?[ \t]*([^\n]+)`)
}

// Extract parses the raw response. First match only, line-anchored; the score
// stays a display string, no numeric coercion.
func Extract(raw string) Result {
	result := Result{
		Score:   ScoreNotFound,
		Summary: SummaryNotFound,
		Details: raw,
	}

	if m := scorePattern.FindStringSubmatch(raw); m != nil {
		if value := strings.TrimSpace(m[1]); value != "" {
			result.Score = value
		}
	}

	if m := summaryPattern.FindStringSubmatch(raw); m != nil {
		if value := strings.TrimSpace(m[1]); value != "" {
			result.Summary = value
		}
	}

	return result
}
