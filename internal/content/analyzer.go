package content

import (
	"strings"
	"unicode/utf16"

	"github.com/nao1215/scholarshield/internal/model"
)

// Analyze scores text. Surrounding whitespace is ignored; blank text
// scores zero with a single explanatory issue.
func Analyze(text string) model.ContentAnalysis {
	text = trim(text)
	if text == "" {
		return model.ContentAnalysis{
			RiskScore: 0,
			Issues:    []string{IssueNoContent},
		}
	}

	score := 0
	issues := make([]string, 0, len(patterns)+3)

	for _, p := range patterns {
		if p.re.MatchString(text) {
			score += p.weight
			issues = append(issues, p.message)
		}
	}

	if strings.Count(text, "!") > MaxExclamations {
		score += StyleWeight
		issues = append(issues, IssueExclamations)
	}

	if countCapsWords(text) > MaxCapsWords {
		score += StyleWeight
		issues = append(issues, IssueAllCaps)
	}

	if textLength(text) < MinTextLength {
		score += StyleWeight
		issues = append(issues, IssueTooShort)
	}

	if len(issues) == 0 {
		issues = append(issues, IssueNoSignals)
	}

	return model.ContentAnalysis{
		RiskScore: model.Clamp(score, 0, model.MaxContentScore),
		Issues:    issues,
	}
}

// countCapsWords counts whitespace-separated tokens of at least
// MinCapsWordLen characters made only of A-Z.
func countCapsWords(text string) int {
	n := 0
	for _, w := range strings.FieldsFunc(text, isSpace) {
		if len(w) >= MinCapsWordLen && capsWordPattern.MatchString(w) {
			n++
		}
	}
	return n
}

// trim removes leading and trailing whitespace of the space class.
func trim(text string) string {
	return strings.TrimFunc(text, isSpace)
}

// textLength returns the length of text in UTF-16 code units, so a
// character outside the Basic Multilingual Plane such as an emoji counts
// as two.
func textLength(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
