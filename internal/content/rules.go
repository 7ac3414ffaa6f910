package content

import "regexp"

// Issue messages that are not tied to a phrase pattern.
const (
	IssueNoContent    = "No page content provided — analysis is based only on URL and rules."
	IssueExclamations = "Excessive use of exclamation marks — looks like clickbait."
	IssueAllCaps      = "Many ALL-CAPS words — often used to shout / oversell."
	IssueTooShort     = "Very short / vague description — lacks proper official details."
	IssueNoSignals    = "No strong scam signals detected in the given text."
)

// Thresholds and weight of the writing-style checks.
const (
	MaxExclamations = 6
	MaxCapsWords    = 5
	MinCapsWordLen  = 4
	MinTextLength   = 200
	StyleWeight     = 4
)

// space matches one character of the browser whitespace set: ASCII
// whitespace including \v, U+00A0, the Unicode space separators, the line
// and paragraph separators and U+FEFF.
const space = `[\t\n\x0B\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

// isSpace reports whether r is in the space class.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00A0', '\u1680', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

// pattern is one phrase rule.
type pattern struct {
	name    string
	re      *regexp.Regexp
	weight  int
	message string
}

// patterns is evaluated in order; each matching pattern counts once no
// matter how many times it occurs.
var patterns = []pattern{
	{
		name:    "fee",
		re:      regexp.MustCompile(`(?i)registration fee|processing fee|pay (rs\.?|rupees?)` + space + `*\d+`),
		weight:  12,
		message: "Mentions of registration / processing fee — scammers often charge small fees.",
	},
	{
		name:    "guarantee",
		re:      regexp.MustCompile(`(?i)100%` + space + `*(guarantee|confirmed|assured)`),
		weight:  10,
		message: "Unrealistic “100% guarantee” claims.",
	},
	{
		name:    "no-eligibility",
		re:      regexp.MustCompile(`(?i)no eligibility|everyone can apply|open for all without criteria`),
		weight:  8,
		message: "“No eligibility / open for all” with big money is suspicious.",
	},
	{
		name:    "urgency",
		re:      regexp.MustCompile(`(?i)urgent|apply now|last 24 hours|limited slots`),
		weight:  6,
		message: "Strong urgency pressure is a common scam tactic.",
	},
	{
		name:    "whatsapp",
		re:      regexp.MustCompile(`(?i)whatsapp`),
		weight:  6,
		message: "Asking to contact via WhatsApp for official work can be risky.",
	},
	{
		name:    "informal-documents",
		re:      regexp.MustCompile(`(?i)send (documents|marksheet|aadhar|pan) (on|via)` + space + `*(whatsapp|email)`),
		weight:  8,
		message: "Asking to send sensitive documents informally.",
	},
	{
		name:    "income-promise",
		re:      regexp.MustCompile(`(?i)(work from home|earn up to|monthly income)` + space + `*\d{2,}0+`),
		weight:  6,
		message: "High income promises combined with weak details.",
	},
	{
		name:    "lottery",
		re:      regexp.MustCompile(`(?i)lottery|winner selected|congratulations you have been selected`),
		weight:  8,
		message: "Lottery-style “you are already selected” language.",
	},
}

var capsWordPattern = regexp.MustCompile(`^[A-Z]+$`)
