package model

import (
	"fmt"
	"strings"
)

// Level is the three-band risk classification of a combined score.
type Level int

const (
	// LevelSafe is a total score of 30 or below.
	LevelSafe Level = iota

	// LevelWarning is a total score from 31 to 60.
	LevelWarning

	// LevelDanger is a total score above 60.
	LevelDanger
)

// String returns the lowercase level name used in reports and the API.
func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "safe"
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level as its name so JSON output reads
// "level": "warning" rather than a bare integer.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name produced by MarshalText.
func (l *Level) UnmarshalText(text []byte) error {
	lv, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lv
	return nil
}

// ParseLevel converts a level name back into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe":
		return LevelSafe, nil
	case "warning":
		return LevelWarning, nil
	case "danger":
		return LevelDanger, nil
	default:
		return LevelSafe, fmt.Errorf("unknown risk level %q", s)
	}
}

// LevelInfo holds the fixed user-facing text attached to a risk level.
type LevelInfo struct {
	// Headline is the short verdict shown next to the score.
	Headline string

	// Recommendation tells the user what to do next.
	Recommendation string

	// Category is the presentation class for the score badge.
	Category string
}

// levelInfoMapping is the single source of truth for verdict wording.
var levelInfoMapping = map[Level]LevelInfo{
	LevelSafe: {
		Headline: "Looks mostly genuine (low risk).",
		Recommendation: "This link appears relatively safe based on URL and text checks. Still, make sure it matches " +
			"official college / government announcements and never share OTPs or passwords.",
		Category: "safe",
	},
	LevelWarning: {
		Headline: "Be cautious — mixed signals detected.",
		Recommendation: "This opportunity has both positive and suspicious signs. Cross-verify on official .gov/.edu websites, " +
			"talk to your college authorities, and avoid paying any upfront fees.",
		Category: "warning",
	},
	LevelDanger: {
		Headline: "High chance of scam — do NOT share data or pay fees.",
		Recommendation: "Our system flags this as high risk. Avoid uploading documents, sharing personal information, or paying money. " +
			"Search the scheme on official portals or contact your institution before proceeding.",
		Category: "danger",
	},
}

// GetLevelInfo returns the wording for a level.
// Unknown levels fall back to the danger wording.
func GetLevelInfo(l Level) LevelInfo {
	if info, ok := levelInfoMapping[l]; ok {
		return info
	}
	return levelInfoMapping[LevelDanger]
}
