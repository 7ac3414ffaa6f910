package verdict

import (
	"strings"

	"github.com/nao1215/scholarshield/internal/model"
)

// Level boundaries. A score equal to a boundary belongs to the lower band.
const (
	SafeMax    = 30
	WarningMax = 60
)

// Pill classes used to render analysis tags.
const (
	PillGood = "good"
	PillBad  = "bad"
)

// Combine adds both pass scores, clamps the sum to [0, 100] and
// classifies it.
func Combine(urlScore, contentScore int) model.Verdict {
	total := model.Clamp(urlScore+contentScore, 0, model.MaxTotalScore)
	return model.Verdict{
		TotalScore: total,
		Level:      Classify(total),
	}
}

// Classify maps a total score to its level.
func Classify(score int) model.Level {
	switch {
	case score <= SafeMax:
		return model.LevelSafe
	case score <= WarningMax:
		return model.LevelWarning
	default:
		return model.LevelDanger
	}
}

// PillClass returns PillBad for tags mentioning a scam or something
// suspicious, and PillGood for everything else.
func PillClass(tag string) string {
	lower := strings.ToLower(tag)
	if strings.Contains(lower, "scam") || strings.Contains(lower, "suspicious") {
		return PillBad
	}
	return PillGood
}
