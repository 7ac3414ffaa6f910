package report

import "github.com/nao1215/scholarshield/internal/model"

// BatchSummary aggregates the verdicts of a multi-target run.
type BatchSummary struct {
	// Total is the number of reports.
	Total int `json:"total"`

	// Safe, Warning and Danger count completed reports per level.
	Safe    int `json:"safe"`
	Warning int `json:"warning"`
	Danger  int `json:"danger"`

	// Failed counts reports that have no verdict.
	Failed int `json:"failed"`

	// HighestScore is the largest total score in the batch.
	HighestScore int `json:"highest_score"`

	// Riskiest is the domain of the report with HighestScore.
	Riskiest string `json:"riskiest,omitempty"`
}

// NewBatchSummary counts the given reports. Nil entries are counted as failed.
func NewBatchSummary(reports []*model.ScanReport) BatchSummary {
	s := BatchSummary{Total: len(reports)}

	for _, r := range reports {
		if r == nil || r.Verdict == nil {
			s.Failed++
			continue
		}

		switch r.Verdict.Level {
		case model.LevelSafe:
			s.Safe++
		case model.LevelWarning:
			s.Warning++
		case model.LevelDanger:
			s.Danger++
		}

		if s.Riskiest == "" || r.Verdict.TotalScore > s.HighestScore {
			s.HighestScore = r.Verdict.TotalScore
			s.Riskiest = displayDomain(r)
		}
	}

	return s
}
