package verdict

import (
	"testing"

	"github.com/nao1215/scholarshield/internal/model"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		url       int
		content   int
		wantTotal int
		wantLevel model.Level
	}{
		{name: "warning band", url: 20, content: 15, wantTotal: 35, wantLevel: model.LevelWarning},
		{name: "zero is safe", url: 0, content: 0, wantTotal: 0, wantLevel: model.LevelSafe},
		{name: "maximum is danger", url: 60, content: 40, wantTotal: 100, wantLevel: model.LevelDanger},
		{name: "over maximum is clamped", url: 80, content: 40, wantTotal: 100, wantLevel: model.LevelDanger},
		{name: "negative is clamped", url: -10, content: 0, wantTotal: 0, wantLevel: model.LevelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Combine(tt.url, tt.content)
			if got.TotalScore != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, got.TotalScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("expected level %s, got %s", tt.wantLevel, got.Level)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  model.Level
	}{
		{score: 0, want: model.LevelSafe},
		{score: 30, want: model.LevelSafe},
		{score: 31, want: model.LevelWarning},
		{score: 60, want: model.LevelWarning},
		{score: 61, want: model.LevelDanger},
		{score: 100, want: model.LevelDanger},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestPillClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "Matches known scam domain", want: PillBad},
		{tag: "Suspicious TLD (.xyz)", want: PillBad},
		{tag: "Domain contains numbers (often used in scam sites)", want: PillBad},
		{tag: "Secured with HTTPS", want: PillGood},
		{tag: "Not using HTTPS", want: PillGood},
		{tag: "Educational / Government-style domain", want: PillGood},
		{tag: "SCAM", want: PillBad},
		{tag: "", want: PillGood},
	}

	for _, tt := range tests {
		if got := PillClass(tt.tag); got != tt.want {
			t.Errorf("PillClass(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}
