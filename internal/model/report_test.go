package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestNewScanReport tests ScanReport construction.
func TestNewScanReport(t *testing.T) {
	t.Parallel()

	input := ScanInput{URL: "example.com", Content: "hello"}
	report := NewScanReport(input)

	if report.ID == "" {
		t.Error("expected non-empty ID")
	}
	if report.DateScanned.IsZero() {
		t.Error("expected DateScanned to be set")
	}
	if report.Input != input {
		t.Errorf("got input %+v, expected %+v", report.Input, input)
	}
	if report.IsComplete() {
		t.Error("new report should not be complete")
	}
	if report.Domain() != "" {
		t.Errorf("expected empty domain, got %q", report.Domain())
	}
	if report.TotalScore() != 0 {
		t.Errorf("expected zero score, got %d", report.TotalScore())
	}

	other := NewScanReport(input)
	if other.ID == report.ID {
		t.Error("expected unique IDs")
	}
}

// TestScanReportAccessors tests the helper accessors once results are set.
func TestScanReportAccessors(t *testing.T) {
	t.Parallel()

	report := NewScanReport(ScanInput{URL: "http://scam123.xyz"})
	report.URL = &URLAnalysis{Domain: "scam123.xyz", RiskScore: 60, Tags: []string{"Not using HTTPS"}}
	report.Content = &ContentAnalysis{Issues: []string{"x"}}
	report.Verdict = &Verdict{TotalScore: 60, Level: LevelWarning}

	if !report.IsComplete() {
		t.Error("expected report to be complete")
	}
	if report.Domain() != "scam123.xyz" {
		t.Errorf("got domain %q", report.Domain())
	}
	if report.TotalScore() != 60 {
		t.Errorf("got score %d", report.TotalScore())
	}
}

// TestScanReportJSON tests that the error field is not serialized directly.
func TestScanReportJSON(t *testing.T) {
	t.Parallel()

	report := NewScanReport(ScanInput{URL: "example.com"})
	report.Error = errors.New("boom")
	report.ErrorMessage = "boom"

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"error":"boom"`) {
		t.Errorf("expected error message in JSON: %s", s)
	}
	if strings.Contains(s, `"verdict"`) {
		t.Errorf("expected verdict to be omitted before scoring: %s", s)
	}
}

// TestClamp tests the Clamp helper.
func TestClamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		v        int
		expected int
	}{
		{"below range", -15, 0},
		{"at lower bound", 0, 0},
		{"inside range", 35, 35},
		{"at upper bound", 60, 60},
		{"above range", 75, 60},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Clamp(tc.v, 0, MaxURLScore); got != tc.expected {
				t.Errorf("Clamp(%d) = %d, expected %d", tc.v, got, tc.expected)
			}
		})
	}
}
