package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/scholarshield/internal/content"
	"github.com/nao1215/scholarshield/internal/dataset"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/urlcheck"
	"github.com/nao1215/scholarshield/internal/verdict"
)

// ErrMissingAnalysis is returned by VerdictStep when the URL or content
// step has not filled in its result.
var ErrMissingAnalysis = errors.New("verdict requires both URL and content analysis")

// Step names.
const (
	StepURL     = "url_analysis"
	StepContent = "content_analysis"
	StepVerdict = "verdict"
)

// URLStep runs the URL heuristics against a dataset.
type URLStep struct {
	ds     *dataset.Dataset
	logger *slog.Logger
}

// URLStepOption configures a URLStep.
type URLStepOption func(*URLStep)

// WithURLLogger sets a custom logger for the URL step.
func WithURLLogger(logger *slog.Logger) URLStepOption {
	return func(s *URLStep) {
		s.logger = logger
	}
}

// NewURLStep creates a URL step. A nil dataset is replaced by an empty one.
func NewURLStep(ds *dataset.Dataset, opts ...URLStepOption) *URLStep {
	if ds == nil {
		ds = dataset.Empty()
	}
	s := &URLStep{
		ds:     ds,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *URLStep) Name() string {
	return StepURL
}

// Do executes the URL step.
func (s *URLStep) Do(_ context.Context, report *model.ScanReport) error {
	result := urlcheck.Analyze(report.Input.URL, s.ds)
	report.URL = &result

	s.logger.Debug("url analyzed",
		"domain", result.Domain,
		"score", result.RiskScore,
		"tags", len(result.Tags),
	)
	return nil
}

// ContentStep runs the content heuristics and records the content digest.
type ContentStep struct {
	logger *slog.Logger
}

// NewContentStep creates a content step.
func NewContentStep(logger *slog.Logger) *ContentStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentStep{logger: logger}
}

// Name returns the step name.
func (s *ContentStep) Name() string {
	return StepContent
}

// Do executes the content step.
func (s *ContentStep) Do(_ context.Context, report *model.ScanReport) error {
	result := content.Analyze(report.Input.Content)
	report.Content = &result
	report.ContentHash = content.Hash(report.Input.Content)

	s.logger.Debug("content analyzed",
		"score", result.RiskScore,
		"issues", len(result.Issues),
	)
	return nil
}

// VerdictStep combines both scores and attaches the level wording.
type VerdictStep struct{}

// NewVerdictStep creates a verdict step.
func NewVerdictStep() *VerdictStep {
	return &VerdictStep{}
}

// Name returns the step name.
func (s *VerdictStep) Name() string {
	return StepVerdict
}

// Do executes the verdict step.
func (s *VerdictStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.URL == nil || report.Content == nil {
		return ErrMissingAnalysis
	}

	v := verdict.Combine(report.URL.RiskScore, report.Content.RiskScore)
	info := model.GetLevelInfo(v.Level)

	report.Verdict = &v
	report.Headline = info.Headline
	report.Recommendation = info.Recommendation
	report.Category = info.Category
	return nil
}

// DefaultPipeline creates a pipeline with the URL, content and verdict
// steps in that order. This is the standard pipeline for a scan.
func DefaultPipeline(ds *dataset.Dataset, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewURLStep(ds, WithURLLogger(p.logger)),
		NewContentStep(p.logger),
		NewVerdictStep(),
	)
	return p
}
