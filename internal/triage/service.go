// Package triage exposes the boundary operations of the analysis pipeline:
// analyze, feedback submission, corpus search and the learning snapshot.
package triage

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
	"github.com/fyrsmithlabs/mailroom/internal/corpus"
	"github.com/fyrsmithlabs/mailroom/internal/feedback"
	"github.com/fyrsmithlabs/mailroom/internal/learning"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
)

const instrumentationName = "github.com/fyrsmithlabs/mailroom/internal/triage"

// Service provides the email triage operations.
type Service interface {
	// Analyze runs the full pipeline for one email and stores the result.
	Analyze(ctx context.Context, email analysis.Email, progress analysis.Progress) (*analysis.Result, error)

	// AnalyzeBatch analyzes emails strictly in submission order so the
	// learning metrics reflect that order.
	AnalyzeBatch(ctx context.Context, emails []analysis.Email, progress analysis.Progress) ([]*analysis.Result, error)

	// SubmitFeedback parses the reviewer message and applies the parsed
	// corrections to the stored result atomically.
	SubmitFeedback(ctx context.Context, resultID, message string) (*FeedbackOutcome, error)

	// Result returns a stored analysis result by ID.
	Result(ctx context.Context, resultID string) (*analysis.Result, error)

	// Search queries the corpus directly, outside the analysis pipeline.
	Search(ctx context.Context, query string, k int) ([]corpus.SearchResult, error)

	// LearningMetrics returns a read-only copy of the running statistics.
	LearningMetrics() learning.Metrics
}

// FeedbackOutcome reports what one feedback submission changed.
type FeedbackOutcome struct {
	Corrections []feedback.FieldCorrection `json:"corrections"`
	Jargon      []feedback.JargonEntry     `json:"jargon_learned"`
	Result      *analysis.Result           `json:"result"`
}

// Config configures the triage service.
type Config struct {
	// SearchTopK caps direct corpus search results (default: 10).
	SearchTopK int `koanf:"search_top_k"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{SearchTopK: 10}
}

// service implements the Service interface.
type service struct {
	config       Config
	orchestrator *analysis.Orchestrator
	store        *analysis.Store
	index        *corpus.Index
	parser       *feedback.Parser
	applier      *feedback.Applier
	aggregator   *learning.Aggregator
	jargon       *patterns.Dictionary
	logger       *zap.Logger

	tracer          trace.Tracer
	meter           metric.Meter
	analyzeCounter  metric.Int64Counter
	feedbackCounter metric.Int64Counter
}

// NewService wires the triage facade.
func NewService(
	cfg Config,
	orchestrator *analysis.Orchestrator,
	store *analysis.Store,
	index *corpus.Index,
	applier *feedback.Applier,
	aggregator *learning.Aggregator,
	jargon *patterns.Dictionary,
	logger *zap.Logger,
) (Service, error) {
	if orchestrator == nil {
		return nil, errors.New("orchestrator is required")
	}
	if store == nil {
		return nil, errors.New("result store is required")
	}
	if index == nil {
		return nil, errors.New("corpus index is required")
	}
	if aggregator == nil {
		return nil, errors.New("learning aggregator is required")
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = DefaultConfig().SearchTopK
	}
	if applier == nil {
		applier = feedback.NewApplier(feedback.ApplierConfig{}, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &service{
		config:       cfg,
		orchestrator: orchestrator,
		store:        store,
		index:        index,
		parser:       feedback.NewParser(),
		applier:      applier,
		aggregator:   aggregator,
		jargon:       jargon,
		logger:       logger.Named("triage"),
		tracer:       otel.Tracer(instrumentationName),
		meter:        otel.Meter(instrumentationName),
	}
	s.initMetrics()
	return s, nil
}

func (s *service) initMetrics() {
	var err error

	s.analyzeCounter, err = s.meter.Int64Counter(
		"mailroom.triage.analyses_total",
		metric.WithDescription("Total number of emails analyzed"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		s.logger.Warn("failed to create analyze counter", zap.Error(err))
	}

	s.feedbackCounter, err = s.meter.Int64Counter(
		"mailroom.triage.feedback_total",
		metric.WithDescription("Total number of feedback submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		s.logger.Warn("failed to create feedback counter", zap.Error(err))
	}
}

// Analyze runs the pipeline, stores the result, and folds it into the
// learning statistics.
func (s *service) Analyze(ctx context.Context, email analysis.Email, progress analysis.Progress) (*analysis.Result, error) {
	ctx, span := s.tracer.Start(ctx, "triage.analyze")
	defer span.End()

	result, err := s.orchestrator.Analyze(ctx, email, progress)
	if err != nil {
		return nil, err
	}

	s.store.Put(result)
	s.aggregator.RecordAnalysis(result, email.Industry)

	span.SetAttributes(
		attribute.String("result_id", result.ID),
		attribute.String("intent", result.Intent),
		attribute.Float64("confidence", result.Confidence),
	)
	if s.analyzeCounter != nil {
		s.analyzeCounter.Add(ctx, 1)
	}
	return result, nil
}

// AnalyzeBatch runs strictly sequentially: the learning metrics must reflect
// emails in submission order.
func (s *service) AnalyzeBatch(ctx context.Context, emails []analysis.Email, progress analysis.Progress) ([]*analysis.Result, error) {
	results := make([]*analysis.Result, 0, len(emails))
	for _, email := range emails {
		result, err := s.Analyze(ctx, email, progress)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// SubmitFeedback parses the message, applies all parsed corrections to the
// stored result in one atomic update, learns any jargon definitions, and
// records the batch. Feedback against an unknown result fails with
// ErrStaleTarget and changes nothing. A message matching no rule is still
// acknowledged with an empty outcome.
func (s *service) SubmitFeedback(ctx context.Context, resultID, message string) (*FeedbackOutcome, error) {
	_, span := s.tracer.Start(ctx, "triage.submit_feedback")
	defer span.End()

	parsed := s.parser.Parse(message)

	var (
		corrections []feedback.FieldCorrection
		updated     *analysis.Result
		err         error
	)
	if len(parsed.Corrections) > 0 {
		updated, err = s.store.Update(resultID, func(r *analysis.Result) error {
			var applyErr error
			corrections, applyErr = s.applier.Apply(r, parsed.Corrections)
			return applyErr
		})
	} else {
		updated, err = s.store.Get(resultID)
	}
	if err != nil {
		if errors.Is(err, analysis.ErrResultNotFound) {
			return nil, fmt.Errorf("%w: %s", feedback.ErrStaleTarget, resultID)
		}
		return nil, err
	}

	if s.jargon != nil {
		for _, entry := range parsed.Jargon {
			s.jargon.Learn(entry.Alias, entry.Meaning)
		}
	}
	s.aggregator.RecordFeedback(corrections, parsed.Jargon)

	span.SetAttributes(
		attribute.String("result_id", resultID),
		attribute.Int("corrections", len(corrections)),
		attribute.Int("jargon_learned", len(parsed.Jargon)),
	)
	if s.feedbackCounter != nil {
		s.feedbackCounter.Add(ctx, 1)
	}

	return &FeedbackOutcome{
		Corrections: corrections,
		Jargon:      parsed.Jargon,
		Result:      updated,
	}, nil
}

// Result returns a stored analysis result.
func (s *service) Result(ctx context.Context, resultID string) (*analysis.Result, error) {
	_, span := s.tracer.Start(ctx, "triage.result")
	defer span.End()
	return s.store.Get(resultID)
}

// Search queries the corpus index directly.
func (s *service) Search(ctx context.Context, query string, k int) ([]corpus.SearchResult, error) {
	_, span := s.tracer.Start(ctx, "triage.search")
	defer span.End()

	if k <= 0 || k > s.config.SearchTopK {
		k = s.config.SearchTopK
	}
	results := s.index.Search(query, k)
	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

// LearningMetrics returns a read-only copy of the running statistics.
func (s *service) LearningMetrics() learning.Metrics {
	return s.aggregator.Snapshot()
}
