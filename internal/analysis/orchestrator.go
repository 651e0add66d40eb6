package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailroom/internal/confidence"
	"github.com/fyrsmithlabs/mailroom/internal/corpus"
	"github.com/fyrsmithlabs/mailroom/internal/entity"
	"github.com/fyrsmithlabs/mailroom/internal/fields"
	"github.com/fyrsmithlabs/mailroom/internal/intent"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
	"github.com/fyrsmithlabs/mailroom/internal/routing"
)

// Config configures the orchestrator.
type Config struct {
	// StageDelay is a cosmetic pause between stages so progress is visible
	// to interactive callers. It has no correctness role; zero disables it.
	StageDelay time.Duration `koanf:"stage_delay"`
}

// Orchestrator runs the analysis pipeline. One instance serves any number
// of emails: per-run state lives on the stack, and the pattern library and
// corpus index it reads are immutable, so concurrent Analyze calls are safe.
type Orchestrator struct {
	config     Config
	classifier *intent.Classifier
	extractor  *entity.Extractor
	index      *corpus.Index
	tagger     *routing.Tagger
	scorer     *confidence.Scorer
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrchestrator wires the pipeline components. A nil logger uses a no-op
// logger.
func NewOrchestrator(
	cfg Config,
	classifier *intent.Classifier,
	extractor *entity.Extractor,
	index *corpus.Index,
	tagger *routing.Tagger,
	scorer *confidence.Scorer,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		config:     cfg,
		classifier: classifier,
		extractor:  extractor,
		index:      index,
		tagger:     tagger,
		scorer:     scorer,
		logger:     logger.Named("analysis"),
		now:        time.Now,
	}
}

// Analyze runs the full pipeline for one email. Stages execute strictly
// sequentially; ctx is checked between stages and cancellation simply
// discards the partial state. Empty email text is recovered locally into a
// default result at the confidence floor, never an error.
func (o *Orchestrator) Analyze(ctx context.Context, email Email, progress Progress) (*Result, error) {
	start := o.now()

	if email.ID == "" {
		email.ID = uuid.NewString()
	}

	if strings.TrimSpace(email.Text) == "" {
		o.logger.Warn("empty email text, returning default result", zap.String("email_id", email.ID))
		return o.degenerateResult(email, start), nil
	}

	var (
		intentResult intent.Result
		entities     *fields.Map
		match        *corpus.Match
		matched      bool
		tags         *fields.Map
		final        float64
	)

	for i, stage := range PipelineStages() {
		if err := ctx.Err(); err != nil {
			o.logger.Debug("analysis cancelled",
				zap.String("email_id", email.ID),
				zap.String("stage", string(stage)),
			)
			return nil, err
		}

		switch stage {
		case StageClassifying:
			intentResult = o.classifier.Classify(email.Text)
		case StageExtracting:
			entities = o.extractor.Extract(email.Text)
		case StageRetrieving:
			match, matched = o.index.BestMatch(buildQuery(entities, email.Text))
		case StageRouting:
			tags = o.tagger.Tag(intentResult.Label, email.Text, entities)
		case StageScoring:
			matchScore := 0.0
			if matched {
				matchScore = match.Score
			}
			final = o.scorer.Final(matchScore, entities.Len() > 0)
		}

		if progress != nil {
			progress(stage, o.scorer.StageProgress(i+1))
		}
		if o.config.StageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.StageDelay):
			}
		}
	}

	completed := o.now()
	result := &Result{
		ID:               uuid.NewString(),
		EmailID:          email.ID,
		Intent:           intentResult.Label,
		IntentRule:       intentResult.Rule,
		Entities:         entities,
		RoutingTags:      tags,
		KnowledgeMatch:   match,
		Confidence:       final,
		ProcessingTimeMs: completed.Sub(start).Milliseconds(),
		PatternVersion:   patterns.Version,
		CompletedAt:      completed,
	}
	if progress != nil {
		progress(StageComplete, final)
	}

	o.logger.Info("analysis complete",
		zap.String("email_id", email.ID),
		zap.String("result_id", result.ID),
		zap.String("intent", result.Intent),
		zap.Int("entity_categories", entities.Len()),
		zap.Bool("knowledge_match", matched),
		zap.Float64("confidence", final),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs),
	)
	return result, nil
}

// degenerateResult is the recovered form of invalid input: a default
// classification at the confidence floor.
func (o *Orchestrator) degenerateResult(email Email, start time.Time) *Result {
	tags := o.tagger.Tag(intent.GeneralInquiry, "", nil)
	completed := o.now()
	return &Result{
		ID:               uuid.NewString(),
		EmailID:          email.ID,
		Intent:           intent.GeneralInquiry,
		IntentRule:       "default",
		Entities:         fields.New(),
		RoutingTags:      tags,
		Confidence:       o.scorer.DegenerateInput(),
		ProcessingTimeMs: completed.Sub(start).Milliseconds(),
		PatternVersion:   patterns.Version,
		CompletedAt:      completed,
	}
}

// buildQuery joins extracted entity values into the retrieval query, falling
// back to the raw text terms when nothing was extracted.
func buildQuery(entities *fields.Map, text string) string {
	var parts []string
	if entities != nil {
		for _, value := range entities.Values() {
			switch v := value.(type) {
			case []string:
				parts = append(parts, v...)
			case string:
				parts = append(parts, v)
			case *fields.Map:
				for _, nested := range v.Values() {
					if s, ok := nested.(string); ok {
						parts = append(parts, s)
					}
				}
			}
		}
	}
	if len(parts) == 0 {
		return patterns.Normalize(text)
	}
	return strings.Join(parts, " ")
}
