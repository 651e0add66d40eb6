package triage

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
	"github.com/fyrsmithlabs/mailroom/internal/confidence"
	"github.com/fyrsmithlabs/mailroom/internal/corpus"
	"github.com/fyrsmithlabs/mailroom/internal/entity"
	"github.com/fyrsmithlabs/mailroom/internal/feedback"
	"github.com/fyrsmithlabs/mailroom/internal/intent"
	"github.com/fyrsmithlabs/mailroom/internal/learning"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
	"github.com/fyrsmithlabs/mailroom/internal/routing"
)

type testHarness struct {
	service Service
	store   *analysis.Store
	index   *corpus.Index
	jargon  *patterns.Dictionary
}

func newTestService(t *testing.T) *testHarness {
	t.Helper()

	library := patterns.NewDefaultLibrary()
	jargon := patterns.NewDictionary(patterns.DefaultJargon())
	index := corpus.NewIndex()
	store := analysis.NewStore()

	orchestrator := analysis.NewOrchestrator(
		analysis.Config{},
		intent.NewClassifier(nil, jargon),
		entity.NewExtractor(library, jargon),
		index,
		routing.NewTagger(routing.Config{}, library),
		confidence.NewScorer(confidence.Weights{}),
		nil,
	)

	svc, err := NewService(
		Config{},
		orchestrator,
		store,
		index,
		feedback.NewApplier(feedback.ApplierConfig{}, nil),
		learning.NewAggregator(prometheus.NewRegistry()),
		jargon,
		nil,
	)
	require.NoError(t, err)

	return &testHarness{service: svc, store: store, index: index, jargon: jargon}
}

func TestService_AnalyzeStoresResult(t *testing.T) {
	h := newTestService(t)

	result, err := h.service.Analyze(context.Background(), analysis.Email{
		Text:     "We need 50 pieces of 304 stainless steel pipe, Schedule 40, ASAP",
		Industry: "Manufacturing",
	}, nil)
	require.NoError(t, err)

	stored, err := h.service.Result(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Intent, stored.Intent)

	metrics := h.service.LearningMetrics()
	assert.Equal(t, 1, metrics.TotalProcessed)
	assert.Equal(t, 1, metrics.PerIndustryCounts["Manufacturing"])
}

func TestService_FeedbackPriorityCorrection(t *testing.T) {
	h := newTestService(t)

	result, err := h.service.Analyze(context.Background(), analysis.Email{
		Text: "Could you send pricing for carbon flanges?",
	}, nil)
	require.NoError(t, err)

	priority, _ := result.RoutingTags.Get("priority")
	require.Equal(t, routing.PriorityNormal, priority)

	outcome, err := h.service.SubmitFeedback(context.Background(), result.ID,
		"Priority should be High, not Normal")
	require.NoError(t, err)
	require.Len(t, outcome.Corrections, 1)
	assert.Equal(t, "routing_tags.priority", outcome.Corrections[0].Path)
	assert.Equal(t, routing.PriorityNormal, outcome.Corrections[0].OldValue)
	assert.Equal(t, routing.PriorityHigh, outcome.Corrections[0].NewValue)
	assert.Empty(t, outcome.Jargon)

	// The applied value reads back from the store.
	stored, err := h.service.Result(context.Background(), result.ID)
	require.NoError(t, err)
	updated, _ := stored.RoutingTags.Get("priority")
	assert.Equal(t, routing.PriorityHigh, updated)
	assert.GreaterOrEqual(t, stored.Confidence, result.Confidence)

	metrics := h.service.LearningMetrics()
	assert.Equal(t, 1, metrics.FeedbackIterations)
	assert.Greater(t, metrics.CumulativeConfidenceGain, 0.0)
}

func TestService_FeedbackLearnsJargon(t *testing.T) {
	h := newTestService(t)

	result, err := h.service.Analyze(context.Background(), analysis.Email{Text: "quote please"}, nil)
	require.NoError(t, err)

	outcome, err := h.service.SubmitFeedback(context.Background(), result.ID,
		"'CRES' means corrosion resistant steel")
	require.NoError(t, err)
	assert.Empty(t, outcome.Corrections)
	require.Len(t, outcome.Jargon, 1)
	assert.Equal(t, "cres", outcome.Jargon[0].Alias)

	meaning, ok := h.jargon.Lookup("cres")
	require.True(t, ok, "dictionary did not learn the alias")
	assert.Equal(t, "corrosion resistant steel", meaning)

	metrics := h.service.LearningMetrics()
	assert.Equal(t, "corrosion resistant steel", metrics.JargonDictionary["cres"])
}

func TestService_FeedbackStaleTarget(t *testing.T) {
	h := newTestService(t)

	_, err := h.service.SubmitFeedback(context.Background(), "no-such-result",
		"Priority should be High")
	require.ErrorIs(t, err, feedback.ErrStaleTarget)

	metrics := h.service.LearningMetrics()
	assert.Zero(t, metrics.FeedbackIterations, "rejected batch must not count")
}

func TestService_FeedbackUnmatchedAcknowledged(t *testing.T) {
	h := newTestService(t)

	result, err := h.service.Analyze(context.Background(), analysis.Email{Text: "hello there"}, nil)
	require.NoError(t, err)

	outcome, err := h.service.SubmitFeedback(context.Background(), result.ID, "looks good, thanks!")
	require.NoError(t, err)
	assert.Empty(t, outcome.Corrections)
	assert.Empty(t, outcome.Jargon)

	metrics := h.service.LearningMetrics()
	assert.Zero(t, metrics.FeedbackIterations, "empty batch must not count")
}

func TestService_BatchLearningProgression(t *testing.T) {
	h := newTestService(t)

	emails := []analysis.Email{
		{Text: "Order 20 steel plates", Industry: "Manufacturing"},
		{Text: "Purchase 5 valves", Industry: "Manufacturing"},
		{Text: "MRI maintenance quote", Industry: "Healthcare"},
	}
	results, err := h.service.AnalyzeBatch(context.Background(), emails, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	metrics := h.service.LearningMetrics()
	assert.Equal(t, 3, metrics.TotalProcessed)
	assert.Equal(t, map[string]int{"Manufacturing": 2, "Healthcare": 1}, metrics.PerIndustryCounts)
}

func TestService_SearchEmptyCorpus(t *testing.T) {
	h := newTestService(t)

	results, err := h.service.Search(context.Background(), "stainless pipe", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestService_Search(t *testing.T) {
	h := newTestService(t)
	h.index.Append(corpus.Document{
		Source: "products",
		Records: []corpus.Record{
			{Locator: 1, Fields: map[string]string{"name": "304 stainless steel pipe"}},
			{Locator: 2, Fields: map[string]string{"name": "carbon steel flange"}},
		},
	})

	results, err := h.service.Search(context.Background(), "stainless pipe", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].Chunk.Locator)
}
