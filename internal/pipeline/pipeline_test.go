package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"crewinsight/internal/model"
	"crewinsight/internal/store"
	"crewinsight/pkg/llm"
	"crewinsight/pkg/market"
)

type fakeCollector struct {
	data []model.MarketData
}

func (f *fakeCollector) CollectAll(m string, r model.Region, tf model.Timeframe) []model.MarketData {
	return f.data
}

type fakeSummarizer struct {
	summary string
}

func (f *fakeSummarizer) GenerateSummary(data []model.MarketData, trends []model.Trend, m string, r model.Region, tf model.Timeframe) string {
	return f.summary
}

func testRequest() model.AnalysisRequest {
	return model.AnalysisRequest{
		Market:    "technology",
		Region:    model.RegionUS,
		Timeframe: model.TimeframeMonthly,
	}
}

func sentimentPoint() model.MarketData {
	return model.MarketData{
		Source:   "Financial News",
		DataType: "market_data",
		ProcessedData: map[string]any{
			"sentiment_trend": "positive",
			"avg_sentiment":   0.3,
			"news_volume":     15,
			"top_themes":      []string{"earnings"},
		},
	}
}

func TestRunCompletes(t *testing.T) {
	s := store.New(10, 24)
	id := s.Create(testRequest())

	r := NewRunner(s,
		&fakeCollector{data: []model.MarketData{sentimentPoint()}},
		&fakeSummarizer{summary: "a short report"})
	r.run(id, testRequest())

	rec, ok := s.Get(id)
	assert.Equal(t, true, ok)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, "a short report", rec.Summary)
	assert.Equal(t, 1, len(rec.MarketData))
	assert.NotEqual(t, 0, len(rec.Trends))
	assert.NotEqual(t, nil, rec.CompletedAt)
	assert.NotEqual(t, nil, rec.ProcessingTime)
	assert.Equal(t, "", rec.ErrorMessage)
}

func TestRunFailsOnEmptyCollection(t *testing.T) {
	s := store.New(10, 24)
	id := s.Create(testRequest())

	r := NewRunner(s, &fakeCollector{}, &fakeSummarizer{summary: "unused"})
	r.run(id, testRequest())

	rec, ok := s.Get(id)
	assert.Equal(t, true, ok)
	assert.Equal(t, model.StatusFailed, rec.Status)
	assert.Equal(t, "No market data collected", rec.ErrorMessage)
	assert.Equal(t, nil, rec.CompletedAt)
	assert.NotEqual(t, nil, rec.ProcessingTime)
	assert.Equal(t, "", rec.Summary)
}

func TestRunFailsOnZeroTrends(t *testing.T) {
	s := store.New(10, 24)
	id := s.Create(testRequest())

	r := NewRunner(s,
		&fakeCollector{data: []model.MarketData{sentimentPoint()}},
		&fakeSummarizer{summary: "unused"})
	r.analyze = func(data []model.MarketData, market string) []model.Trend { return nil }
	r.run(id, testRequest())

	rec, _ := s.Get(id)
	assert.Equal(t, model.StatusFailed, rec.Status)
	assert.Equal(t, "No trends identified", rec.ErrorMessage)
}

// recordingStore counts status transitions issued by the runner.
type recordingStore struct {
	statusUpdates []string
	updates       int
}

func (r *recordingStore) Update(id string, upd store.ResultUpdate) bool {
	r.updates++
	if upd.Status != nil {
		r.statusUpdates = append(r.statusUpdates, *upd.Status)
	}
	return true
}

func TestRunIssuesExactlyOneTerminalTransition(t *testing.T) {
	rs := &recordingStore{}
	r := NewRunner(rs,
		&fakeCollector{data: []model.MarketData{sentimentPoint()}},
		&fakeSummarizer{summary: "done"})
	r.run("job-1", testRequest())

	assert.Equal(t, []string{model.StatusCompleted}, rs.statusUpdates)

	rs = &recordingStore{}
	r = NewRunner(rs, &fakeCollector{}, &fakeSummarizer{})
	r.run("job-2", testRequest())

	assert.Equal(t, []string{model.StatusFailed}, rs.statusUpdates)
	assert.Equal(t, 1, rs.updates)
}

func TestStartIsAsynchronous(t *testing.T) {
	s := store.New(10, 24)
	id := s.Create(testRequest())

	r := NewRunner(s,
		&fakeCollector{data: []model.MarketData{sentimentPoint()}},
		&fakeSummarizer{summary: "async"})
	r.Start(id, testRequest())

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec, _ := s.Get(id)
		if rec != nil && rec.Status != model.StatusProcessing {
			assert.Equal(t, model.StatusCompleted, rec.Status)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("pipeline did not reach a terminal state in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// End-to-end placeholder scenario: no provider credentials anywhere, the
// pipeline still completes on placeholder data alone.
func TestRunWithPlaceholderCollectors(t *testing.T) {
	s := store.New(10, 24)
	id := s.Create(testRequest())

	manager := market.NewManager(
		market.NewAlphaVantageCollector("", 30*time.Second),
		market.NewNewsCollector("", 30*time.Second),
		market.NewEconomicCollector(),
		market.NewFinnhubCollector(""),
	)
	summarizer := llm.NewMarketSummarizer(nil)

	r := NewRunner(s, manager, summarizer)
	r.run(id, testRequest())

	rec, ok := s.Get(id)
	assert.Equal(t, true, ok)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.NotEqual(t, 0, len(rec.Trends))
	assert.NotEqual(t, "", rec.Summary)

	words := len(strings.Fields(rec.Summary))
	if words > 301 {
		t.Fatalf("summary too long: %d words", words)
	}
}
