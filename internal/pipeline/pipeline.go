package pipeline

import (
	"log/slog"
	"time"

	"crewinsight/internal/model"
	"crewinsight/internal/store"
	"crewinsight/internal/trend"
)

const (
	errNoData   = "No market data collected"
	errNoTrends = "No trends identified"
)

// ResultStore is the slice of the store the pipeline writes through.
type ResultStore interface {
	Update(id string, upd store.ResultUpdate) bool
}

// DataCollector is the collection fan-out (market.Manager).
type DataCollector interface {
	CollectAll(market string, region model.Region, timeframe model.Timeframe) []model.MarketData
}

// SummaryGenerator never fails outward; it falls back internally.
type SummaryGenerator interface {
	GenerateSummary(data []model.MarketData, trends []model.Trend, market string, region model.Region, timeframe model.Timeframe) string
}

// Runner drives one analysis job from processing to a terminal state.
// The job store is the only channel back to the caller: Start returns
// immediately and the pipeline runs on its own goroutine with no handle,
// no retry, and no cancellation.
type Runner struct {
	store      ResultStore
	collector  DataCollector
	summarizer SummaryGenerator
	analyze    func(data []model.MarketData, market string) []model.Trend
}

func NewRunner(store ResultStore, collector DataCollector, summarizer SummaryGenerator) *Runner {
	return &Runner{
		store:      store,
		collector:  collector,
		summarizer: summarizer,
		analyze:    trend.Analyze,
	}
}

func (r *Runner) Start(id string, req model.AnalysisRequest) {
	go r.run(id, req)
}

func (r *Runner) run(id string, req model.AnalysisRequest) {
	start := time.Now()
	slog.Info("starting analysis", "analysis_id", id, "market", req.Market)

	data := r.collector.CollectAll(req.Market, req.Region, req.Timeframe)
	if len(data) == 0 {
		r.fail(id, errNoData, start)
		return
	}
	r.store.Update(id, store.ResultUpdate{MarketData: data})
	slog.Info("collected market data", "analysis_id", id, "data_points", len(data))

	trends := r.analyze(data, req.Market)
	if len(trends) == 0 {
		r.fail(id, errNoTrends, start)
		return
	}
	r.store.Update(id, store.ResultUpdate{Trends: trends})
	slog.Info("identified trends", "analysis_id", id, "trends", len(trends))

	summary := r.summarizer.GenerateSummary(data, trends, req.Market, req.Region, req.Timeframe)

	elapsed := time.Since(start).Seconds()
	status := model.StatusCompleted
	r.store.Update(id, store.ResultUpdate{
		Status:         &status,
		Summary:        &summary,
		ProcessingTime: &elapsed,
	})

	slog.Info("analysis completed", "analysis_id", id, "processing_time", elapsed)
}

func (r *Runner) fail(id, message string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	status := model.StatusFailed
	r.store.Update(id, store.ResultUpdate{
		Status:         &status,
		ErrorMessage:   &message,
		ProcessingTime: &elapsed,
	})

	slog.Error("analysis failed", "analysis_id", id, "error", message)
}
