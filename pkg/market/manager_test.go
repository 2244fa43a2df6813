package market

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"crewinsight/internal/model"
)

type stubCollector struct {
	name string
	data []model.MarketData
	err  error
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error) {
	return s.data, s.err
}

func point(source, label string) model.MarketData {
	return newMarketData(source, map[string]any{"label": label}, map[string]any{"label": label})
}

func labels(data []model.MarketData) []string {
	out := make([]string, len(data))
	for i, d := range data {
		out[i] = d.ProcessedData["label"].(string)
	}
	return out
}

func TestCollectAllConcatsInRegistrationOrder(t *testing.T) {
	m := NewManager(
		&stubCollector{name: "a", data: []model.MarketData{point("a", "a1"), point("a", "a2")}},
		&stubCollector{name: "b", data: []model.MarketData{point("b", "b1")}},
		&stubCollector{name: "c", data: []model.MarketData{point("c", "c1")}},
	)

	got := m.CollectAll("technology", model.RegionUS, model.TimeframeMonthly)
	assert.Equal(t, []string{"a1", "a2", "b1", "c1"}, labels(got))
}

func TestCollectAllDropsFailedCollectors(t *testing.T) {
	m := NewManager(
		&stubCollector{name: "a", err: errors.New("upstream down")},
		&stubCollector{name: "b", data: []model.MarketData{point("b", "b1"), point("b", "b2")}},
		&stubCollector{name: "c", err: errors.New("timeout")},
	)

	got := m.CollectAll("technology", model.RegionUS, model.TimeframeMonthly)
	assert.Equal(t, []string{"b1", "b2"}, labels(got))
}

func TestCollectAllAllFailed(t *testing.T) {
	m := NewManager(
		&stubCollector{name: "a", err: errors.New("boom")},
		&stubCollector{name: "b", err: errors.New("boom")},
		&stubCollector{name: "c", err: errors.New("boom")},
	)

	got := m.CollectAll("technology", model.RegionUS, model.TimeframeMonthly)
	assert.Equal(t, 0, len(got))
}
