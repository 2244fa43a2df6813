package market

import (
	"log/slog"
	"sync"

	"crewinsight/internal/model"
)

// Manager fans a collection request out to every registered collector
// and joins the results.
type Manager struct {
	collectors []Collector
}

func NewManager(collectors ...Collector) *Manager {
	return &Manager{collectors: collectors}
}

// CollectAll runs every collector concurrently and waits for all of them
// to finish. A failed collector is logged and dropped; the surviving
// outputs are concatenated in registration order, each collector's own
// ordering preserved. If every collector fails the result is empty.
func (m *Manager) CollectAll(market string, region model.Region, timeframe model.Timeframe) []model.MarketData {
	results := make([][]model.MarketData, len(m.collectors))
	errs := make([]error, len(m.collectors))

	var wg sync.WaitGroup
	for i, collector := range m.collectors {
		wg.Add(1)
		go func(i int, collector Collector) {
			defer wg.Done()
			results[i], errs[i] = collector.Collect(market, region, timeframe)
		}(i, collector)
	}
	wg.Wait()

	var all []model.MarketData
	for i, collector := range m.collectors {
		if errs[i] != nil {
			slog.Error("data collector failed", "collector", collector.Name(), "error", errs[i])
			continue
		}
		all = append(all, results[i]...)
	}

	slog.Info("data collection finished", "data_points", len(all), "collectors", len(m.collectors))
	return all
}
