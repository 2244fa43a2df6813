package market

import (
	"strings"
	"time"

	"crewinsight/internal/model"
)

// Collector fetches market data for one upstream source. A collector with
// no credentials or an unreachable upstream substitutes deterministic
// placeholder data instead of returning an error; an error return means
// the collector produced nothing usable and is dropped from the
// aggregation.
type Collector interface {
	Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error)
	Name() string
}

func newMarketData(source string, raw, processed map[string]any) model.MarketData {
	return model.MarketData{
		Source:        source,
		DataType:      "market_data",
		Timestamp:     time.Now(),
		RawData:       raw,
		ProcessedData: processed,
	}
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// symbolFor maps a sector name to a representative ticker.
func symbolFor(market string) string {
	switch normalize(market) {
	case "technology":
		return "AAPL"
	case "finance":
		return "JPM"
	case "healthcare":
		return "JNJ"
	case "energy":
		return "XOM"
	case "consumer":
		return "WMT"
	}
	return "SPY"
}
