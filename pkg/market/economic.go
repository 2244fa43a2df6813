package market

import (
	"crewinsight/internal/model"
)

// EconomicCollector supplies macro indicator context. There is no live
// upstream wired yet; the indicator set is synthetic either way.
// TODO: back this with FRED once a key is provisioned.
type EconomicCollector struct{}

func NewEconomicCollector() *EconomicCollector {
	return &EconomicCollector{}
}

func (c *EconomicCollector) Name() string {
	return "Economic Indicators"
}

func (c *EconomicCollector) Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error) {
	raw := map[string]any{
		"gdp_growth":        2.5,
		"inflation_rate":    3.2,
		"unemployment_rate": 4.1,
		"interest_rate":     5.25,
		"market_volatility": 18.5,
	}
	processed := map[string]any{
		"economic_health":    "moderate",
		"growth_trend":       "stable",
		"inflation_pressure": "moderate",
		"market_conditions":  "volatile",
		"key_risks":          []string{"inflation", "interest_rates"},
	}

	return []model.MarketData{newMarketData(c.Name(), raw, processed)}, nil
}
