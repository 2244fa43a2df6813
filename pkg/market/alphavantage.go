package market

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"crewinsight/internal/model"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantageCollector pulls a company overview and a price time series
// for the symbol standing in for the requested sector.
type AlphaVantageCollector struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageCollector(apiKey string, timeout time.Duration) *AlphaVantageCollector {
	return &AlphaVantageCollector{
		apiKey:     apiKey,
		baseURL:    alphaVantageURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *AlphaVantageCollector) Name() string {
	return "Alpha Vantage"
}

func (c *AlphaVantageCollector) Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error) {
	if c.apiKey == "" {
		slog.Warn("Alpha Vantage API key not provided, using placeholder data")
		return c.placeholderData(market), nil
	}

	var results []model.MarketData

	overview, err := c.fetchOverview(market)
	if err != nil {
		slog.Error("error fetching Alpha Vantage overview", "error", err)
	} else if overview != nil {
		results = append(results, *overview)
	}

	timeseries, err := c.fetchTimeseries(market, timeframe)
	if err != nil {
		slog.Error("error fetching Alpha Vantage timeseries", "error", err)
	} else if timeseries != nil {
		results = append(results, *timeseries)
	}

	if len(results) == 0 {
		return c.placeholderData(market), nil
	}
	return results, nil
}

func (c *AlphaVantageCollector) fetchOverview(market string) (*model.MarketData, error) {
	url := fmt.Sprintf("%s?function=OVERVIEW&symbol=%s&apikey=%s", c.baseURL, symbolFor(market), c.apiKey)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage overview fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage overview decode: %w", err)
	}

	if msg, ok := raw["Error Message"].(string); ok {
		return nil, fmt.Errorf("alphavantage overview: %s", msg)
	}

	description, _ := raw["Description"].(string)
	if len(description) > 500 {
		description = description[:500]
	}

	processed := map[string]any{
		"market_cap":  raw["MarketCapitalization"],
		"pe_ratio":    raw["PERatio"],
		"sector":      raw["Sector"],
		"industry":    raw["Industry"],
		"description": description,
	}

	data := newMarketData(c.Name(), raw, processed)
	return &data, nil
}

func (c *AlphaVantageCollector) fetchTimeseries(market string, timeframe model.Timeframe) (*model.MarketData, error) {
	function := "TIME_SERIES_DAILY"
	switch timeframe {
	case model.TimeframeWeekly:
		function = "TIME_SERIES_WEEKLY"
	case model.TimeframeMonthly:
		function = "TIME_SERIES_MONTHLY"
	}

	url := fmt.Sprintf("%s?function=%s&symbol=%s&outputsize=compact&apikey=%s",
		c.baseURL, function, symbolFor(market), c.apiKey)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage timeseries fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage timeseries decode: %w", err)
	}

	if msg, ok := raw["Error Message"].(string); ok {
		return nil, fmt.Errorf("alphavantage timeseries: %s", msg)
	}

	prices := closingPrices(raw)
	if len(prices) < 2 {
		return nil, fmt.Errorf("alphavantage timeseries: not enough data points")
	}

	newest, oldest := prices[0], prices[len(prices)-1]
	trend := "down"
	if newest > oldest {
		trend = "up"
	}

	processed := map[string]any{
		"price_trend":          trend,
		"price_change_percent": (newest - oldest) / oldest * 100,
		"volatility":           volatility(prices),
		"data_points":          len(prices),
	}

	data := newMarketData(c.Name(), raw, processed)
	return &data, nil
}

// closingPrices extracts closes from whichever time-series block the
// response carries, newest date first.
func closingPrices(raw map[string]any) []float64 {
	var series map[string]any
	for key, value := range raw {
		if key == "Meta Data" {
			continue
		}
		if m, ok := value.(map[string]any); ok {
			series = m
			break
		}
	}
	if series == nil {
		return nil
	}

	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var prices []float64
	for _, date := range dates {
		day, ok := series[date].(map[string]any)
		if !ok {
			continue
		}
		closeStr, ok := day["4. close"].(string)
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		prices = append(prices, price)
	}
	return prices
}

// volatility is the standard deviation of day-over-day returns, as a
// percentage.
func volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	if len(returns) > 1 {
		variance /= float64(len(returns) - 1)
	}

	return math.Sqrt(variance) * 100
}

func (c *AlphaVantageCollector) placeholderData(market string) []model.MarketData {
	symbol := symbolFor(market)
	title := titleCase(market)

	overviewRaw := map[string]any{
		"Symbol":               symbol,
		"Name":                 title + " Sector",
		"Sector":               title,
		"MarketCapitalization": "1000000000",
		"PERatio":              "25.5",
		"Description":          "Placeholder data for " + market + " sector analysis",
	}
	overviewProcessed := map[string]any{
		"market_cap":  "1B",
		"pe_ratio":    "25.5",
		"sector":      title,
		"industry":    title + " Industry",
		"description": "Placeholder data for " + market + " sector analysis",
	}

	timeseriesRaw := map[string]any{
		"Meta Data": map[string]any{"Symbol": symbol},
		"Time Series": map[string]any{
			"2024-01-01": map[string]any{"4. close": "150.00"},
			"2024-01-02": map[string]any{"4. close": "152.50"},
			"2024-01-03": map[string]any{"4. close": "151.25"},
		},
	}
	timeseriesProcessed := map[string]any{
		"price_trend":          "up",
		"price_change_percent": 0.83,
		"volatility":           1.2,
		"data_points":          3,
	}

	return []model.MarketData{
		newMarketData(c.Name(), overviewRaw, overviewProcessed),
		newMarketData(c.Name(), timeseriesRaw, timeseriesProcessed),
	}
}
