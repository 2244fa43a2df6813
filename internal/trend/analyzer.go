package trend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"crewinsight/internal/model"
)

const (
	minConfidence = 0.3
	maxTrends     = 5
)

// rule inspects the collected data and emits at most one trend. Rules
// are pure; the battery order is fixed so ties in confidence rank
// deterministically.
type rule func(data []model.MarketData, market string) *model.Trend

var battery = []rule{
	priceMomentumRule,
	volatilityRule,
	sentimentRule,
	newsVolumeRule,
	economicHealthRule,
	marketConditionsRule,
	valuationRule,
	sectorDefaultRule,
}

// Analyze runs the full rule battery over the collected data, drops
// low-confidence trends, and returns at most maxTrends ranked by
// confidence, highest first.
func Analyze(data []model.MarketData, market string) []model.Trend {
	var pool []model.Trend
	for _, r := range battery {
		if t := r(data, market); t != nil {
			pool = append(pool, *t)
		}
	}

	var kept []model.Trend
	for _, t := range pool {
		if t.Confidence >= minConfidence {
			kept = append(kept, t)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	if len(kept) > maxTrends {
		kept = kept[:maxTrends]
	}
	return kept
}

// firstWith returns the processed fields of the first data point that
// carries the given key.
func firstWith(data []model.MarketData, key string) map[string]any {
	for _, d := range data {
		if _, ok := d.ProcessedData[key]; ok {
			return d.ProcessedData
		}
	}
	return nil
}

func priceMomentumRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "price_trend")
	if p == nil {
		return nil
	}

	change := getFloat(p, "price_change_percent")
	supporting := []string{
		fmt.Sprintf("Price change: %.2f%%", change),
		fmt.Sprintf("Volatility: %.2f%%", getFloat(p, "volatility")),
	}
	confidence := clamp(abs(change)/10, 0.9)

	switch getString(p, "price_trend") {
	case "up":
		return &model.Trend{
			TrendName:      "Positive Price Momentum",
			Description:    fmt.Sprintf("Market showing upward price movement with %.2f%% change", change),
			Confidence:     confidence,
			SupportingData: supporting,
			Impact:         model.ImpactPositive,
		}
	case "down":
		return &model.Trend{
			TrendName:      "Negative Price Momentum",
			Description:    fmt.Sprintf("Market showing downward price movement with %.2f%% change", change),
			Confidence:     confidence,
			SupportingData: supporting,
			Impact:         model.ImpactNegative,
		}
	}
	return nil
}

func volatilityRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "volatility")
	if p == nil {
		return nil
	}

	vol := getFloat(p, "volatility")
	if vol <= 20 {
		return nil
	}

	return &model.Trend{
		TrendName:   "High Market Volatility",
		Description: fmt.Sprintf("Market experiencing high volatility at %.2f%%", vol),
		Confidence:  clamp(vol/30, 0.8),
		SupportingData: []string{
			fmt.Sprintf("Volatility level: %.2f%%", vol),
			fmt.Sprintf("Data points analyzed: %d", getInt(p, "data_points")),
		},
		Impact: model.ImpactNeutral,
	}
}

func sentimentRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "sentiment_trend")
	if p == nil {
		return nil
	}

	avg := getFloat(p, "avg_sentiment")
	volume := getInt(p, "news_volume")
	supporting := []string{
		fmt.Sprintf("Average sentiment score: %.3f", avg),
		fmt.Sprintf("News volume: %d articles", volume),
		"Top themes: " + strings.Join(headStrings(getStrings(p, "top_themes"), 3), ", "),
	}

	switch {
	case getString(p, "sentiment_trend") == "positive" && avg > 0.2:
		return &model.Trend{
			TrendName:      "Positive Market Sentiment",
			Description:    fmt.Sprintf("Strong positive sentiment in news coverage with %d articles analyzed", volume),
			Confidence:     clamp(avg*2, 0.9),
			SupportingData: supporting,
			Impact:         model.ImpactPositive,
		}
	case getString(p, "sentiment_trend") == "negative" && avg < -0.2:
		return &model.Trend{
			TrendName:      "Negative Market Sentiment",
			Description:    fmt.Sprintf("Negative sentiment in news coverage with %d articles analyzed", volume),
			Confidence:     clamp(abs(avg)*2, 0.9),
			SupportingData: supporting,
			Impact:         model.ImpactNegative,
		}
	}
	return nil
}

func newsVolumeRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "news_volume")
	if p == nil {
		return nil
	}

	volume := getInt(p, "news_volume")
	if volume <= 50 {
		return nil
	}

	return &model.Trend{
		TrendName:   "High News Volume",
		Description: fmt.Sprintf("Significant media attention with %d articles in the timeframe", volume),
		Confidence:  clamp(float64(volume)/100, 0.7),
		SupportingData: []string{
			fmt.Sprintf("Article count: %d", volume),
			"Sentiment trend: " + getString(p, "sentiment_trend"),
		},
		Impact: model.ImpactNeutral,
	}
}

func economicHealthRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "economic_health")
	if p == nil {
		return nil
	}

	switch getString(p, "economic_health") {
	case "good":
		return &model.Trend{
			TrendName:   "Strong Economic Fundamentals",
			Description: "Economic indicators show positive fundamentals supporting market growth",
			Confidence:  0.8,
			SupportingData: []string{
				"Economic health: good",
				"Growth trend: " + getString(p, "growth_trend"),
				"Key risks: " + strings.Join(getStrings(p, "key_risks"), ", "),
			},
			Impact: model.ImpactPositive,
		}
	case "moderate":
		return &model.Trend{
			TrendName:   "Mixed Economic Signals",
			Description: "Economic indicators show mixed signals with moderate growth prospects",
			Confidence:  0.6,
			SupportingData: []string{
				"Economic health: moderate",
				"Growth trend: " + getString(p, "growth_trend"),
				"Market conditions: " + getString(p, "market_conditions"),
			},
			Impact: model.ImpactNeutral,
		}
	}
	return nil
}

func marketConditionsRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "market_conditions")
	if p == nil || getString(p, "market_conditions") != "volatile" {
		return nil
	}

	return &model.Trend{
		TrendName:   "Volatile Market Conditions",
		Description: "Economic indicators suggest increased market volatility",
		Confidence:  0.7,
		SupportingData: []string{
			"Market conditions: volatile",
			"Inflation pressure: " + getString(p, "inflation_pressure"),
			"Key risks: " + strings.Join(getStrings(p, "key_risks"), ", "),
		},
		Impact: model.ImpactNegative,
	}
}

func valuationRule(data []model.MarketData, market string) *model.Trend {
	p := firstWith(data, "sector")
	if p == nil {
		return nil
	}

	pe, ok := parseFloat(p["pe_ratio"])
	if !ok {
		return nil
	}

	sector := getString(p, "sector")
	if sector == "" {
		sector = titleCase(market)
	}
	supporting := []string{
		fmt.Sprintf("P/E ratio: %v", pe),
		"Sector: " + sector,
		"Market cap: " + getString(p, "market_cap"),
	}

	switch {
	case pe > 30:
		return &model.Trend{
			TrendName:      "High Valuation Sector",
			Description:    fmt.Sprintf("%s sector showing high valuations with P/E ratio of %v", sector, pe),
			Confidence:     0.7,
			SupportingData: supporting,
			Impact:         model.ImpactNeutral,
		}
	case pe < 15:
		return &model.Trend{
			TrendName:      "Undervalued Sector Opportunity",
			Description:    fmt.Sprintf("%s sector appears undervalued with P/E ratio of %v", sector, pe),
			Confidence:     0.6,
			SupportingData: supporting,
			Impact:         model.ImpactPositive,
		}
	}
	return nil
}

// sectorDefaultRule always emits a baseline trend keyed off the sector
// name so the pipeline has something to rank even on sparse data.
func sectorDefaultRule(data []model.MarketData, market string) *model.Trend {
	lower := strings.ToLower(market)

	switch {
	case strings.Contains(lower, "tech"):
		return &model.Trend{
			TrendName:   "Technology Innovation Drive",
			Description: "Technology sector continues to drive innovation with strong growth potential",
			Confidence:  0.8,
			SupportingData: []string{
				"High R&D investment",
				"Digital transformation acceleration",
				"AI and automation adoption",
			},
			Impact: model.ImpactPositive,
		}
	case strings.Contains(lower, "financ"):
		return &model.Trend{
			TrendName:   "Financial Services Evolution",
			Description: "Financial services sector adapting to digital transformation and regulatory changes",
			Confidence:  0.7,
			SupportingData: []string{
				"Fintech disruption",
				"Regulatory compliance focus",
				"Interest rate sensitivity",
			},
			Impact: model.ImpactNeutral,
		}
	case strings.Contains(lower, "health"):
		return &model.Trend{
			TrendName:   "Healthcare Innovation Growth",
			Description: "Healthcare sector benefiting from innovation and demographic trends",
			Confidence:  0.8,
			SupportingData: []string{
				"Aging population",
				"Medical technology advances",
				"Regulatory approval pipeline",
			},
			Impact: model.ImpactPositive,
		}
	case strings.Contains(lower, "energy"):
		return &model.Trend{
			TrendName:   "Energy Transition Impact",
			Description: "Energy sector navigating transition to renewable sources",
			Confidence:  0.7,
			SupportingData: []string{
				"Renewable energy growth",
				"Fossil fuel transition",
				"Geopolitical factors",
			},
			Impact: model.ImpactNeutral,
		}
	}

	return &model.Trend{
		TrendName:   "Sector-Specific Opportunities",
		Description: fmt.Sprintf("%s sector showing sector-specific growth opportunities", titleCase(market)),
		Confidence:  0.6,
		SupportingData: []string{
			"Market-specific factors",
			"Regional economic conditions",
			"Industry dynamics",
		},
		Impact: model.ImpactPositive,
	}
}

func clamp(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	if v < 0 {
		return 0
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func getFloat(m map[string]any, key string) float64 {
	f, _ := parseFloat(m[key])
	return f
}

func getInt(m map[string]any, key string) int {
	f, _ := parseFloat(m[key])
	return int(f)
}

func parseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func getStrings(m map[string]any, key string) []string {
	switch x := m[key].(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, v := range x {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func headStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
