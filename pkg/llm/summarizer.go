package llm

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crewinsight/internal/model"
)

const maxSummaryWords = 300

// MarketSummarizer turns collected data and derived trends into a short
// prose report. The provider call is best effort: any failure falls back
// to a local deterministic renderer, so summarization itself never fails
// a job.
type MarketSummarizer struct {
	provider Provider
	now      func() time.Time
}

func NewMarketSummarizer(provider Provider) *MarketSummarizer {
	return &MarketSummarizer{provider: provider, now: time.Now}
}

func (s *MarketSummarizer) GenerateSummary(data []model.MarketData, trends []model.Trend, market string, region model.Region, timeframe model.Timeframe) string {
	if s.provider != nil {
		prompt := buildPrompt(data, trends, market, region, timeframe)
		summary, err := s.provider.Complete(prompt)
		if err == nil {
			slog.Info("generated summary", "provider", s.provider.Name(), "market", market)
			return truncateWords(summary, maxSummaryWords)
		}
		slog.Error("error generating summary, using fallback", "provider", s.provider.Name(), "error", err)
	}

	return truncateWords(s.renderFallback(data, trends, market, region, timeframe), maxSummaryWords)
}

// Probe reports provider connectivity for the health endpoint. Without a
// configured provider every summary is rendered locally, which is a
// degraded but healthy state.
func (s *MarketSummarizer) Probe() error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Probe()
}

func (s *MarketSummarizer) ProviderName() string {
	if s.provider == nil {
		return "fallback"
	}
	return s.provider.Name()
}

var impactMarkers = map[string]string{
	model.ImpactPositive: "📈",
	model.ImpactNegative: "📉",
	model.ImpactNeutral:  "➡️",
}

func buildPrompt(data []model.MarketData, trends []model.Trend, market string, region model.Region, timeframe model.Timeframe) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("Market Analysis: %s sector in %s region over %s timeframe", titleCase(market), region, timeframe),
		"",
		"Data Sources:")
	for _, d := range data {
		lines = append(lines, fmt.Sprintf("- %s: %s", d.Source, sourceDigest(d)))
	}

	lines = append(lines, "", "Key Trends Identified:")
	for i, t := range trends {
		marker := impactMarkers[t.Impact]
		if marker == "" {
			marker = impactMarkers[model.ImpactNeutral]
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s (Confidence: %.1f%%)", i+1, marker, t.TrendName, t.Confidence*100))
		lines = append(lines, "   "+t.Description)
		if len(t.SupportingData) > 0 {
			lines = append(lines, "   Supporting data: "+strings.Join(headStrings(t.SupportingData, 3), ", "))
		}
	}

	lines = append(lines, "",
		"Please provide a concise business summary (max 300 words) that:",
		"1. Highlights the most important trends and their implications",
		"2. Provides actionable insights for business decision-making",
		"3. Uses clear, professional language suitable for executives",
		"4. Focuses on practical implications rather than technical details")

	return strings.Join(lines, "\n")
}

// sourceDigest condenses one data point into a single prompt line.
func sourceDigest(d model.MarketData) string {
	p := d.ProcessedData
	switch {
	case has(p, "price_trend"):
		return fmt.Sprintf("Price trend: %s, Volatility: %.1f%%", pstring(p, "price_trend"), pfloat(p, "volatility"))
	case has(p, "sentiment_trend"):
		return fmt.Sprintf("Sentiment: %s, Articles: %d", pstring(p, "sentiment_trend"), pint(p, "news_volume"))
	case has(p, "economic_health"):
		return fmt.Sprintf("Economic health: %s, Growth: %s", pstring(p, "economic_health"), pstring(p, "growth_trend"))
	}
	return fmt.Sprintf("Data points: %d", len(p))
}

func (s *MarketSummarizer) renderFallback(data []model.MarketData, trends []model.Trend, market string, region model.Region, timeframe model.Timeframe) string {
	slog.Info("generating fallback summary", "market", market)

	var lines []string

	lines = append(lines,
		fmt.Sprintf("Market Analysis Summary: %s Sector", titleCase(market)),
		fmt.Sprintf("Region: %s | Timeframe: %s", region, timeframe),
		"",
		"Key Findings:")

	positive := filterByImpact(trends, model.ImpactPositive)
	negative := filterByImpact(trends, model.ImpactNegative)
	neutral := filterByImpact(trends, model.ImpactNeutral)

	if len(positive) > 0 {
		lines = append(lines, "📈 Positive Trends:")
		for _, t := range headTrends(positive, 2) {
			lines = append(lines, fmt.Sprintf("• %s: %s", t.TrendName, t.Description))
		}
	}
	if len(negative) > 0 {
		lines = append(lines, "📉 Areas of Concern:")
		for _, t := range headTrends(negative, 2) {
			lines = append(lines, fmt.Sprintf("• %s: %s", t.TrendName, t.Description))
		}
	}
	if len(neutral) > 0 {
		lines = append(lines, "➡️ Neutral Observations:")
		for _, t := range headTrends(neutral, 1) {
			lines = append(lines, fmt.Sprintf("• %s: %s", t.TrendName, t.Description))
		}
	}

	lines = append(lines, "", "Data Insights:")
	for _, d := range data {
		p := d.ProcessedData
		switch {
		case has(p, "price_trend"):
			lines = append(lines, fmt.Sprintf("• Price movement: %s (%.2f%%)", pstring(p, "price_trend"), pfloat(p, "price_change_percent")))
		case has(p, "sentiment_trend"):
			lines = append(lines, fmt.Sprintf("• Market sentiment: %s based on %d articles", pstring(p, "sentiment_trend"), pint(p, "news_volume")))
		case has(p, "economic_health"):
			lines = append(lines, fmt.Sprintf("• Economic health: %s with %s growth trend", pstring(p, "economic_health"), pstring(p, "growth_trend")))
		}
	}

	lines = append(lines, "", "Recommendations:")
	if hasHighConfidence(trends, 0.7) {
		lines = append(lines, "• Monitor high-confidence trends closely for strategic planning")
	}
	if len(positive) > 0 {
		lines = append(lines, "• Consider capitalizing on positive market momentum")
	}
	if len(negative) > 0 {
		lines = append(lines, "• Develop risk mitigation strategies for identified concerns")
	}
	lines = append(lines, "• Continue monitoring market conditions for emerging opportunities")

	lines = append(lines, "",
		"Analysis completed on "+s.now().Format("2006-01-02 15:04:05"),
		"Data sources: "+strings.Join(uniqueSources(data), ", "))

	return strings.Join(lines, "\n")
}

func truncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ") + "..."
}

func filterByImpact(trends []model.Trend, impact string) []model.Trend {
	var out []model.Trend
	for _, t := range trends {
		if t.Impact == impact {
			out = append(out, t)
		}
	}
	return out
}

func headTrends(trends []model.Trend, n int) []model.Trend {
	if len(trends) > n {
		return trends[:n]
	}
	return trends
}

func hasHighConfidence(trends []model.Trend, threshold float64) bool {
	for _, t := range trends {
		if t.Confidence > threshold {
			return true
		}
	}
	return false
}

// uniqueSources preserves first-appearance order so the footer is stable
// for identical input.
func uniqueSources(data []model.MarketData) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range data {
		if !seen[d.Source] {
			seen[d.Source] = true
			out = append(out, d.Source)
		}
	}
	return out
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func pstring(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func pfloat(m map[string]any, key string) float64 {
	switch x := m[key].(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	return 0
}

func pint(m map[string]any, key string) int {
	switch x := m[key].(type) {
	case int:
		return x
	case float64:
		return int(x)
	}
	return 0
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
