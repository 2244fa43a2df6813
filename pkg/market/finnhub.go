package market

import (
	"context"
	"log/slog"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"crewinsight/internal/model"
)

// FinnhubCollector condenses Finnhub market news headlines into a second
// sentiment data point, independent of the News API coverage.
type FinnhubCollector struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubCollector(apiKey string) *FinnhubCollector {
	if apiKey == "" {
		return &FinnhubCollector{}
	}
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubCollector{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *FinnhubCollector) Name() string {
	return "Finnhub"
}

func (c *FinnhubCollector) Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error) {
	if c.client == nil {
		slog.Warn("Finnhub API key not provided, using placeholder data")
		return c.placeholderData(market), nil
	}

	res, _, err := c.client.MarketNews(context.Background()).Category("general").Execute()
	if err != nil {
		slog.Error("error fetching Finnhub market news", "error", err)
		return c.placeholderData(market), nil
	}

	var sentimentSum float64
	var count int
	var themes []string
	headlines := make([]string, 0, len(res))

	for _, news := range res {
		var headline, summary string
		if news.Headline != nil {
			headline = *news.Headline
		}
		if news.Summary != nil {
			summary = *news.Summary
		}
		if headline == "" && summary == "" {
			continue
		}

		text := headline + " " + summary
		sentimentSum += scoreSentiment(text)
		themes = append(themes, extractThemes(text)...)
		headlines = append(headlines, headline)
		count++
	}

	if count == 0 {
		return c.placeholderData(market), nil
	}

	avgSentiment := sentimentSum / float64(count)
	raw := map[string]any{
		"headlines": headlines,
	}
	processed := map[string]any{
		"article_count":   count,
		"avg_sentiment":   avgSentiment,
		"sentiment_trend": sentimentTrend(avgSentiment),
		"top_themes":      topThemes(themes, 5),
		"news_volume":     count,
	}

	return []model.MarketData{newMarketData(c.Name(), raw, processed)}, nil
}

func (c *FinnhubCollector) placeholderData(market string) []model.MarketData {
	raw := map[string]any{
		"headlines": []string{
			titleCase(market) + " names lead broad market advance",
			"Investors weigh rate outlook against steady earnings",
		},
	}
	processed := map[string]any{
		"article_count":   10,
		"avg_sentiment":   0.15,
		"sentiment_trend": "positive",
		"top_themes":      []string{"earnings", "regulation"},
		"news_volume":     10,
	}

	return []model.MarketData{newMarketData(c.Name(), raw, processed)}
}
