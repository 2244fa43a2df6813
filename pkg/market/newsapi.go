package market

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"crewinsight/internal/model"
)

const newsAPIURL = "https://newsapi.org/v2/everything"

// NewsCollector searches recent coverage of the sector and condenses it
// into a single sentiment data point.
type NewsCollector struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsCollector(apiKey string, timeout time.Duration) *NewsCollector {
	return &NewsCollector{
		apiKey:     apiKey,
		baseURL:    newsAPIURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *NewsCollector) Name() string {
	return "Financial News"
}

func (c *NewsCollector) Collect(market string, region model.Region, timeframe model.Timeframe) ([]model.MarketData, error) {
	if c.apiKey == "" {
		slog.Warn("News API key not provided, using placeholder data")
		return c.placeholderData(market), nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -timeframe.Days())

	params := url.Values{}
	params.Set("q", market+" market")
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", "20")
	params.Set("apiKey", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "?" + params.Encode())
	if err != nil {
		slog.Error("error fetching news data", "error", err)
		return c.placeholderData(market), nil
	}
	defer resp.Body.Close()

	var raw newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		slog.Error("error decoding news data", "error", err)
		return c.placeholderData(market), nil
	}

	if raw.Status != "ok" {
		slog.Warn("News API error response", "status", raw.Status, "message", raw.Message)
		return c.placeholderData(market), nil
	}

	return []model.MarketData{c.processArticles(raw)}, nil
}

func (c *NewsCollector) processArticles(raw newsResponse) model.MarketData {
	var sentimentSum float64
	var themes []string

	for _, article := range raw.Articles {
		text := article.Title + " " + article.Description
		sentimentSum += scoreSentiment(text)
		themes = append(themes, extractThemes(text)...)
	}

	var avgSentiment float64
	if len(raw.Articles) > 0 {
		avgSentiment = sentimentSum / float64(len(raw.Articles))
	}

	rawData := map[string]any{
		"status":       raw.Status,
		"totalResults": raw.TotalResults,
		"articles":     raw.Articles,
	}
	processed := map[string]any{
		"article_count":   len(raw.Articles),
		"avg_sentiment":   avgSentiment,
		"sentiment_trend": sentimentTrend(avgSentiment),
		"top_themes":      topThemes(themes, 5),
		"news_volume":     len(raw.Articles),
	}

	return newMarketData(c.Name(), rawData, processed)
}

func (c *NewsCollector) placeholderData(market string) []model.MarketData {
	title := titleCase(market)
	now := time.Now()

	rawData := map[string]any{
		"status":       "ok",
		"totalResults": 15,
		"articles": []newsArticle{
			{
				Title:       fmt.Sprintf("%s sector shows strong growth", title),
				Description: fmt.Sprintf("Recent developments in %s indicate positive trends", market),
				PublishedAt: now.Format(time.RFC3339),
			},
			{
				Title:       fmt.Sprintf("Market analysis: %s outlook remains optimistic", market),
				Description: fmt.Sprintf("Experts predict continued growth in %s sector", market),
				PublishedAt: now.AddDate(0, 0, -1).Format(time.RFC3339),
			},
		},
	}
	processed := map[string]any{
		"article_count":   15,
		"avg_sentiment":   0.3,
		"sentiment_trend": "positive",
		"top_themes":      []string{"earnings", "innovation", "growth"},
		"news_volume":     15,
	}

	return []model.MarketData{newMarketData(c.Name(), rawData, processed)}
}

type newsResponse struct {
	Status       string        `json:"status"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []newsArticle `json:"articles"`
}

type newsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}
