package market

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestScoreSentiment(t *testing.T) {
	if scoreSentiment("strong growth and rising profit") <= 0 {
		t.Fatal("expected positive score")
	}
	if scoreSentiment("sharp decline and heavy loss") >= 0 {
		t.Fatal("expected negative score")
	}
	assert.Equal(t, 0.0, scoreSentiment(""))
	assert.Equal(t, 0.0, scoreSentiment("the quiet middle"))
}

func TestSentimentTrend(t *testing.T) {
	assert.Equal(t, "positive", sentimentTrend(0.2))
	assert.Equal(t, "negative", sentimentTrend(-0.2))
	assert.Equal(t, "neutral", sentimentTrend(0.05))
	assert.Equal(t, "neutral", sentimentTrend(-0.1))
}

func TestExtractThemes(t *testing.T) {
	themes := extractThemes("Quarterly revenue beat amid merger talks and new AI automation push")
	assert.Equal(t, []string{"earnings", "innovation", "mergers"}, themes)

	assert.Equal(t, 0, len(extractThemes("nothing relevant here")))
}

func TestTopThemes(t *testing.T) {
	themes := []string{"earnings", "innovation", "earnings", "mergers", "innovation", "earnings"}

	top := topThemes(themes, 5)
	assert.Equal(t, []string{"earnings", "innovation", "mergers"}, top)

	assert.Equal(t, []string{"earnings"}, topThemes(themes, 1))

	// Ties keep first-appearance order.
	tied := topThemes([]string{"regulation", "competition"}, 5)
	assert.Equal(t, []string{"regulation", "competition"}, tied)
}
