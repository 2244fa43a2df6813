package market

import "strings"

var positiveWords = []string{"growth", "profit", "gain", "rise", "increase", "positive", "strong", "up", "bullish"}
var negativeWords = []string{"decline", "loss", "fall", "drop", "decrease", "negative", "weak", "down", "bearish"}

// scoreSentiment does keyword-count sentiment on free text, normalized by
// word count. Explicitly approximate.
func scoreSentiment(text string) float64 {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	total := len(strings.Fields(text))
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

func sentimentTrend(avg float64) string {
	switch {
	case avg > 0.1:
		return "positive"
	case avg < -0.1:
		return "negative"
	}
	return "neutral"
}

var themeKeywords = []struct {
	theme    string
	keywords []string
}{
	{"earnings", []string{"earnings", "revenue", "profit", "quarterly"}},
	{"regulation", []string{"regulation", "policy", "government", "compliance"}},
	{"innovation", []string{"innovation", "technology", "digital", "ai", "automation"}},
	{"competition", []string{"competition", "market share", "rival", "competitor"}},
	{"mergers", []string{"merger", "acquisition", "deal", "buyout"}},
}

func extractThemes(text string) []string {
	lower := strings.ToLower(text)

	var themes []string
	for _, tk := range themeKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				themes = append(themes, tk.theme)
				break
			}
		}
	}
	return themes
}

// topThemes counts occurrences and returns up to max theme names, most
// frequent first. Ties keep first-appearance order so the output is
// stable for identical input.
func topThemes(themes []string, max int) []string {
	counts := map[string]int{}
	var order []string
	for _, th := range themes {
		if counts[th] == 0 {
			order = append(order, th)
		}
		counts[th]++
	}

	// Insertion sort keeps the first-appearance order stable for ties.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	if len(order) > max {
		order = order[:max]
	}
	return order
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
